// Package config defines the runtime configuration for botlink: the
// robot settings, the local socket, liveness tuning and output options.
package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	linkerr "botlink/internal/errors"
	"botlink/util"
)

// Settings is what the application knows about the robot.  It is read
// from the settings file and never written back.
type Settings struct {
	RobotAddress string `yaml:"robot_address"`
	RobotPort    int    `yaml:"robot_port"`

	// CameraURL is passed through untouched; nothing in botlink opens it.
	CameraURL string `yaml:"camera_url"`
}

// Config holds every tuneable for a single botlink run.
type Config struct {
	Settings

	// ── Socket ───────────────────────────────────────────────────────
	LocalBind string // host:port the link socket binds before connecting

	// ── Liveness ─────────────────────────────────────────────────────
	Timeout      time.Duration
	PollInterval time.Duration
	Promote      bool // Connecting → Connected on first datagram

	// ── Reconnect ────────────────────────────────────────────────────
	Reconnect     bool
	MaxReconnects int // 0 = unlimited

	// ── Capture ──────────────────────────────────────────────────────
	CapturePath string // --capture: append events here
	DumpPath    string // --dump: print this capture and exit

	// ── Peer simulator ───────────────────────────────────────────────
	Peer         bool
	PeerInterval time.Duration
	PeerPayload  string
	PeerCount    int // 0 = until interrupted

	// ── Output ───────────────────────────────────────────────────────
	Output  string // text, json or auto
	Verbose int
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Settings: Settings{
			RobotAddress: DefaultRobotAddress,
			RobotPort:    DefaultRobotPort,
			CameraURL:    DefaultCameraURL,
		},
		LocalBind:    DefaultLocalBind,
		Timeout:      DefaultTimeout,
		PollInterval: DefaultPollInterval,
		PeerInterval: DefaultPeerInterval,
		PeerPayload:  DefaultPeerPayload,
		Output:       DefaultOutput,
	}
}

// Target returns the robot endpoint as host:port.
func (c *Config) Target() string {
	return util.FormatAddr(c.RobotAddress, c.RobotPort)
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.DumpPath != "" {
		// Dumping only reads a file.
		return nil
	}

	if err := util.ValidateHost(c.RobotAddress); err != nil {
		return &linkerr.ConfigError{
			Field:   "address",
			Value:   c.RobotAddress,
			Message: err.Error(),
			Hint:    "pass the robot's IPv4 address, e.g. 10.66.66.5",
		}
	}
	if err := util.ValidatePort(c.RobotPort); err != nil {
		return &linkerr.ConfigError{
			Field:   "port",
			Value:   c.RobotPort,
			Message: err.Error(),
		}
	}
	if err := validateBind(c.LocalBind); err != nil {
		return &linkerr.ConfigError{
			Field:   "bind",
			Value:   c.LocalBind,
			Message: err.Error(),
			Hint:    "use host:port, e.g. 0.0.0.0:6969",
		}
	}

	if c.Timeout <= 0 {
		return &linkerr.ConfigError{Field: "timeout", Value: c.Timeout, Message: "must be positive"}
	}
	if c.PollInterval <= 0 {
		return &linkerr.ConfigError{Field: "poll", Value: c.PollInterval, Message: "must be positive"}
	}
	if c.PollInterval >= c.Timeout {
		return &linkerr.ConfigError{
			Field:   "poll",
			Value:   c.PollInterval,
			Message: fmt.Sprintf("must be shorter than the liveness timeout (%v)", c.Timeout),
		}
	}
	if c.MaxReconnects < 0 {
		return &linkerr.ConfigError{Field: "max-reconnects", Value: c.MaxReconnects, Message: "must not be negative"}
	}

	switch c.Output {
	case "text", "json", "auto":
	default:
		return &linkerr.ConfigError{
			Field:   "output",
			Value:   c.Output,
			Message: "unknown format",
			Hint:    "use text, json or auto",
		}
	}

	if c.Peer {
		if c.Reconnect || c.CapturePath != "" {
			return &linkerr.ConfigError{
				Field:   "peer",
				Message: "peer mode only sends; --reconnect and --capture do not apply",
			}
		}
		if c.PeerInterval <= 0 {
			return &linkerr.ConfigError{Field: "interval", Value: c.PeerInterval, Message: "must be positive"}
		}
		if c.PeerCount < 0 {
			return &linkerr.ConfigError{Field: "count", Value: c.PeerCount, Message: "must not be negative"}
		}
	}

	return nil
}

func validateBind(addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	if host != "" {
		if err := util.ValidateHost(host); err != nil {
			return err
		}
	}
	p, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("invalid port %q", port)
	}
	return util.ValidatePort(p)
}
