package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags, settings file parsing, and environment variable
// loading.

const (
	// DefaultRobotAddress is the robot's address on its own network.
	DefaultRobotAddress = "10.66.66.5"

	// DefaultRobotPort is the port the robot streams telemetry from.
	DefaultRobotPort = 6969

	// DefaultCameraURL is the robot's video stream.
	DefaultCameraURL = "rtsp://localhost:8554"

	// DefaultLocalBind is where the link socket binds.  The robot sends
	// to the same port number it streams from.
	DefaultLocalBind = "0.0.0.0:6969"

	// DefaultTimeout is how long the link may stay silent before it is
	// declared dead.
	DefaultTimeout = 3 * time.Second

	// DefaultPollInterval is the monitor's sleep between receives.
	DefaultPollInterval = 10 * time.Millisecond

	// DefaultPeerInterval is how often the peer simulator sends.
	DefaultPeerInterval = 100 * time.Millisecond

	// DefaultPeerPayload is the datagram the peer simulator sends.
	DefaultPeerPayload = "botlink-peer"

	// DefaultOutput picks text on a terminal and JSON lines otherwise.
	DefaultOutput = "auto"
)
