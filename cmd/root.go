// Package cmd wires up the CLI flags and dispatches to the core modes.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"

	"botlink/config"
	"botlink/internal/core"
	"botlink/internal/metrics"
	"botlink/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X botlink/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Execute parses args and runs the appropriate botlink mode.
func Execute(ctx context.Context, args []string) error {
	cfg := config.New()

	// The settings file sits below the environment and the flags, so it
	// has to be found before anything else is applied.
	if path := settingsPath(args); path != "" {
		if err := config.LoadFile(path, cfg); err != nil {
			return err
		}
	}
	config.LoadFromEnv(cfg)

	fs := flag.NewFlagSet("botlink", flag.ContinueOnError)

	var settings string
	fs.StringVarP(&settings, "config", "f", "", "YAML settings file")

	// ── link ─────────────────────────────────────────────────────
	fs.StringVarP(&cfg.LocalBind, "bind", "b", cfg.LocalBind, "Local host:port for the link socket")
	fs.DurationVarP(&cfg.Timeout, "timeout", "w", cfg.Timeout, "Silence before the link is declared dead")
	fs.DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "Receive poll interval")
	fs.BoolVar(&cfg.Promote, "promote", cfg.Promote, "Report connected on the first datagram")
	fs.BoolVarP(&cfg.Reconnect, "reconnect", "r", cfg.Reconnect, "Reconnect after the link is lost")
	fs.IntVar(&cfg.MaxReconnects, "max-reconnects", cfg.MaxReconnects, "Give up after N reconnects (0 = never)")

	// ── capture ──────────────────────────────────────────────────
	fs.StringVar(&cfg.CapturePath, "capture", cfg.CapturePath, "Append every event to this CBOR file")
	fs.StringVar(&cfg.DumpPath, "dump", "", "Print a capture file and exit")

	// ── peer simulator ───────────────────────────────────────────
	fs.BoolVar(&cfg.Peer, "peer", false, "Act as the robot: send datagrams to <host> <port>")
	fs.DurationVar(&cfg.PeerInterval, "interval", cfg.PeerInterval, "Peer send interval")
	fs.StringVar(&cfg.PeerPayload, "payload", cfg.PeerPayload, "Peer datagram prefix")
	fs.IntVar(&cfg.PeerCount, "count", 0, "Peer datagrams to send (0 = until interrupted)")

	// ── output ───────────────────────────────────────────────────
	fs.StringVarP(&cfg.Output, "output", "o", cfg.Output, "Event output: text, json or auto")
	verbose := 0
	fs.CountVarP(&verbose, "verbose", "v", "Increase verbosity (repeatable)")

	var showVersion, showHelp, dryRun bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")
	fs.BoolVar(&dryRun, "dry-run", false, "Validate the configuration and exit")

	fs.Usage = func() { printUsage(fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp {
		printUsage(fs)
		return nil
	}
	if showVersion {
		fmt.Printf("botlink %s\n", version)
		return nil
	}
	if verbose > 0 {
		cfg.Verbose = verbose
	}
	cfg.Output = strings.ToLower(cfg.Output)

	// ── positional arguments ─────────────────────────────────────
	if err := parsePositional(cfg, fs.Args()); err != nil {
		return err
	}

	// ── validate ─────────────────────────────────────────────────
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := util.NewLogger(cfg.Verbose)
	if dryRun {
		logger.Info("configuration OK: robot %s, bind %s, timeout %v",
			cfg.Target(), cfg.LocalBind, cfg.Timeout)
		return nil
	}

	// ── build and run ────────────────────────────────────────────
	m := metrics.New()
	mode, err := core.Build(cfg, logger, m)
	if err != nil {
		return err
	}

	runErr := mode.Run(ctx)
	if cfg.Verbose >= int(util.LogVerbose) && cfg.DumpPath == "" && !cfg.Peer {
		fmt.Fprintln(os.Stderr, m.JSON())
	}
	return runErr
}

// ── helpers ──────────────────────────────────────────────────────────

// settingsPath finds --config/-f ahead of the real parse.
func settingsPath(args []string) string {
	for i, a := range args {
		switch {
		case a == "--":
			return ""
		case a == "--config" || a == "-f":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(a, "--config="):
			return strings.TrimPrefix(a, "--config=")
		case strings.HasPrefix(a, "-f") && len(a) > 2 && !strings.HasPrefix(a, "--"):
			return a[2:]
		}
	}
	return ""
}

// parsePositional accepts an optional "<host> [port]" overriding the
// robot endpoint from the settings.
func parsePositional(cfg *config.Config, remaining []string) error {
	switch len(remaining) {
	case 0:
	case 1:
		cfg.RobotAddress = remaining[0]
	case 2:
		cfg.RobotAddress = remaining[0]
		port, err := strconv.Atoi(remaining[1])
		if err != nil {
			return fmt.Errorf("invalid port %q", remaining[1])
		}
		cfg.RobotPort = port
	default:
		return fmt.Errorf("too many arguments (use --help for usage)")
	}
	return nil
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `botlink – robot link monitor v%s

Connects to a robot over UDP and reports link status and telemetry.

Usage:
  botlink [options] [host [port]]             Watch the link (default 10.66.66.5 6969)
  botlink --peer [options] <host> <port>      Simulate a robot sending to host:port
  botlink --dump <file>                       Print a capture file

Options:
`, version)
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
  botlink                                     Watch the default robot
  botlink -r --capture run.cbor               Reconnect on loss, record events
  botlink -b 127.0.0.1:7000 127.0.0.1 6969    Watch a local simulator
  botlink --peer -b 127.0.0.1:6969 127.0.0.1 7000
  botlink --dump run.cbor -o text             Replay a capture
`)
}
