package core

import (
	"os"

	"botlink/config"
	"botlink/internal/event"
	"botlink/internal/metrics"
	"botlink/internal/retry"
	"botlink/util"
)

// Build constructs the appropriate Mode from the given configuration.
// m may be nil when no counters are wanted.
func Build(cfg *config.Config, logger *util.Logger, m *metrics.Collector) (Mode, error) {
	switch {
	case cfg.DumpPath != "":
		return buildDump(cfg, logger)
	case cfg.Peer:
		return buildPeer(cfg, logger)
	default:
		return buildWatch(cfg, logger, m)
	}
}

// ── mode builders ────────────────────────────────────────────────────

func buildWatch(cfg *config.Config, logger *util.Logger, m *metrics.Collector) (Mode, error) {
	format, err := outputFormat(cfg.Output)
	if err != nil {
		return nil, err
	}

	var backoff *retry.Backoff
	if cfg.Reconnect {
		backoff = retry.DefaultBackoff()
	}

	return &WatchMode{
		Bind:          cfg.LocalBind,
		Host:          cfg.RobotAddress,
		Port:          cfg.RobotPort,
		CameraURL:     cfg.CameraURL,
		Timeout:       cfg.Timeout,
		PollInterval:  cfg.PollInterval,
		Promote:       cfg.Promote,
		Reconnect:     cfg.Reconnect,
		MaxReconnects: cfg.MaxReconnects,
		Backoff:       backoff,
		CapturePath:   cfg.CapturePath,
		Format:        format,
		Logger:        logger,
		Metrics:       m,
	}, nil
}

func buildPeer(cfg *config.Config, logger *util.Logger) (Mode, error) {
	return &PeerMode{
		Bind:     cfg.LocalBind,
		Target:   cfg.Target(),
		Interval: cfg.PeerInterval,
		Payload:  []byte(cfg.PeerPayload),
		Count:    cfg.PeerCount,
		Logger:   logger,
	}, nil
}

func buildDump(cfg *config.Config, logger *util.Logger) (Mode, error) {
	format, err := outputFormat(cfg.Output)
	if err != nil {
		return nil, err
	}
	return &DumpMode{
		Path:   cfg.DumpPath,
		Format: format,
		Logger: logger,
	}, nil
}

// ── shared helpers ───────────────────────────────────────────────────

// outputFormat resolves "auto" against stdout: text for a terminal,
// JSON lines for pipes and files.
func outputFormat(s string) (event.Format, error) {
	if s == "" || s == "auto" {
		if util.IsTerminal(os.Stdout) {
			return event.FormatText, nil
		}
		return event.FormatJSON, nil
	}
	return event.ParseFormat(s)
}
