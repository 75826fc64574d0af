package config

// loader.go - configuration loading from environment variables.
//
// Precedence order (highest wins):
//   1. CLI flags  (handled by cmd/root.go)
//   2. Environment variables  (this file)
//   3. Settings file  (file.go)
//   4. Defaults   (defaults.go)

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ── Environment variable mapping ─────────────────────────────────────
//
// Every supported env var uses the BOTLINK_ prefix.  Boolean values
// accept "1", "true", "yes" (case-insensitive).  Durations accept Go
// syntax ("250ms") or a bare number of seconds.

// LoadFromEnv overlays environment variables onto cfg.  Only non-empty
// env vars override the existing value.  This should be called BEFORE
// CLI flag parsing so that flags take precedence.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("BOTLINK_ADDRESS"); v != "" {
		cfg.RobotAddress = v
	}
	if v := envInt("BOTLINK_PORT"); v > 0 {
		cfg.RobotPort = v
	}
	if v := os.Getenv("BOTLINK_CAMERA_URL"); v != "" {
		cfg.CameraURL = v
	}
	if v := os.Getenv("BOTLINK_BIND"); v != "" {
		cfg.LocalBind = v
	}

	// Liveness
	if v := envDuration("BOTLINK_TIMEOUT"); v > 0 {
		cfg.Timeout = v
	}
	if v := envDuration("BOTLINK_POLL"); v > 0 {
		cfg.PollInterval = v
	}
	if envBool("BOTLINK_PROMOTE") {
		cfg.Promote = true
	}

	// Reconnect
	if envBool("BOTLINK_RECONNECT") {
		cfg.Reconnect = true
	}
	if v := envInt("BOTLINK_MAX_RECONNECTS"); v > 0 {
		cfg.MaxReconnects = v
	}

	// Output
	if v := os.Getenv("BOTLINK_CAPTURE"); v != "" {
		cfg.CapturePath = v
	}
	if v := os.Getenv("BOTLINK_OUTPUT"); v != "" {
		cfg.Output = strings.ToLower(v)
	}
	if v := envInt("BOTLINK_VERBOSE"); v > 0 {
		cfg.Verbose = v
	}
}

// ── helpers ──────────────────────────────────────────────────────────

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes"
}

func envDuration(key string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	if n, err := strconv.Atoi(v); err == nil {
		return secondsDuration(n)
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}

func secondsDuration(sec int) time.Duration {
	return time.Duration(sec) * time.Second
}
