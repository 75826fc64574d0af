package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromEnv_Robot(t *testing.T) {
	t.Setenv("BOTLINK_ADDRESS", "192.168.1.20")
	t.Setenv("BOTLINK_PORT", "7000")
	t.Setenv("BOTLINK_CAMERA_URL", "rtsp://cam:8554/live")
	cfg := New()
	LoadFromEnv(cfg)

	if cfg.RobotAddress != "192.168.1.20" || cfg.RobotPort != 7000 {
		t.Errorf("robot = %s:%d", cfg.RobotAddress, cfg.RobotPort)
	}
	if cfg.CameraURL != "rtsp://cam:8554/live" {
		t.Errorf("CameraURL = %q", cfg.CameraURL)
	}
}

func TestLoadFromEnv_Booleans(t *testing.T) {
	tests := []struct {
		key    string
		values []string
		get    func(*Config) bool
	}{
		{"BOTLINK_PROMOTE", []string{"1", "true", "yes", "TRUE", "Yes"}, func(c *Config) bool { return c.Promote }},
		{"BOTLINK_RECONNECT", []string{"1", "true"}, func(c *Config) bool { return c.Reconnect }},
	}

	for _, tt := range tests {
		for _, v := range tt.values {
			t.Run(tt.key+"="+v, func(t *testing.T) {
				t.Setenv(tt.key, v)
				cfg := New()
				LoadFromEnv(cfg)
				if !tt.get(cfg) {
					t.Errorf("%s=%s should enable the option", tt.key, v)
				}
			})
		}
	}
}

func TestLoadFromEnv_FalseBooleans(t *testing.T) {
	for _, v := range []string{"0", "false", "no", "nah"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("BOTLINK_PROMOTE", v)
			cfg := New()
			LoadFromEnv(cfg)
			if cfg.Promote {
				t.Error("Promote should stay false")
			}
		})
	}
}

func TestLoadFromEnv_Durations(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"5", 5 * time.Second},
		{"250ms", 250 * time.Millisecond},
		{"1m", time.Minute},
		{"garbage", DefaultTimeout},
		{"-2s", DefaultTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("BOTLINK_TIMEOUT", tt.value)
			cfg := New()
			LoadFromEnv(cfg)
			if cfg.Timeout != tt.want {
				t.Errorf("Timeout = %v, want %v", cfg.Timeout, tt.want)
			}
		})
	}
}

func TestLoadFromEnv_InvalidPort(t *testing.T) {
	t.Setenv("BOTLINK_PORT", "not-a-number")
	cfg := New()
	LoadFromEnv(cfg)
	if cfg.RobotPort != DefaultRobotPort {
		t.Errorf("RobotPort = %d, want default %d", cfg.RobotPort, DefaultRobotPort)
	}
}

func TestLoadFromEnv_EmptyDoesNotOverride(t *testing.T) {
	os.Unsetenv("BOTLINK_ADDRESS")
	cfg := New()
	cfg.RobotAddress = "preset"
	LoadFromEnv(cfg)
	if cfg.RobotAddress != "preset" {
		t.Errorf("RobotAddress = %q, want preset", cfg.RobotAddress)
	}
}

// ── Settings file ────────────────────────────────────────────────────

func writeSettings(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "botlink.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeSettings(t, `
robot_address: 10.0.0.9
robot_port: 7001
camera_url: rtsp://10.0.0.9:8554/front
link:
  bind: 0.0.0.0:7001
  timeout: 1500ms
  poll_interval: 5ms
  promote: true
  reconnect: true
  max_reconnects: 4
output: json
`)
	cfg := New()
	if err := LoadFile(path, cfg); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Target() != "10.0.0.9:7001" {
		t.Errorf("Target = %q", cfg.Target())
	}
	if cfg.CameraURL != "rtsp://10.0.0.9:8554/front" {
		t.Errorf("CameraURL = %q", cfg.CameraURL)
	}
	if cfg.LocalBind != "0.0.0.0:7001" {
		t.Errorf("LocalBind = %q", cfg.LocalBind)
	}
	if cfg.Timeout != 1500*time.Millisecond || cfg.PollInterval != 5*time.Millisecond {
		t.Errorf("timing = %v/%v", cfg.Timeout, cfg.PollInterval)
	}
	if !cfg.Promote || !cfg.Reconnect || cfg.MaxReconnects != 4 {
		t.Errorf("flags = %v %v %d", cfg.Promote, cfg.Reconnect, cfg.MaxReconnects)
	}
	if cfg.Output != "json" {
		t.Errorf("Output = %q", cfg.Output)
	}
}

func TestLoadFile_PartialKeepsDefaults(t *testing.T) {
	path := writeSettings(t, "camera_url: rtsp://elsewhere\n")
	cfg := New()
	if err := LoadFile(path, cfg); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.RobotAddress != DefaultRobotAddress || cfg.Timeout != DefaultTimeout {
		t.Errorf("untouched keys changed: %s %v", cfg.RobotAddress, cfg.Timeout)
	}
	if cfg.CameraURL != "rtsp://elsewhere" {
		t.Errorf("CameraURL = %q", cfg.CameraURL)
	}
}

func TestLoadFile_Empty(t *testing.T) {
	cfg := New()
	if err := LoadFile(writeSettings(t, ""), cfg); err != nil {
		t.Fatalf("empty file should be accepted: %v", err)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "robot_adress: 1.2.3.4\n"},
		{"bad duration", "link:\n  timeout: soon\n"},
		{"wrong type", "robot_port: many\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := LoadFile(writeSettings(t, tt.body), New()); err == nil {
				t.Error("expected error")
			}
		})
	}

	if err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), New()); err == nil {
		t.Error("missing file should fail")
	}
}
