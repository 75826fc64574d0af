package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	linkerr "botlink/internal/errors"
)

// TestExecute_Version verifies --version prints a version string.
func TestExecute_Version(t *testing.T) {
	err := Execute(context.Background(), []string{"--version"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestExecute_Help verifies --help returns without error.
func TestExecute_Help(t *testing.T) {
	if err := Execute(context.Background(), []string{"--help"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestExecute_DryRun verifies --dry-run validates and exits cleanly.
func TestExecute_DryRun(t *testing.T) {
	tests := [][]string{
		{"--dry-run"},
		{"--dry-run", "127.0.0.1", "7000"},
		{"--dry-run", "robot.local"},
		{"--dry-run", "--peer", "-b", "127.0.0.1:6969", "127.0.0.1", "7000"},
		{"--dry-run", "--dump", "run.cbor"},
		{"--dry-run", "-w", "500ms", "--poll", "5ms", "--promote", "-r"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			if err := Execute(context.Background(), args); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

// TestExecute_DryRunInvalid verifies --dry-run still catches bad configs.
func TestExecute_DryRunInvalid(t *testing.T) {
	tests := []struct {
		args  []string
		field string
	}{
		{[]string{"--dry-run", "::1"}, "address"},
		{[]string{"--dry-run", "10.0.0.1", "0"}, "port"},
		{[]string{"--dry-run", "-w", "5ms", "--poll", "10ms"}, "poll"},
		{[]string{"--dry-run", "-o", "xml"}, "output"},
		{[]string{"--dry-run", "--peer", "--capture", "x.cbor"}, "peer"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			err := Execute(context.Background(), tt.args)
			var ce *linkerr.ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("got %v, want *ConfigError", err)
			}
			if ce.Field != tt.field {
				t.Errorf("Field = %q, want %q", ce.Field, tt.field)
			}
		})
	}
}

// TestExecute_InvalidArgs verifies unknown flags and stray arguments
// produce an error.
func TestExecute_InvalidArgs(t *testing.T) {
	for _, args := range [][]string{
		{"--nonexistent-flag"},
		{"--dry-run", "10.0.0.1", "http"},
		{"--dry-run", "a", "1", "extra"},
	} {
		if err := Execute(context.Background(), args); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

// TestExecute_SettingsFile verifies the YAML file is applied and that
// flags still win over it.
func TestExecute_SettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "botlink.yaml")
	if err := os.WriteFile(path, []byte("robot_address: \"::1\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	err := Execute(context.Background(), []string{"--dry-run", "--config", path})
	var ce *linkerr.ConfigError
	if !errors.As(err, &ce) || ce.Field != "address" {
		t.Fatalf("settings file should be applied: got %v", err)
	}

	if err := Execute(context.Background(), []string{"--dry-run", "-f", path, "10.0.0.1"}); err != nil {
		t.Fatalf("positional host should override the file: %v", err)
	}

	if err := Execute(context.Background(), []string{"--dry-run", "--config=" + filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Fatal("missing settings file should fail")
	}
}

// TestExecute_EnvOverridesFile verifies environment variables sit
// between the file and the flags.
func TestExecute_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "botlink.yaml")
	if err := os.WriteFile(path, []byte("robot_address: \"::1\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BOTLINK_ADDRESS", "10.0.0.2")

	if err := Execute(context.Background(), []string{"--dry-run", "-f", path}); err != nil {
		t.Fatalf("env should override the file: %v", err)
	}
}

func TestSettingsPath(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, ""},
		{[]string{"--config", "a.yaml"}, "a.yaml"},
		{[]string{"-v", "--config=b.yaml"}, "b.yaml"},
		{[]string{"-f", "c.yaml"}, "c.yaml"},
		{[]string{"-fd.yaml"}, "d.yaml"},
		{[]string{"--", "--config", "e.yaml"}, ""},
		{[]string{"--config"}, ""},
	}
	for _, tt := range tests {
		if got := settingsPath(tt.args); got != tt.want {
			t.Errorf("settingsPath(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}
