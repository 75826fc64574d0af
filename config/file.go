package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the settings file.  Pointer fields distinguish
// "absent" from a zero value so only keys present in the file override
// what is already in Config.
type fileConfig struct {
	RobotAddress *string `yaml:"robot_address"`
	RobotPort    *int    `yaml:"robot_port"`
	CameraURL    *string `yaml:"camera_url"`

	Link *struct {
		Bind          *string        `yaml:"bind"`
		Timeout       *time.Duration `yaml:"timeout"`
		PollInterval  *time.Duration `yaml:"poll_interval"`
		Promote       *bool          `yaml:"promote"`
		Reconnect     *bool          `yaml:"reconnect"`
		MaxReconnects *int           `yaml:"max_reconnects"`
	} `yaml:"link"`

	Output *string `yaml:"output"`
}

// LoadFile overlays the YAML settings file at path onto cfg.  Unknown
// keys are rejected so typos do not silently fall back to defaults.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}
	if err := decodeFile(data, cfg); err != nil {
		return fmt.Errorf("parsing settings %s: %w", path, err)
	}
	return nil
}

func decodeFile(data []byte, cfg *Config) error {
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	if fc.RobotAddress != nil {
		cfg.RobotAddress = *fc.RobotAddress
	}
	if fc.RobotPort != nil {
		cfg.RobotPort = *fc.RobotPort
	}
	if fc.CameraURL != nil {
		cfg.CameraURL = *fc.CameraURL
	}
	if fc.Output != nil {
		cfg.Output = *fc.Output
	}

	if l := fc.Link; l != nil {
		if l.Bind != nil {
			cfg.LocalBind = *l.Bind
		}
		if l.Timeout != nil {
			cfg.Timeout = *l.Timeout
		}
		if l.PollInterval != nil {
			cfg.PollInterval = *l.PollInterval
		}
		if l.Promote != nil {
			cfg.Promote = *l.Promote
		}
		if l.Reconnect != nil {
			cfg.Reconnect = *l.Reconnect
		}
		if l.MaxReconnects != nil {
			cfg.MaxReconnects = *l.MaxReconnects
		}
	}
	return nil
}
