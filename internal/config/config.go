// Package config loads and bootstraps the client's persisted configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/brokkr-rpc/brokkr/internal/auth"
	"github.com/brokkr-rpc/brokkr/internal/constants"
)

// ClientConfig is the persisted per-client configuration record.
type ClientConfig struct {
	URL               string `yaml:"url"`
	DeviceID          string `yaml:"device_id,omitempty"`
	Mount             string `yaml:"mount,omitempty"`
	HeartbeatInterval string `yaml:"heartbeat_interval"`
	ReconnectInterval string `yaml:"reconnect_interval,omitempty"`
}

// Error is a configuration failure annotated with the file path it concerns.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Default returns a fully specified default configuration record.
func Default() ClientConfig {
	return ClientConfig{
		URL:               constants.DefaultBrokerURL,
		HeartbeatInterval: constants.DefaultHeartbeat,
	}
}

// Load reads and parses the configuration at path.
func Load(path string) (ClientConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ClientConfig{}, &Error{Path: path, Err: err}
	}
	var cfg ClientConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ClientConfig{}, &Error{Path: path, Err: err}
	}
	if cfg.URL == "" {
		return ClientConfig{}, &Error{Path: path, Err: fmt.Errorf("missing required field %q", "url")}
	}
	if cfg.HeartbeatInterval == "" {
		cfg.HeartbeatInterval = constants.DefaultHeartbeat
	}
	return cfg, nil
}

// LoadOrDefault loads the configuration at path when the file exists; a file
// that exists but cannot be read or parsed is an error, never a silent
// fallback. When no file exists the default record is returned, and with
// createIfMissing it is also persisted, creating parent directories as
// needed. A persistence failure aborts rather than continuing.
func LoadOrDefault(path string, createIfMissing bool) (ClientConfig, error) {
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}
	cfg := Default()
	if createIfMissing {
		if err := Save(cfg, path); err != nil {
			return ClientConfig{}, err
		}
	}
	return cfg, nil
}

// Save persists cfg to path in its serialized form, creating intermediate
// directories as needed.
func Save(cfg ClientConfig, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &Error{Path: path, Err: err}
		}
	}
	encoded, err := yaml.Marshal(cfg)
	if err != nil {
		return &Error{Path: path, Err: err}
	}
	if err := os.WriteFile(path, encoded, 0o600); err != nil {
		return &Error{Path: path, Err: err}
	}
	return nil
}

// Heartbeat parses the configured heartbeat interval. String-duration
// handling stays in this layer; LoginParams carries a numeric duration.
func (c ClientConfig) Heartbeat() (time.Duration, error) {
	d, err := time.ParseDuration(c.HeartbeatInterval)
	if err != nil {
		return 0, fmt.Errorf("config: parse heartbeat_interval %q: %w", c.HeartbeatInterval, err)
	}
	return d, nil
}

// LoginParams derives per-connection login parameters from the record.
func (c ClientConfig) LoginParams(user, password string) (auth.LoginParams, error) {
	params := auth.LoginParams{
		User:       user,
		Password:   password,
		Type:       auth.LoginSHA1,
		DeviceID:   c.DeviceID,
		MountPoint: c.Mount,
	}
	if c.HeartbeatInterval != "" {
		hbi, err := c.Heartbeat()
		if err != nil {
			return auth.LoginParams{}, err
		}
		params.HeartbeatInterval = &hbi
	}
	return params, nil
}
