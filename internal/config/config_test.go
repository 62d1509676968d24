package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadParsesAllFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"url: tcp://broker.example:3755",
		"device_id: dev-7",
		"mount: test/site",
		"heartbeat_interval: 30s",
		"reconnect_interval: 5s",
	}, "\n"))

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.URL != "tcp://broker.example:3755" {
		t.Fatalf("unexpected url: %q", cfg.URL)
	}
	if cfg.DeviceID != "dev-7" || cfg.Mount != "test/site" {
		t.Fatalf("unexpected identity fields: %+v", cfg)
	}
	if cfg.HeartbeatInterval != "30s" || cfg.ReconnectInterval != "5s" {
		t.Fatalf("unexpected intervals: %+v", cfg)
	}
}

func TestLoadDefaultsHeartbeatWhenAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "url: tcp://localhost:3755\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HeartbeatInterval != "1m" {
		t.Fatalf("expected default heartbeat 1m, got %q", cfg.HeartbeatInterval)
	}
}

func TestLoadMissingURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "mount: test/site\n")

	_, err := Load(path)
	var cfgErr *Error
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if cfgErr.Path != path {
		t.Fatalf("error should carry the path, got %q", cfgErr.Path)
	}
}

func TestLoadOrDefaultCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")

	cfg, err := LoadOrDefault(path, true)
	if err != nil {
		t.Fatalf("load or default: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected default config, got %+v", cfg)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload persisted defaults: %v", err)
	}
	if reloaded != cfg {
		t.Fatalf("persisted config differs: %+v vs %+v", reloaded, cfg)
	}
}

func TestLoadOrDefaultWithoutPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := LoadOrDefault(path, false)
	if err != nil {
		t.Fatalf("load or default: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected default config, got %+v", cfg)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("no file may be created without createIfMissing")
	}
}

func TestLoadOrDefaultRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "url: [unbalanced\n")

	_, err := LoadOrDefault(path, false)
	if err == nil {
		t.Fatal("invalid existing file must not fall back to defaults")
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("error should name the file path: %v", err)
	}
}

func TestDefaultRecord(t *testing.T) {
	cfg := Default()
	if cfg.URL != "tcp://localhost:3755" {
		t.Fatalf("unexpected default url: %q", cfg.URL)
	}
	if cfg.HeartbeatInterval != "1m" {
		t.Fatalf("unexpected default heartbeat: %q", cfg.HeartbeatInterval)
	}
	if cfg.DeviceID != "" || cfg.Mount != "" || cfg.ReconnectInterval != "" {
		t.Fatalf("optional fields must default to absent: %+v", cfg)
	}
}

func TestHeartbeatParsing(t *testing.T) {
	cfg := Default()
	d, err := cfg.Heartbeat()
	if err != nil {
		t.Fatalf("parse heartbeat: %v", err)
	}
	if d != time.Minute {
		t.Fatalf("expected 1m, got %s", d)
	}

	cfg.HeartbeatInterval = "soon"
	if _, err := cfg.Heartbeat(); err == nil {
		t.Fatal("expected error for unparseable duration")
	}
}

func TestLoginParamsDerivation(t *testing.T) {
	cfg := ClientConfig{
		URL:               "tcp://localhost:3755",
		DeviceID:          "dev-1",
		Mount:             "test/site",
		HeartbeatInterval: "30s",
	}
	params, err := cfg.LoginParams("alice", "secret")
	if err != nil {
		t.Fatalf("derive login params: %v", err)
	}
	if params.User != "alice" || params.Password != "secret" {
		t.Fatalf("unexpected credentials: %+v", params)
	}
	if params.DeviceID != "dev-1" || params.MountPoint != "test/site" {
		t.Fatalf("unexpected identity: %+v", params)
	}
	if params.HeartbeatInterval == nil || *params.HeartbeatInterval != 30*time.Second {
		t.Fatalf("unexpected heartbeat: %+v", params.HeartbeatInterval)
	}
}
