package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestReadConfigCreatesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	_, err := ReadConfig(path)
	if !errors.Is(err, ErrConfigCreated) {
		t.Fatalf("expected ErrConfigCreated, got %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("template not written: %v", err)
	}

	config, err := ReadConfig(path)
	if err != nil {
		t.Fatalf("reading template: %v", err)
	}
	if config.Monitor.PollInterval != "1s" {
		t.Errorf("poll interval = %q, want 1s", config.Monitor.PollInterval)
	}
	if config.Monitor.StatusEndpoint != "/lol-summoner/v1/status" {
		t.Errorf("status endpoint = %q", config.Monitor.StatusEndpoint)
	}
}

func TestReadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"remote":{"port":"2999","token":"dGVzdA=="},"debug_mode":true}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := ReadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Remote.Port != "2999" || config.Remote.Token != "dGVzdA==" {
		t.Errorf("remote = %+v", config.Remote)
	}
	if !config.DebugMode {
		t.Error("debug mode not loaded")
	}
	if config.Journal.Collection != "events" {
		t.Errorf("default collection lost, got %q", config.Journal.Collection)
	}
}

func TestReadConfigInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	config, err := ReadConfig(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	// 出错时仍返回默认值
	if config.Monitor.PollInterval != "1s" || config.LogDir != "logs" {
		t.Errorf("config = %+v", config)
	}
}
