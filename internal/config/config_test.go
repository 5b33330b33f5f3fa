package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SQLITE_DB_PATH", filepath.Join(t.TempDir(), "subtracker.db"))
	cfg := Load()
	if cfg.Port != "8081" {
		t.Errorf("Port = %s, want 8081", cfg.Port)
	}
	if cfg.AMQPQueue != "reminders" {
		t.Errorf("AMQPQueue = %s, want reminders", cfg.AMQPQueue)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate, got %v", err)
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	t.Setenv("SQLITE_DB_PATH", filepath.Join(t.TempDir(), "subtracker.db"))
	cfg := Load()
	cfg.Port = "notaport"
	cfg.AMQPURL = "http://wrong-scheme"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "invalid port") {
		t.Errorf("missing port error in %q", msg)
	}
	if !strings.Contains(msg, "AMQP URL scheme") {
		t.Errorf("missing AMQP scheme error in %q", msg)
	}
}

func TestValidatePortRange(t *testing.T) {
	t.Setenv("SQLITE_DB_PATH", filepath.Join(t.TempDir(), "subtracker.db"))
	cfg := Load()
	cfg.Port = "70000"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range port")
	}
}
