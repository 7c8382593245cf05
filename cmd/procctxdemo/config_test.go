package main

import (
	"os"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "procctxdemo-*.yaml")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	f.Close()
	return f.Name()
}

// TestLoadConfig_NoPathUsesDefaults verifies that an empty path is a valid
// way to get an all-defaults configuration.
func TestLoadConfig_NoPathUsesDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig(\"\"): %v", err)
	}
	if cfg.ServiceName != "procctxdemo" {
		t.Errorf("ServiceName = %q, want %q", cfg.ServiceName, "procctxdemo")
	}
	if cfg.DiscoveryAddr != "127.0.0.1:9464" {
		t.Errorf("DiscoveryAddr = %q, want %q", cfg.DiscoveryAddr, "127.0.0.1:9464")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
}

// TestLoadConfig_PartialOverride verifies that fields present in the YAML
// override defaults while absent fields keep their default.
func TestLoadConfig_PartialOverride(t *testing.T) {
	path := writeTempConfig(t, `
service_name: billing
environment: prod
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.ServiceName != "billing" {
		t.Errorf("ServiceName = %q, want %q", cfg.ServiceName, "billing")
	}
	if cfg.Environment != "prod" {
		t.Errorf("Environment = %q, want %q", cfg.Environment, "prod")
	}
	// Untouched fields still get their defaults.
	if cfg.ServiceVersion != "0.0.0" {
		t.Errorf("ServiceVersion = %q, want %q", cfg.ServiceVersion, "0.0.0")
	}
}

// TestLoadConfig_RejectsBadLogLevel verifies validation of the log_level
// enum.
func TestLoadConfig_RejectsBadLogLevel(t *testing.T) {
	path := writeTempConfig(t, "log_level: verbose\n")
	if _, err := loadConfig(path); err == nil {
		t.Fatal("loadConfig succeeded with an invalid log_level")
	}
}

// TestLoadConfig_RejectsNegativeUpdateInterval verifies validation of
// update_interval_seconds.
func TestLoadConfig_RejectsNegativeUpdateInterval(t *testing.T) {
	path := writeTempConfig(t, "update_interval_seconds: -5\n")
	if _, err := loadConfig(path); err == nil {
		t.Fatal("loadConfig succeeded with a negative update_interval_seconds")
	}
}

// TestLoadConfig_MissingFile verifies that a nonexistent path fails with a
// wrapped error rather than silently falling back to defaults.
func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := loadConfig("/nonexistent/procctxdemo.yaml"); err == nil {
		t.Fatal("loadConfig succeeded reading a nonexistent file")
	}
}
