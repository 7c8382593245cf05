package main

import (
	"errors"
	"fmt"
	"net"
	"os"

	"gopkg.in/yaml.v3"
)

// config is the optional YAML configuration for procctxdemo. Every field
// has a default, so running with no --config flag at all is a valid way to
// start the demo.
type config struct {
	// ServiceName is the service.name attribute to publish. Defaults to
	// "procctxdemo".
	ServiceName string `yaml:"service_name"`

	// ServiceVersion is the service.version attribute to publish. Defaults
	// to "0.0.0".
	ServiceVersion string `yaml:"service_version"`

	// Environment is the deployment.environment.name attribute to publish.
	// Defaults to "dev".
	Environment string `yaml:"environment"`

	// InstanceID is the service.instance.id attribute to publish. Defaults
	// to "pid-<pid>", using the process pid, if left empty.
	InstanceID string `yaml:"instance_id"`

	// DiscoveryAddr is the listen address for the read-only discovery HTTP
	// server. Defaults to "127.0.0.1:9464". Only a loopback IP or
	// "localhost" host is accepted: discovery of a process's own context is
	// an in-process or same-host concern, never a network one.
	DiscoveryAddr string `yaml:"discovery_addr"`

	// LogLevel sets the minimum log severity: "debug", "info", "warn", or
	// "error". Defaults to "info".
	LogLevel string `yaml:"log_level"`

	// UpdateIntervalSeconds, if nonzero, republishes the context on that
	// cadence with an incrementing counter folded into a resource
	// attribute, exercising Publish's update-in-place path instead of only
	// its create path. Zero disables periodic updates.
	UpdateIntervalSeconds int `yaml:"update_interval_seconds"`
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// loadConfig reads path if non-empty, otherwise returns the all-defaults
// configuration. Defaults are applied either way, then the result is
// validated.
func loadConfig(path string) (*config, error) {
	var cfg config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("procctxdemo: cannot read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("procctxdemo: cannot parse %q: %w", path, err)
		}
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("procctxdemo: invalid configuration: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *config) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "procctxdemo"
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = "0.0.0"
	}
	if cfg.Environment == "" {
		cfg.Environment = "dev"
	}
	if cfg.InstanceID == "" {
		cfg.InstanceID = fmt.Sprintf("pid-%d", os.Getpid())
	}
	if cfg.DiscoveryAddr == "" {
		cfg.DiscoveryAddr = "127.0.0.1:9464"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

func validateConfig(cfg *config) error {
	var errs []error
	if !validLogLevels[cfg.LogLevel] {
		errs = append(errs, fmt.Errorf("log_level %q must be one of: debug, info, warn, error", cfg.LogLevel))
	}
	if cfg.UpdateIntervalSeconds < 0 {
		errs = append(errs, errors.New("update_interval_seconds must not be negative"))
	}
	if host, _, err := net.SplitHostPort(cfg.DiscoveryAddr); err != nil {
		errs = append(errs, fmt.Errorf("discovery_addr %q: %w", cfg.DiscoveryAddr, err))
	} else if ip := net.ParseIP(host); host != "localhost" && (ip == nil || !ip.IsLoopback()) {
		errs = append(errs, fmt.Errorf("discovery_addr %q must be a loopback address", cfg.DiscoveryAddr))
	}
	return errors.Join(errs...)
}
