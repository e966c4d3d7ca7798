package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults if necessary
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Queue.DrainInterval == 0 {
		cfg.Queue.DrainInterval = 30 * time.Second
	}
	if cfg.Queue.DefaultMaxAttempts == 0 {
		cfg.Queue.DefaultMaxAttempts = 3
	}
	if cfg.Reachability.Debounce == 0 {
		cfg.Reachability.Debounce = 2 * time.Second
	}

	return &cfg, nil
}
