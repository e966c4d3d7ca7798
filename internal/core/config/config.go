package config

import (
	"time"

	redisclient "github.com/jamlando/joanie-resilience/internal/infra/redis"
	"github.com/jamlando/joanie-resilience/internal/infra/storage/postgres"
	"github.com/jamlando/joanie-resilience/internal/resilience/queue"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server       ServerConfig       `yaml:"server"`
	Logging      LoggingConfig      `yaml:"logging"`
	Redis        redisclient.Config `yaml:"redis"`
	Database     postgres.Config    `yaml:"database"`
	Queue        queue.Config       `yaml:"queue"`
	Reachability ReachabilityConfig `yaml:"reachability"`
	Analytics    AnalyticsConfig    `yaml:"analytics"`
}

// AnalyticsConfig tunes durable analytics retention.
type AnalyticsConfig struct {
	Retention time.Duration `yaml:"retention"` // 0 = keep forever
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// ReachabilityConfig tunes the connectivity edge monitor.
type ReachabilityConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}
