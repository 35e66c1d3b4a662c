package config

import (
	"time"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	API     APIConfig     `yaml:"api"`
	Cache   CacheConfig   `yaml:"cache"`
	Retry   RetryConfig   `yaml:"retry"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds ops HTTP server settings. The envconfig tags name
// only the leaf: envconfig prefixes nested structs with the outer field
// name, so Port resolves as REVLENS_SERVER_PORT.
type ServerConfig struct {
	Port int `yaml:"port" envconfig:"PORT"`
}

// APIConfig holds reporting endpoint settings.
type APIConfig struct {
	BaseURL string        `yaml:"base_url" envconfig:"BASE_URL"`
	Timeout time.Duration `yaml:"timeout"  envconfig:"TIMEOUT"`
}

// CacheConfig holds cache store settings.
type CacheConfig struct {
	Capacity      int           `yaml:"capacity"       envconfig:"CAPACITY"`
	TTL           time.Duration `yaml:"ttl"            envconfig:"TTL"`
	SweepInterval time.Duration `yaml:"sweep_interval" envconfig:"SWEEP_INTERVAL"`
}

// RetryConfig holds retry/backoff settings for endpoint calls.
type RetryConfig struct {
	MaxRetries int           `yaml:"max_retries" envconfig:"MAX_RETRIES"`
	BaseDelay  time.Duration `yaml:"base_delay"  envconfig:"BASE_DELAY"`
	Multiplier float64       `yaml:"multiplier"`
	MaxDelay   time.Duration `yaml:"max_delay"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}
