package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Session   SessionConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000" yaml:"port"`
	Host string `envconfig:"HOST" default:"0.0.0.0" yaml:"host"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" yaml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" yaml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100" yaml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200" yaml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true" yaml:"enabled"`
}

// SessionConfig holds session persistence and recovery configuration.
type SessionConfig struct {
	// StorageDir is where the durable key-value store keeps its files.
	StorageDir string `envconfig:"SESSION_STORAGE_DIR" default:"/tmp/mr-timely-storage" yaml:"storage_dir"`
	// SaveInterval is the recovery snapshot auto-save cadence.
	SaveInterval time.Duration `envconfig:"SESSION_SAVE_INTERVAL" default:"30s" yaml:"save_interval"`
	// AutoSaveOnChange saves a snapshot immediately on meaningful change,
	// in addition to the interval saves.
	AutoSaveOnChange bool `envconfig:"SESSION_AUTOSAVE_ON_CHANGE" default:"true" yaml:"autosave_on_change"`
	// MaxRecoveryAge is the eligibility window for offering a snapshot
	// as a recoverable session.
	MaxRecoveryAge time.Duration `envconfig:"SESSION_MAX_RECOVERY_AGE" default:"4h" yaml:"max_recovery_age"`
	// PollInterval is the progress poller tick. Floored at 250ms.
	PollInterval time.Duration `envconfig:"SESSION_POLL_INTERVAL" default:"1s" yaml:"poll_interval"`
	// Compress gzips persisted documents in the file store.
	Compress bool `envconfig:"SESSION_COMPRESS" default:"false" yaml:"compress"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// LoadFile overlays a YAML file on top of an environment-loaded config.
// Fields absent from the file keep their environment or default values.
func LoadFile(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Session: SessionConfig{
			StorageDir:       "/tmp/mr-timely-storage",
			SaveInterval:     30 * time.Second,
			AutoSaveOnChange: true,
			MaxRecoveryAge:   4 * time.Hour,
			PollInterval:     time.Second,
			Compress:         false,
		},
	}
}
