package app

import (
	"errors"
	"fmt"
	"slices"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

var logLevels = []string{"debug", "info", "warn", "error"}

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	LogFormat string
	LogLevel  string

	Parallelism     int // 0 means one worker per CPU
	StrictNames     bool
	StopOnError     bool
	HealthcheckPort int // 0 disables the server
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		LogFormat: LogFormatText,
		LogLevel:  "info",
	}
}

// NewConfig validates cfg and returns a copy.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.LogFormat != LogFormatText && cfg.LogFormat != LogFormatJSON {
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	if !slices.Contains(logLevels, cfg.LogLevel) {
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}
	if cfg.Parallelism < 0 {
		return nil, errors.New("parallelism cannot be negative")
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("invalid healthcheck port %d", cfg.HealthcheckPort)
	}
	return &cfg, nil
}
