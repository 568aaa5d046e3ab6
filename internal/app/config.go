package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	RoutePath  string // hcl route file
	StagesPath string // directory of hcl stage manifests

	MaxLength   int // default chain length bound for routes that omit max_length
	LogFormat   string
	LogLevel    string
	MetricsPort int
	WorkerCount int
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.RoutePath == "" {
		return nil, errors.New("RoutePath is a required configuration field and cannot be empty")
	}
	if cfg.MaxLength < 0 {
		return nil, errors.New("MaxLength cannot be negative")
	}

	// Future validations for other fields can be added here.

	return &cfg, nil
}
