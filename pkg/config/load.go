package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a configuration file, applies defaults for unset fields, and
// validates the result. A missing file is not an error: the defaults are
// returned so upp runs unconfigured out of the box.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %q: %w", path, err)
	}

	return cfg, nil
}

// applyDefaults fills fields the file left unset. Explicit zero values that
// are valid (e.g. metrics disabled) are left alone.
func applyDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Engine.MaxDepth == 0 {
		cfg.Engine.MaxDepth = defaults.Engine.MaxDepth
	}
	if cfg.Engine.DefaultStrategy == "" {
		cfg.Engine.DefaultStrategy = defaults.Engine.DefaultStrategy
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaults.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = defaults.Logging.Format
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = defaults.Metrics.Namespace
	}
	if cfg.Metrics.Subsystem == "" {
		cfg.Metrics.Subsystem = defaults.Metrics.Subsystem
	}
	if cfg.Audit.Backend == "" {
		cfg.Audit.Backend = defaults.Audit.Backend
	}
	if cfg.Audit.SQLitePath == "" {
		cfg.Audit.SQLitePath = defaults.Audit.SQLitePath
	}
	if cfg.Audit.Retention == 0 {
		cfg.Audit.Retention = defaults.Audit.Retention
	}
	if cfg.Audit.PruneSchedule == "" {
		cfg.Audit.PruneSchedule = defaults.Audit.PruneSchedule
	}
}
