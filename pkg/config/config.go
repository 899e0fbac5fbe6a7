package config

import (
	"fmt"
	"time"

	"github.com/hyperpolymath/union-policy-parser/pkg/policy/ast"
)

// Config is the root configuration for upp.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Audit   AuditConfig   `yaml:"audit"`
}

// EngineConfig controls the resolution engine.
type EngineConfig struct {
	// MaxDepth bounds inheritance chain length.
	MaxDepth int `yaml:"max_depth"`

	// DefaultStrategy is the global default merge strategy name.
	DefaultStrategy string `yaml:"default_strategy"`

	// IntersectionFallback degrades intersection disagreements to
	// priority-based merging instead of failing the field.
	IntersectionFallback bool `yaml:"intersection_fallback"`

	// Parallel merges independent top-level subtrees concurrently.
	Parallel bool `yaml:"parallel"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string `yaml:"level"`

	// Format is the output format ("json", "text").
	Format string `yaml:"format"`

	// AddSource includes file and line number in logs.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig controls prometheus metric registration.
type MetricsConfig struct {
	// Enabled registers resolution metrics.
	Enabled bool `yaml:"enabled"`

	// Namespace prefixes all metric names.
	Namespace string `yaml:"namespace"`

	// Subsystem groups metrics under the namespace.
	Subsystem string `yaml:"subsystem"`
}

// AuditConfig controls audit record storage.
type AuditConfig struct {
	// Backend selects the storage backend ("memory", "sqlite").
	Backend string `yaml:"backend"`

	// SQLitePath is the database file path for the sqlite backend.
	SQLitePath string `yaml:"sqlite_path"`

	// Retention is how long audit records are kept before pruning.
	Retention time.Duration `yaml:"retention"`

	// PruneSchedule is the cron expression driving the retention pruner.
	PruneSchedule string `yaml:"prune_schedule"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxDepth:        32,
			DefaultStrategy: "override",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Namespace: "upp",
			Subsystem: "resolution",
		},
		Audit: AuditConfig{
			Backend:       "memory",
			SQLitePath:    "data/audit.db",
			Retention:     90 * 24 * time.Hour,
			PruneSchedule: "@daily",
		},
	}
}

// Validate checks the configuration for values the runtime cannot honor.
func (c *Config) Validate() error {
	if c.Engine.MaxDepth <= 0 {
		return fmt.Errorf("engine.max_depth must be positive, got %d", c.Engine.MaxDepth)
	}

	if _, err := ast.ParseStrategy(c.Engine.DefaultStrategy); err != nil {
		return fmt.Errorf("engine.default_strategy: %w", err)
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("logging.format: unknown format %q", c.Logging.Format)
	}

	switch c.Audit.Backend {
	case "", "memory", "sqlite":
	default:
		return fmt.Errorf("audit.backend: unknown backend %q", c.Audit.Backend)
	}

	if c.Audit.Backend == "sqlite" && c.Audit.SQLitePath == "" {
		return fmt.Errorf("audit.sqlite_path is required for the sqlite backend")
	}

	if c.Audit.Retention < 0 {
		return fmt.Errorf("audit.retention must not be negative")
	}

	return nil
}

// DefaultStrategy returns the parsed engine default strategy.
func (c *Config) DefaultStrategy() ast.MergeStrategy {
	strategy, err := ast.ParseStrategy(c.Engine.DefaultStrategy)
	if err != nil {
		return ast.StrategyOverride
	}
	return strategy
}
