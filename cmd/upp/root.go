package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/hyperpolymath/union-policy-parser/pkg/audit"
	auditstorage "github.com/hyperpolymath/union-policy-parser/pkg/audit/storage"
	"github.com/hyperpolymath/union-policy-parser/pkg/cli"
	"github.com/hyperpolymath/union-policy-parser/pkg/config"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/normalizer"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/parser"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/schema"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/validator"
	"github.com/hyperpolymath/union-policy-parser/pkg/telemetry/logging"
	"github.com/hyperpolymath/union-policy-parser/pkg/telemetry/metrics"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "upp",
	Short: "Union Policy Parser - layered policy resolution",
	Long: `Union Policy Parser resolves layered policy documents into a single
effective policy.

Documents declare merge strategies per field (override, union, intersection,
priority), inherit from parent documents, and carry explicit priorities. The
resolver merges them deterministically, records every conflict decision, and
validates the result against union profiles (NUJ, IWW, UCU) or custom
schemas.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the configuration file, falling back to defaults when no
// file is supplied. The verbose flag overrides the configured log level.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, cli.NewConfigError("", err)
	}

	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.New(cfg.Logging, nil)
	if err != nil {
		return nil, nil, cli.NewConfigError("logging", err)
	}
	return cfg, logger, nil
}

// newResolver builds a resolver from the configuration, registering metrics
// when they are enabled.
func newResolver(cfg *config.Config, logger *slog.Logger, constraints validator.Constraints) *policy.Resolver {
	var resolutionMetrics *metrics.ResolutionMetrics
	if cfg.Metrics.Enabled {
		resolutionMetrics = metrics.NewResolutionMetrics(cfg.Metrics, prometheus.NewRegistry())
	}

	return policy.NewResolver(policy.Options{
		MaxDepth:             cfg.Engine.MaxDepth,
		DefaultStrategy:      cfg.DefaultStrategy(),
		IntersectionFallback: cfg.Engine.IntersectionFallback,
		Parallel:             cfg.Engine.Parallel,
		Constraints:          constraints,
		Logger:               logger,
		Metrics:              resolutionMetrics,
	})
}

// openAuditStorage opens the configured audit backend.
func openAuditStorage(cfg *config.Config) (audit.Storage, error) {
	switch cfg.Audit.Backend {
	case "sqlite":
		sqliteConfig := auditstorage.DefaultSQLiteConfig()
		sqliteConfig.Path = cfg.Audit.SQLitePath
		return auditstorage.NewSQLiteStorage(sqliteConfig)
	default:
		return auditstorage.NewMemoryStorage(), nil
	}
}

// collectDocuments parses the given files and directories in argument order.
// Directories contribute their policy files in sorted file-name order.
func collectDocuments(args []string) ([]normalizer.RawDocument, []string, error) {
	p := parser.NewParser()
	var raws []normalizer.RawDocument
	var sources []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot read %s: %w", arg, err)
		}
		if info.IsDir() {
			dirRaws, err := p.ParseDir(arg)
			if err != nil {
				return nil, nil, err
			}
			raws = append(raws, dirRaws...)
		} else {
			raw, err := p.ParseFile(arg)
			if err != nil {
				return nil, nil, err
			}
			raws = append(raws, raw)
		}
		sources = append(sources, arg)
	}

	if len(raws) == 0 {
		return nil, nil, fmt.Errorf("no policy documents found in %v", args)
	}
	return raws, sources, nil
}

// resolveSet resolves a document set: through the target's inheritance chain
// when a target is named, as siblings in declaration order otherwise.
func resolveSet(ctx context.Context, resolver *policy.Resolver, raws []normalizer.RawDocument, target string) (*policy.Result, error) {
	if target != "" {
		return resolver.Resolve(ctx, raws, target)
	}
	return resolver.MergeSiblings(ctx, raws)
}

// resolveProfile returns the profile's constraints and the profile itself,
// or zero values when no profile was requested.
func resolveProfile(name string) (validator.Constraints, *schema.Profile, error) {
	if name == "" {
		return validator.Constraints{}, nil, nil
	}
	profile, err := schema.Resolve(name)
	if err != nil {
		return validator.Constraints{}, nil, err
	}
	return profile.Constraints(), profile, nil
}
