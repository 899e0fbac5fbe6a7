package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hyperpolymath/union-policy-parser/pkg/audit"
	"github.com/hyperpolymath/union-policy-parser/pkg/audit/retention"
	"github.com/hyperpolymath/union-policy-parser/pkg/cli"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/watch"
	"github.com/hyperpolymath/union-policy-parser/pkg/report"
)

var watchFlags struct {
	target  string
	profile string
	format  string
}

var watchCmd = &cobra.Command{
	Use:   "watch [files or directories...]",
	Short: "Re-resolve on policy file changes",
	Long: `Watch policy files and re-resolve the set whenever they change. Change
bursts are debounced so an editor save triggers one re-resolution.

Runs until interrupted.

Examples:
  # Watch a policy directory and re-resolve a target
  upp watch policies/ --target newsroom

  # Watch with profile validation
  upp watch policies/ --target newsroom --profile nuj`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchFlags.target, "target", "t", "", "target source id to resolve")
	watchCmd.Flags().StringVarP(&watchFlags.profile, "profile", "p", "", "validation profile: nuj, iww, ucu, or a profile file path")
	watchCmd.Flags().StringVarP(&watchFlags.format, "format", "f", "text", "output format: text, json, markdown")
}

func runWatch(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(watchFlags.format)
	if err != nil {
		return err
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	constraints, _, err := resolveProfile(watchFlags.profile)
	if err != nil {
		return err
	}

	resolver := newResolver(cfg, logger, constraints)
	renderer := report.NewRenderer(format)
	ctx := cli.SignalContext()

	store, err := openAuditStorage(cfg)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer store.Close()

	// Long-running process, so retention pruning runs on its schedule here.
	retentionConfig := retention.DefaultConfig()
	retentionConfig.RetentionDays = int(cfg.Audit.Retention.Hours() / 24)
	retentionConfig.PruneSchedule = cfg.Audit.PruneSchedule
	scheduler := retention.NewScheduler(retention.NewPruner(store, retentionConfig))
	if err := scheduler.Start(ctx); err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer scheduler.Stop()

	resolveOnce := func() error {
		raws, sources, err := collectDocuments(args)
		if err != nil {
			return err
		}
		res, resolveErr := resolveSet(ctx, resolver, raws, watchFlags.target)
		if err := store.Store(ctx, audit.NewRecord(res, sources, resolveErr)); err != nil {
			logger.Warn("failed to store audit record", "error", err)
		}
		rep := report.FromResult(res, sources, watchFlags.profile, resolveErr)
		if err := renderer.Render(os.Stdout, rep); err != nil {
			return err
		}
		fmt.Println()
		return resolveErr
	}

	// First resolution before watching; a broken set still starts the
	// watcher so fixes are picked up.
	if err := resolveOnce(); err != nil {
		logger.Warn("initial resolution failed", "error", err)
	}

	watchConfig := watch.DefaultConfig()
	watchConfig.Paths = args

	watcher, err := watch.New(watchConfig, logger)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}

	return watcher.Watch(ctx, resolveOnce)
}
