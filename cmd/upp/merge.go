package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hyperpolymath/union-policy-parser/pkg/audit"
	"github.com/hyperpolymath/union-policy-parser/pkg/cli"
	"github.com/hyperpolymath/union-policy-parser/pkg/report"
)

var mergeFlags struct {
	target  string
	profile string
	format  string
	output  string
	record  bool
	strict  bool
}

var mergeCmd = &cobra.Command{
	Use:   "merge [files or directories...]",
	Short: "Merge policy documents into an effective policy",
	Long: `Merge a policy document set into a single effective policy.

With --target, the target's inheritance chain is resolved root-first and
merged; the remaining documents only participate if the chain references
them. Without --target, all documents merge as siblings in declaration
order.

Every per-field conflict decision is reported alongside the result. With
--record, the run is also written to the audit store.

Examples:
  # Resolve a target through its inheritance chain
  upp merge policies/ --target newsroom

  # Merge standalone documents as siblings
  upp merge base.yaml team.yaml

  # Machine-readable output with audit recording
  upp merge policies/ --target newsroom --format json --record`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringVarP(&mergeFlags.target, "target", "t", "", "target source id to resolve (default: merge all as siblings)")
	mergeCmd.Flags().StringVarP(&mergeFlags.profile, "profile", "p", "", "validation profile: nuj, iww, ucu, or a profile file path")
	mergeCmd.Flags().StringVarP(&mergeFlags.format, "format", "f", "text", "output format: text, json, markdown")
	mergeCmd.Flags().StringVarP(&mergeFlags.output, "output", "o", "", "write output to file instead of stdout")
	mergeCmd.Flags().BoolVar(&mergeFlags.record, "record", false, "write an audit record for this run")
	mergeCmd.Flags().BoolVar(&mergeFlags.strict, "strict", false, "exit non-zero when the result has validation errors")
}

func runMerge(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(mergeFlags.format)
	if err != nil {
		return err
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	constraints, _, err := resolveProfile(mergeFlags.profile)
	if err != nil {
		return err
	}

	raws, sources, err := collectDocuments(args)
	if err != nil {
		return err
	}

	resolver := newResolver(cfg, logger, constraints)
	ctx := cli.SignalContext()

	res, resolveErr := resolveSet(ctx, resolver, raws, mergeFlags.target)

	if mergeFlags.record {
		store, storeErr := openAuditStorage(cfg)
		if storeErr != nil {
			return cli.NewCommandError("merge", storeErr)
		}
		defer store.Close()
		if err := store.Store(ctx, audit.NewRecord(res, sources, resolveErr)); err != nil {
			return cli.NewCommandError("merge", err)
		}
	}

	rep := report.FromResult(res, sources, mergeFlags.profile, resolveErr)

	out := os.Stdout
	if mergeFlags.output != "" {
		f, err := os.Create(mergeFlags.output)
		if err != nil {
			return cli.NewCommandError("merge", err)
		}
		defer f.Close()
		out = f
	}

	if err := report.NewRenderer(format).Render(out, rep); err != nil {
		return cli.NewCommandError("merge", err)
	}

	if resolveErr != nil {
		return cli.NewExitError(1, fmt.Sprintf("resolution failed: %v", resolveErr))
	}
	if mergeFlags.strict && !rep.Valid {
		return cli.NewExitError(1, fmt.Sprintf("effective policy has %d validation errors", rep.ErrorCount()))
	}
	return nil
}
