package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hyperpolymath/union-policy-parser/pkg/cli"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/ast"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/merge"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/validator"
	"github.com/hyperpolymath/union-policy-parser/pkg/report"
)

var diffFlags struct {
	format string
}

var diffCmd = &cobra.Command{
	Use:   "diff [files or directories...] TARGET_A TARGET_B",
	Short: "Compare the effective policies of two targets",
	Long: `Resolve two targets from the same document set and compare their
effective policies leaf by leaf.

Differences are reported as added, removed, or changed, keyed by canonical
path. A differing winning source alone is not a difference; only values
count.

Examples:
  # Compare a base document with a team override
  upp diff policies/ base newsroom

  # Machine-readable diff
  upp diff policies/ base newsroom --format json`,
	Args: cobra.MinimumNArgs(3),
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)

	diffCmd.Flags().StringVarP(&diffFlags.format, "format", "f", "text", "output format: text, json")
}

func runDiff(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(diffFlags.format)
	if err != nil {
		return err
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	targetA := args[len(args)-2]
	targetB := args[len(args)-1]
	raws, _, err := collectDocuments(args[:len(args)-2])
	if err != nil {
		return err
	}

	resolver := newResolver(cfg, logger, validator.Constraints{})
	ctx := cli.SignalContext()

	resA, err := resolver.Resolve(ctx, raws, targetA)
	if err != nil {
		return cli.NewCommandError("diff", fmt.Errorf("resolving %s: %w", targetA, err))
	}
	resB, err := resolver.Resolve(ctx, raws, targetB)
	if err != nil {
		return cli.NewCommandError("diff", fmt.Errorf("resolving %s: %w", targetB, err))
	}

	diffs := policy.Diff(resA.Effective, resB.Effective)

	if format == report.FormatJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(diffs)
	}

	if len(diffs) == 0 {
		fmt.Printf("No differences between %s and %s\n", targetA, targetB)
		return nil
	}

	fmt.Printf("Differences between %s and %s (%d):\n", targetA, targetB, len(diffs))
	for _, d := range diffs {
		switch d.Kind {
		case merge.DiffAdded:
			fmt.Printf("  + %s = %s\n", d.Path, ast.FormatValue(d.ValueB))
		case merge.DiffRemoved:
			fmt.Printf("  - %s = %s\n", d.Path, ast.FormatValue(d.ValueA))
		case merge.DiffChanged:
			fmt.Printf("  ~ %s: %s -> %s\n", d.Path, ast.FormatValue(d.ValueA), ast.FormatValue(d.ValueB))
		}
	}
	return nil
}
