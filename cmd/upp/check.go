package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hyperpolymath/union-policy-parser/pkg/cli"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/ast"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/validator"
)

var checkFlags struct {
	target   string
	expected string
	min      float64
	max      float64
	allowed  []string
	warnOnly bool
}

var checkCmd = &cobra.Command{
	Use:   "check [files or directories...] PATH",
	Short: "Check one effective policy value against a rule",
	Long: `Resolve the document set and check the value at a canonical path against
an expectation: an exact value, a numeric range, or an allowed set.

A failed check exits non-zero unless --warn is set.

Examples:
  # Payment terms must be NET 30 or better
  upp check contract.yaml clauses.payment-terms.net-days --max 30

  # Source protection must be guaranteed
  upp check contract.yaml clauses.source-protection --expected guaranteed

  # Kill fee must be one of the negotiated tiers
  upp check contract.yaml clauses.kill-fee --allowed 50%,75%,100%`,
	Args: cobra.MinimumNArgs(2),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkFlags.target, "target", "t", "", "target source id to resolve")
	checkCmd.Flags().StringVar(&checkFlags.expected, "expected", "", "expected exact value")
	checkCmd.Flags().Float64Var(&checkFlags.min, "min", 0, "minimum numeric value")
	checkCmd.Flags().Float64Var(&checkFlags.max, "max", 0, "maximum numeric value")
	checkCmd.Flags().StringSliceVar(&checkFlags.allowed, "allowed", nil, "allowed values (comma-separated)")
	checkCmd.Flags().BoolVar(&checkFlags.warnOnly, "warn", false, "warn instead of failing when the check does not hold")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	path, err := ast.CanonicalizePath(args[len(args)-1])
	if err != nil {
		return fmt.Errorf("invalid path %q: %w", args[len(args)-1], err)
	}

	raws, _, err := collectDocuments(args[:len(args)-1])
	if err != nil {
		return err
	}

	resolver := newResolver(cfg, logger, validator.Constraints{})
	ctx := cli.SignalContext()

	res, err := resolveSet(ctx, resolver, raws, checkFlags.target)
	if err != nil {
		return cli.NewCommandError("check", err)
	}

	value, sourceID, ok := res.Effective.Lookup(path)
	if !ok {
		return checkFailed(fmt.Sprintf("path %q not found in effective policy", path))
	}

	if reason := evaluateCheck(cmd, value); reason != "" {
		fmt.Printf("FAIL %s = %s  [%s]: %s\n", path, ast.FormatValue(value), sourceID, reason)
		return checkFailed(reason)
	}

	fmt.Printf("OK %s = %s  [%s]\n", path, ast.FormatValue(value), sourceID)
	return nil
}

// evaluateCheck applies whichever expectations were set; an empty return
// means the value passed.
func evaluateCheck(cmd *cobra.Command, value interface{}) string {
	text := ast.FormatValue(value)

	if checkFlags.expected != "" && !strings.EqualFold(text, checkFlags.expected) {
		return fmt.Sprintf("expected %q", checkFlags.expected)
	}

	if len(checkFlags.allowed) > 0 {
		found := false
		for _, want := range checkFlags.allowed {
			if strings.EqualFold(text, want) {
				found = true
				break
			}
		}
		if !found {
			return fmt.Sprintf("not one of %v", checkFlags.allowed)
		}
	}

	minSet := cmd.Flags().Changed("min")
	maxSet := cmd.Flags().Changed("max")
	if minSet || maxSet {
		n, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(text), "%"), 64)
		if err != nil {
			return fmt.Sprintf("not numeric: %q", text)
		}
		if minSet && n < checkFlags.min {
			return fmt.Sprintf("%v is below minimum %v", n, checkFlags.min)
		}
		if maxSet && n > checkFlags.max {
			return fmt.Sprintf("%v exceeds maximum %v", n, checkFlags.max)
		}
	}

	return ""
}

func checkFailed(reason string) error {
	if checkFlags.warnOnly {
		fmt.Printf("warning: %s\n", reason)
		return nil
	}
	return cli.NewExitError(1, "check failed: "+reason)
}
