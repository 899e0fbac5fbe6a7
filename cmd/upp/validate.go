package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hyperpolymath/union-policy-parser/pkg/cli"
	"github.com/hyperpolymath/union-policy-parser/pkg/config"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/ast"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/normalizer"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/schema"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/validator"
	"github.com/hyperpolymath/union-policy-parser/pkg/report"
)

var validateFlags struct {
	profile  string
	required []string
	strict   bool
	format   string
}

var validateCmd = &cobra.Command{
	Use:   "validate [files or directories...]",
	Short: "Validate policy documents",
	Long: `Validate each policy document in isolation: canonical structure, merge
strategy annotations, and the constraints of a named profile.

Every document is checked even when earlier ones fail, so a single run
surfaces all problems across the set.

Examples:
  # Validate one contract against the NUJ profile
  upp validate contract.yaml --profile nuj

  # Validate a directory with extra required paths
  upp validate policies/ --required clauses.kill-fee,clauses.payment-terms

  # Fail the invocation when any document is invalid
  upp validate policies/ --strict`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFlags.profile, "profile", "p", "", "validation profile: nuj, iww, ucu, or a profile file path")
	validateCmd.Flags().StringSliceVar(&validateFlags.required, "required", nil, "additional required paths (comma-separated)")
	validateCmd.Flags().BoolVar(&validateFlags.strict, "strict", false, "exit non-zero when validation fails")
	validateCmd.Flags().StringVarP(&validateFlags.format, "format", "f", "text", "output format: text, json, markdown")
}

func runValidate(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(validateFlags.format)
	if err != nil {
		return err
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	constraints, profile, err := resolveProfile(validateFlags.profile)
	if err != nil {
		return err
	}
	for _, raw := range validateFlags.required {
		canonical, err := ast.CanonicalizePath(raw)
		if err != nil {
			return fmt.Errorf("invalid required path %q: %w", raw, err)
		}
		constraints.Required = append(constraints.Required, canonical)
	}

	raws, sources, err := collectDocuments(args)
	if err != nil {
		return err
	}

	resolver := newResolver(cfg, logger, constraints)
	ctx := cli.SignalContext()

	var diags []validator.Diagnostic
	if format == report.FormatText && len(raws) > 1 {
		progress := cli.NewProgress(nil, "validating", len(raws))
		for _, raw := range raws {
			diags = append(diags, resolver.ValidateDocuments(ctx, []normalizer.RawDocument{raw})...)
			progress.Step()
		}
		progress.Done()
	} else {
		diags = resolver.ValidateDocuments(ctx, raws)
	}
	if profile != nil {
		diags = append(diags, inspectDocuments(ctx, cfg, logger, profile, raws)...)
	}

	rep := &report.Report{
		Profile:     validateFlags.profile,
		Sources:     sources,
		Valid:       !validator.HasErrors(diags),
		Diagnostics: diags,
	}

	if err := report.NewRenderer(format).Render(os.Stdout, rep); err != nil {
		return cli.NewCommandError("validate", err)
	}

	if validateFlags.strict && !rep.Valid {
		return cli.NewExitError(1, fmt.Sprintf("validation failed: %d errors in %s",
			rep.ErrorCount(), strings.Join(sources, ", ")))
	}
	return nil
}

// inspectDocuments runs the profile's value rules and red-flag scan against
// each document's standalone effective form. Documents that cannot resolve
// are skipped; the structural pass already reported them.
func inspectDocuments(ctx context.Context, cfg *config.Config, logger *slog.Logger, profile *schema.Profile, raws []normalizer.RawDocument) []validator.Diagnostic {
	resolver := newResolver(cfg, logger, validator.Constraints{})

	var diags []validator.Diagnostic
	for _, raw := range raws {
		res, err := resolver.MergeSiblings(ctx, []normalizer.RawDocument{raw})
		if err != nil || res.Effective == nil {
			continue
		}
		diags = append(diags, profile.Inspect(res.Effective)...)
	}
	return diags
}
