package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyperpolymath/union-policy-parser/pkg/cli"
	"github.com/hyperpolymath/union-policy-parser/pkg/report"
)

var grievanceFlags struct {
	target    string
	profile   string
	violation string
	template  string
	output    string
}

var grievanceCmd = &cobra.Command{
	Use:   "grievance [files or directories...]",
	Short: "Generate a grievance letter for a policy violation",
	Long: `Resolve the document set, validate it, and render a Markdown grievance
letter citing the named violation and every diagnostic found.

A template file can replace the built-in letter layout; it is parsed as a
Go text/template over the grievance.

Examples:
  # Grievance for a kill-fee violation under the NUJ profile
  upp grievance contract.yaml --violation clauses.kill-fee --profile nuj -o letter.md

  # Custom letter template
  upp grievance contract.yaml --violation clauses.rights-grant --template letter.tmpl`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGrievance,
}

func init() {
	rootCmd.AddCommand(grievanceCmd)

	grievanceCmd.Flags().StringVarP(&grievanceFlags.target, "target", "t", "", "target source id to resolve")
	grievanceCmd.Flags().StringVarP(&grievanceFlags.profile, "profile", "p", "", "validation profile: nuj, iww, ucu, or a profile file path")
	grievanceCmd.Flags().StringVar(&grievanceFlags.violation, "violation", "", "contested clause or behavior (required)")
	grievanceCmd.Flags().StringVar(&grievanceFlags.template, "template", "", "letter template file")
	grievanceCmd.Flags().StringVarP(&grievanceFlags.output, "output", "o", "", "write the letter to a file instead of stdout")
	grievanceCmd.MarkFlagRequired("violation")
}

func runGrievance(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	constraints, profile, err := resolveProfile(grievanceFlags.profile)
	if err != nil {
		return err
	}

	raws, sources, err := collectDocuments(args)
	if err != nil {
		return err
	}

	resolver := newResolver(cfg, logger, constraints)
	ctx := cli.SignalContext()

	res, resolveErr := resolveSet(ctx, resolver, raws, grievanceFlags.target)
	rep := report.FromResult(res, sources, grievanceFlags.profile, resolveErr)
	if profile != nil && res.Effective != nil {
		rep.Diagnostics = append(rep.Diagnostics, profile.Inspect(res.Effective)...)
	}

	tmplText := ""
	if grievanceFlags.template != "" {
		data, err := os.ReadFile(grievanceFlags.template)
		if err != nil {
			return cli.NewCommandError("grievance", err)
		}
		tmplText = string(data)
	}

	out := os.Stdout
	if grievanceFlags.output != "" {
		f, err := os.Create(grievanceFlags.output)
		if err != nil {
			return cli.NewCommandError("grievance", err)
		}
		defer f.Close()
		out = f
	}

	grievance := &report.Grievance{
		Violation: grievanceFlags.violation,
		Union:     grievanceFlags.profile,
		Date:      time.Now(),
		Report:    rep,
	}
	if err := report.RenderGrievance(out, grievance, tmplText); err != nil {
		return cli.NewCommandError("grievance", err)
	}

	if grievanceFlags.output != "" {
		fmt.Printf("Grievance letter written to %s\n", grievanceFlags.output)
	}
	return nil
}
