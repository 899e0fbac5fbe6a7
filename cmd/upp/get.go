package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hyperpolymath/union-policy-parser/pkg/cli"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/ast"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/validator"
)

var getFlags struct {
	target string
	format string
	source bool
}

var getCmd = &cobra.Command{
	Use:   "get [files or directories...] PATH",
	Short: "Read one value from the effective policy",
	Long: `Resolve the document set and print the value at a canonical path.

Exits non-zero when the path is absent from the effective policy.

Examples:
  # Read a clause from a resolved target
  upp get policies/ clauses.kill-fee --target newsroom

  # Show which document the value came from
  upp get contract.yaml clauses.payment-terms.net-days --source`,
	Args: cobra.MinimumNArgs(2),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringVarP(&getFlags.target, "target", "t", "", "target source id to resolve")
	getCmd.Flags().StringVarP(&getFlags.format, "format", "f", "text", "output format: text, json")
	getCmd.Flags().BoolVar(&getFlags.source, "source", false, "include the winning source id")
}

func runGet(cmd *cobra.Command, args []string) error {
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

	res, err := resolveSet(ctx, resolver, raws, getFlags.target)
	if err != nil {
		return cli.NewCommandError("get", err)
	}

	value, sourceID, ok := res.Effective.Lookup(path)
	if !ok {
		return cli.NewExitError(1, fmt.Sprintf("path %q not found in effective policy", path))
	}

	if getFlags.format == "json" {
		payload := map[string]interface{}{"path": path, "value": value}
		if getFlags.source {
			payload["source"] = sourceID
		}
		return cli.WriteJSON(os.Stdout, payload)
	}

	if getFlags.source {
		fmt.Printf("%s  [%s]\n", ast.FormatValue(value), sourceID)
	} else {
		fmt.Println(ast.FormatValue(value))
	}
	return nil
}
