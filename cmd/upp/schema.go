package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperpolymath/union-policy-parser/pkg/policy/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Inspect validation profiles",
	Long:  `List and inspect the built-in validation profiles, or check a custom profile file.`,
}

var schemaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in profiles",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range schema.Names() {
			profile, err := schema.Builtin(name)
			if err != nil {
				continue
			}
			fmt.Printf("%-6s %s\n", name, profile.Description)
		}
	},
}

var schemaShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Show a profile's requirements",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := schema.Resolve(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Profile: %s\n", profile.Name)
		if profile.Description != "" {
			fmt.Printf("Description: %s\n", profile.Description)
		}
		if len(profile.Required) > 0 {
			fmt.Printf("\nRequired paths (%d):\n", len(profile.Required))
			for _, p := range profile.Required {
				fmt.Printf("  %s\n", p)
			}
		}
		if len(profile.Recommended) > 0 {
			fmt.Printf("\nRecommended paths (%d):\n", len(profile.Recommended))
			for _, p := range profile.Recommended {
				fmt.Printf("  %s\n", p)
			}
		}
		if len(profile.RedFlags) > 0 {
			fmt.Printf("\nRed-flag terms (%d):\n", len(profile.RedFlags))
			for _, flag := range profile.RedFlags {
				fmt.Printf("  %q\n", flag)
			}
		}
		return nil
	},
}

var schemaCheckCmd = &cobra.Command{
	Use:   "check FILE",
	Short: "Check a custom profile file",
	Long: `Parse a custom profile file and report whether its paths and value kinds
are well formed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := schema.Load(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Profile %q is valid\n", profile.Name)
		fmt.Printf("  Required paths: %d\n", len(profile.Required))
		fmt.Printf("  Recommended paths: %d\n", len(profile.Recommended))
		fmt.Printf("  Typed paths: %d\n", len(profile.Types))
		fmt.Printf("  Red-flag terms: %d\n", len(profile.RedFlags))

		if len(profile.Required) == 0 {
			fmt.Println("warning: profile requires no paths")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.AddCommand(schemaListCmd)
	schemaCmd.AddCommand(schemaShowCmd)
	schemaCmd.AddCommand(schemaCheckCmd)
}
