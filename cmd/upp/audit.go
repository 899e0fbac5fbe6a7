package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyperpolymath/union-policy-parser/pkg/audit"
	"github.com/hyperpolymath/union-policy-parser/pkg/audit/retention"
	"github.com/hyperpolymath/union-policy-parser/pkg/cli"
)

var auditFlags struct {
	target    string
	state     string
	timeRange string
	limit     int
	format    string
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Query and prune the audit store",
	Long: `Inspect audit records of past resolution runs and enforce the configured
retention policy. Records carry the full conflict trail of every merge.`,
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List audit records",
	Long: `List audit records, newest first.

Examples:
  # Recent runs for one target
  upp audit list --target newsroom --limit 10

  # Failed runs in a time window
  upp audit list --state failed --time-range "2026-08-01T00:00:00Z/2026-08-30T00:00:00Z"`,
	RunE: runAuditList,
}

var auditPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Prune audit records past the retention period",
	RunE:  runAuditPrune,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditListCmd)
	auditCmd.AddCommand(auditPruneCmd)

	auditListCmd.Flags().StringVarP(&auditFlags.target, "target", "t", "", "filter by target")
	auditListCmd.Flags().StringVar(&auditFlags.state, "state", "", "filter by terminal state")
	auditListCmd.Flags().StringVar(&auditFlags.timeRange, "time-range", "", "RFC3339 interval (start/end)")
	auditListCmd.Flags().IntVar(&auditFlags.limit, "limit", 50, "maximum records to list")
	auditListCmd.Flags().StringVarP(&auditFlags.format, "format", "f", "text", "output format: text, json")
}

func runAuditList(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openAuditStorage(cfg)
	if err != nil {
		return cli.NewCommandError("audit list", err)
	}
	defer store.Close()

	query := &audit.Query{
		Target: auditFlags.target,
		State:  auditFlags.state,
		Limit:  auditFlags.limit,
	}
	if auditFlags.timeRange != "" {
		parts := strings.Split(auditFlags.timeRange, "/")
		if len(parts) != 2 {
			return fmt.Errorf("invalid time range format (expected: start/end)")
		}
		start, err := time.Parse(time.RFC3339, parts[0])
		if err != nil {
			return fmt.Errorf("invalid start time: %w", err)
		}
		end, err := time.Parse(time.RFC3339, parts[1])
		if err != nil {
			return fmt.Errorf("invalid end time: %w", err)
		}
		query.StartTime = &start
		query.EndTime = &end
	}

	ctx := cli.SignalContext()
	records, err := store.Query(ctx, query)
	if err != nil {
		return cli.NewCommandError("audit list", err)
	}

	if auditFlags.format == "json" {
		return cli.WriteJSON(os.Stdout, records)
	}

	if len(records) == 0 {
		fmt.Println("No audit records found.")
		return nil
	}

	for _, rec := range records {
		target := rec.Target
		if target == "" {
			target = "-"
		}
		fmt.Printf("%s  %s  target=%s state=%s conflicts=%d errors=%d warnings=%d (%s)\n",
			rec.RecordedTime.Format(time.RFC3339), rec.RequestID,
			target, rec.State, len(rec.Conflicts),
			rec.ErrorCount, rec.WarningCount, rec.Duration)
	}
	return nil
}

func runAuditPrune(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openAuditStorage(cfg)
	if err != nil {
		return cli.NewCommandError("audit prune", err)
	}
	defer store.Close()

	retentionConfig := retention.DefaultConfig()
	retentionConfig.RetentionDays = int(cfg.Audit.Retention.Hours() / 24)
	retentionConfig.PruneSchedule = "" // one-shot run

	pruner := retention.NewPruner(store, retentionConfig)

	ctx := cli.SignalContext()
	deleted, err := pruner.Prune(ctx)
	if err != nil {
		return cli.NewCommandError("audit prune", err)
	}

	fmt.Printf("Pruned %d audit records (retention: %d days)\n", deleted, retentionConfig.RetentionDays)
	return nil
}
