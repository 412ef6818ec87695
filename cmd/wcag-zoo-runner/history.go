package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/digehode/wcag-zoo-runner/internal/config"
	"github.com/digehode/wcag-zoo-runner/internal/database"
	"github.com/digehode/wcag-zoo-runner/internal/model"
)

// noFindingsMessage is shown for stored runs without any findings.
const noFindingsMessage = "No findings"

// NewHistoryCmd creates the history command.
// This command reads the run history the run command stores in the database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [target]",
		Short: "List stored audit runs and compare the most recent two",
		Long: `History lists the audit runs stored for a target base URL.

Every completed audit is stored (unless run with --no-db) in an SQLite
database under the XDG data directory. Without a target, history lists
the targets that have stored runs. With --compare, the two most recent
runs for the target are diffed: failures present now but not before are
new, failures present before but not now are resolved. Findings are
matched by page URL, guideline, technique and xpath, so a reworded
message does not count as a change.

Examples:
  # List every target with stored runs
  wcag-zoo-runner history

  # List the runs for a target
  wcag-zoo-runner history http://127.0.0.1:8799

  # Diff the two most recent runs
  wcag-zoo-runner history --compare http://127.0.0.1:8799`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().Bool("compare", false,
		"Compare the two most recent runs for the target")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	compare, err := cmd.Flags().GetBool("compare")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database
	if compare && len(args) == 0 {
		return errors.New("a target is required with --compare (run 'wcag-zoo-runner history' to see stored targets)")
	}

	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if len(args) == 0 {
		return listTargets(ctx, db)
	}

	target := args[0]
	if compare {
		return compareRuns(ctx, db, target)
	}
	return listRuns(ctx, db, target)
}

// listTargets lists every target that has stored runs in the database.
func listTargets(ctx context.Context, db *database.AuditDB) error {
	targets, err := db.ListTargets(ctx)
	if err != nil {
		return fmt.Errorf("failed to list targets: %w", err)
	}

	if len(targets) == 0 {
		fmt.Println("No stored audit runs found.")
		fmt.Println("\nUse 'wcag-zoo-runner run' to audit a project.")
		return nil
	}

	fmt.Printf("Audited targets (%d):\n\n", len(targets))
	for _, target := range targets {
		fmt.Printf("  • %s\n", target)
	}
	fmt.Println("\nUse 'wcag-zoo-runner history <target>' to see the runs for a target.")

	return nil
}

// listRuns lists the stored runs for one target, most recent first.
func listRuns(ctx context.Context, db *database.AuditDB, target string) error {
	runs, err := db.ListRuns(ctx, target)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Printf("No stored runs found for %s\n", target)
		fmt.Println("\nUse 'wcag-zoo-runner run' to audit this target.")
		return nil
	}

	fmt.Printf("Audit history for %s (%d runs):\n\n", target, len(runs))
	fmt.Printf("  %-6s  %-20s  %-6s  %-6s  %s\n", "ID", "Date", "Level", "Pages", "Findings")
	fmt.Println("  " + strings.Repeat("-", 64))

	for _, run := range runs {
		fmt.Printf("  %-6d  %-20s  %-6s  %-6d  %s\n",
			run.ID,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.Level,
			run.Pages,
			formatTotals(run.Totals),
		)
	}

	fmt.Println("\nUse 'wcag-zoo-runner history --compare <target>' to diff the two most recent runs.")

	return nil
}

// formatTotals formats the per-category totals into a compact string.
func formatTotals(totals map[string]int) string {
	if totals == nil {
		return "N/A"
	}

	var parts []string
	if v := totals[model.CategoryFailures]; v > 0 {
		parts = append(parts, fmt.Sprintf("F:%d", v))
	}
	if v := totals[model.CategoryWarnings]; v > 0 {
		parts = append(parts, fmt.Sprintf("W:%d", v))
	}
	if v := totals[model.CategorySkipped]; v > 0 {
		parts = append(parts, fmt.Sprintf("S:%d", v))
	}
	if v := totals[model.CategorySuccess]; v > 0 {
		parts = append(parts, fmt.Sprintf("OK:%d", v))
	}

	if len(parts) == 0 {
		return noFindingsMessage
	}
	return strings.Join(parts, " ")
}

// compareRuns diffs the failures of the two most recent runs for the target.
func compareRuns(ctx context.Context, db *database.AuditDB, target string) error {
	comparison, err := db.CompareLatest(ctx, target)
	if err != nil {
		if errors.Is(err, database.ErrNotEnoughRuns) {
			return fmt.Errorf("at least 2 stored runs are required for comparison: %w", err)
		}
		return fmt.Errorf("failed to compare runs: %w", err)
	}

	fmt.Printf("Audit Comparison: %s\n", target)
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\nStatus: %s\n", formatDirection(len(comparison.New), len(comparison.Resolved)))

	fmt.Printf("\nPrevious run: %s (id %d, %d failures)\n",
		comparison.Previous.StartedAt.Format("2006-01-02 15:04:05"),
		comparison.Previous.ID,
		comparison.Previous.Totals[model.CategoryFailures])
	fmt.Printf("Latest run:   %s (id %d, %d failures)\n",
		comparison.Latest.StartedAt.Format("2006-01-02 15:04:05"),
		comparison.Latest.ID,
		comparison.Latest.Totals[model.CategoryFailures])

	if len(comparison.New) > 0 {
		fmt.Printf("\nNew Failures (%d):\n", len(comparison.New))
		for _, finding := range comparison.New {
			printStoredFinding("+", finding)
		}
	}

	if len(comparison.Resolved) > 0 {
		fmt.Printf("\nResolved Failures (%d):\n", len(comparison.Resolved))
		for _, finding := range comparison.Resolved {
			printStoredFinding("-", finding)
		}
	}

	if len(comparison.New) == 0 && len(comparison.Resolved) == 0 {
		fmt.Println("\nNo changes between the two runs.")
	}

	return nil
}

// printStoredFinding prints one stored failure with its sign marker.
func printStoredFinding(sign string, finding database.StoredFinding) {
	fmt.Printf("  [%s] [%s] %s: %s\n", sign, finding.Technique, finding.Guideline, finding.URL)
	if finding.XPath != "" {
		fmt.Printf("      xpath: %s\n", finding.XPath)
	}
}

// formatDirection summarizes the change between the two runs.
func formatDirection(newCount, resolvedCount int) string {
	switch {
	case newCount == 0 && resolvedCount == 0:
		return "UNCHANGED"
	case newCount == 0:
		return fmt.Sprintf("IMPROVED (%d resolved)", resolvedCount)
	case resolvedCount == 0:
		return fmt.Sprintf("WORSENED (%d new)", newCount)
	default:
		return fmt.Sprintf("CHANGED (%d new, %d resolved)", newCount, resolvedCount)
	}
}
