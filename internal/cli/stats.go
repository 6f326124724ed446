package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/axiomframework/axiomguard/internal/audit"
	"github.com/axiomframework/axiomguard/internal/model"
)

var (
	statsPath   string
	statsDB     string
	statsSince  time.Duration
	statsFormat string
)

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&statsPath, "log", "", "Path to JSONL decision log (default ~/.axiomguard/audit.jsonl)")
	statsCmd.Flags().StringVar(&statsDB, "db", "", "Read from a SQLite audit store instead of the JSONL log")
	statsCmd.Flags().DurationVar(&statsSince, "since", 0, "Only entries newer than this age (e.g. 24h)")
	statsCmd.Flags().StringVarP(&statsFormat, "format", "f", "text", "Output format (text|json)")
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize enforcement statistics from the decision log",
	Long: "Aggregates recorded decisions into access counts, violation rate and\n" +
		"a health verdict. Healthy means the violation rate is under 1%.",
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	var cutoff time.Time
	if statsSince > 0 {
		cutoff = time.Now().Add(-statsSince)
	}

	var (
		stats model.Statistics
		err   error
	)
	if statsDB != "" {
		var store *audit.Store
		store, err = audit.OpenStore(statsDB)
		if err != nil {
			return fmt.Errorf("open audit store: %w", err)
		}
		defer func() { _ = store.Close() }()
		stats, err = store.Stats(cutoff)
	} else {
		path := statsPath
		if path == "" {
			path = defaultAuditLogPath()
		}
		stats, err = audit.StatsFromFile(path, cutoff)
	}
	if err != nil {
		return err
	}

	if statsFormat == "json" {
		out, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("Accesses:        %d\n", stats.TotalAccesses)
	fmt.Printf("Allowed:         %d\n", stats.Allowed)
	fmt.Printf("Violations:      %d\n", stats.Violations)
	fmt.Printf("Violation rate:  %.2f%%\n", stats.ViolationRate*100)
	if !stats.LastViolation.IsZero() {
		fmt.Printf("Last violation:  %s\n", stats.LastViolation.UTC().Format(audit.TimestampFormat))
	}
	if stats.Healthy {
		fmt.Println("Health:          ok")
	} else {
		fmt.Println("Health:          degraded (violation rate at or above 1%)")
	}
	return nil
}
