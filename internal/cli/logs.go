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
	logsPath       string
	logsDB         string
	logsSince      time.Duration
	logsLines      int
	logsViolations bool
	logsFormat     string
)

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.Flags().StringVar(&logsPath, "log", "", "Path to JSONL decision log (default ~/.axiomguard/audit.jsonl)")
	logsCmd.Flags().StringVar(&logsDB, "db", "", "Read from a SQLite audit store instead of the JSONL log")
	logsCmd.Flags().DurationVar(&logsSince, "since", 0, "Only entries newer than this age (e.g. 24h)")
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 20, "Number of recent entries to show (0 for all)")
	logsCmd.Flags().BoolVar(&logsViolations, "violations", false, "Show violation entries only")
	logsCmd.Flags().StringVarP(&logsFormat, "format", "f", "text", "Output format (text|json)")
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show recorded enforcement decisions",
	Long: "Reads the decision log (JSONL file or SQLite store) and prints recent\n" +
		"enforcement decisions, newest last.",
	RunE: runLogs,
}

func runLogs(cmd *cobra.Command, args []string) error {
	entries, err := readEntries(logsPath, logsDB, logsSince)
	if err != nil {
		return err
	}

	if logsViolations {
		filtered := entries[:0]
		for _, e := range entries {
			if e.Type.IsViolation() {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}
	if logsLines > 0 && len(entries) > logsLines {
		entries = entries[len(entries)-logsLines:]
	}

	if logsFormat == "json" {
		out, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	if len(entries) == 0 {
		fmt.Println("No entries.")
		return nil
	}
	for _, e := range entries {
		fmt.Print(formatLogLine(e))
	}
	return nil
}

// readEntries loads decisions from the configured source. Shared with
// the stats command.
func readEntries(logPath, dbPath string, since time.Duration) ([]model.LogEntry, error) {
	var cutoff time.Time
	if since > 0 {
		cutoff = time.Now().Add(-since)
	}

	if dbPath != "" {
		store, err := audit.OpenStore(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open audit store: %w", err)
		}
		defer func() { _ = store.Close() }()
		return store.Query(cutoff)
	}

	if logPath == "" {
		logPath = defaultAuditLogPath()
	}
	return audit.ReadSince(logPath, cutoff)
}

func formatLogLine(e model.LogEntry) string {
	ts := e.At.UTC().Format(audit.TimestampFormat)
	target := string(e.Capability)
	role := string(e.Role)
	if e.Context != "" {
		target = string(e.Context)
		role = string(e.ViewRole)
	}
	line := fmt.Sprintf("%s  %-20s %-40s %s (%s)", ts[11:19], e.Type, target, e.Component, role)
	if e.Detail != "" {
		line += ": " + e.Detail
	}
	return line + "\n"
}
