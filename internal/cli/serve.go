package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/axiomframework/axiomguard/internal/mcp"
)

var (
	serveAuditLog string
	serveDB       string
	serveWatch    bool
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAuditLog, "audit-log", "", "Append decisions to this JSONL log")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "Record decisions to this SQLite audit store")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload configuration when the config file changes")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP tool server for agent integration",
	Long: "Runs axiomguard as an MCP (Model Context Protocol) server over stdio.\n" +
		"Exposes enforcement tools: check, view_check, stats, logs, catalog,\n" +
		"migration_plan, migrate.",
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	srv, err := mcp.New(mcp.Config{
		ConfigPath:   configPath(),
		AuditLogPath: serveAuditLog,
		AuditDBPath:  serveDB,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer func() { _ = srv.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down MCP server...")
		cancel()
	}()

	// Stdout is the protocol channel; status goes to stderr.
	fmt.Fprintln(os.Stderr, "axiomguard MCP server running on stdio")

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error { return srv.Run(egCtx) })
	if serveWatch {
		watcher := mcp.NewConfigWatcher(configPath(), srv.Reload, logger)
		eg.Go(func() error { return watcher.Run(egCtx) })
	}
	return eg.Wait()
}
