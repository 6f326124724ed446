package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/axiomframework/axiomguard/internal/enforce"
	"github.com/axiomframework/axiomguard/internal/integrity"
)

var (
	cfgPath string
	verbose bool
	logger  *zap.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to config YAML (default ~/.axiomguard/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

var rootCmd = &cobra.Command{
	Use:   "axiomguard",
	Short: "Capability access control for composable app architectures",
	Long: "Classifies capabilities as local or external-service and enforces which\n" +
		"component roles may use them. Violations are recorded, alerted and always\n" +
		"surfaced to the caller.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := integrity.Verify(); err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
			os.Exit(78) // EX_CONFIG
		}
		if err := integrity.CheckFileMode(configPath()); err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
			os.Exit(78) // EX_CONFIG
		}

		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// configPath resolves the --config flag, falling back to the default
// location.
func configPath() string {
	if cfgPath != "" {
		return cfgPath
	}
	return enforce.DefaultConfigPath()
}

// defaultAuditLogPath returns ~/.axiomguard/audit.jsonl, or "" when the
// home directory cannot be resolved.
func defaultAuditLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".axiomguard", "audit.jsonl")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
