package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/axiomframework/axiomguard/internal/catalog"
	"github.com/axiomframework/axiomguard/internal/model"
	"github.com/axiomframework/axiomguard/internal/sim"
)

var (
	simLog        string
	simCapability string
	simTo         string
	simFormat     string
)

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().StringVar(&simLog, "log", "", "Path to JSONL decision log (default ~/.axiomguard/audit.jsonl)")
	simulateCmd.Flags().StringVar(&simCapability, "capability", "", "Capability to reclassify (required)")
	simulateCmd.Flags().StringVar(&simTo, "to", "", "Target category (local|external_service) (required)")
	simulateCmd.Flags().StringVarP(&simFormat, "format", "f", "text", "Output format (text|json)")
	simulateCmd.MarkFlagRequired("capability")
	simulateCmd.MarkFlagRequired("to")
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Replay the decision log against a reclassification and show diffs",
	Long: "Reads recorded accesses, re-validates each against a registry with the\n" +
		"capability moved to the target category, and shows which outcomes change.\n\n" +
		"Use this to preview a migration before executing it.",
	RunE: runSimulate,
}

func runSimulate(cmd *cobra.Command, args []string) error {
	target := model.Category(simTo)
	if target != model.Local && target != model.ExternalService {
		return fmt.Errorf("unknown category %q (want local or external_service)", simTo)
	}

	path := simLog
	if path == "" {
		path = defaultAuditLogPath()
	}

	result, err := sim.Replay(path, catalog.New(), map[model.CapabilityID]model.Category{
		model.CapabilityID(simCapability): target,
	})
	if err != nil {
		return err
	}

	switch simFormat {
	case "json":
		out, err := sim.FormatJSON(result)
		if err != nil {
			return err
		}
		fmt.Println(out)
	default:
		fmt.Print(sim.FormatText(result))
	}

	return nil
}
