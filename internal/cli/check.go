package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/axiomframework/axiomguard/internal/access"
	"github.com/axiomframework/axiomguard/internal/catalog"
	"github.com/axiomframework/axiomguard/internal/model"
	"github.com/axiomframework/axiomguard/internal/scenario"
)

var (
	checkScenario  string
	checkRole      string
	checkComponent string
	checkContext   string
	checkViewRole  string
	checkDependsOn string
	checkFormat    string
)

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkScenario, "scenario", "", "Glob pattern for scenario YAML files")
	checkCmd.Flags().StringVar(&checkRole, "role", "", "Component role (context|client)")
	checkCmd.Flags().StringVar(&checkComponent, "component", "cli", "Component name for the check")
	checkCmd.Flags().StringVar(&checkContext, "context", "", "Context to observe instead of a capability access")
	checkCmd.Flags().StringVar(&checkViewRole, "view-role", "", "View role (presentation|simple_view|context_restricted)")
	checkCmd.Flags().StringVar(&checkDependsOn, "depends-on", "", "Validate the dependency edge to this capability instead of a role access")
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "text", "Output format (text|json)")
}

var checkCmd = &cobra.Command{
	Use:   "check [capability]",
	Short: "Check a single access or run scenario assertion files",
	Long: "Validates one capability access, context observation or dependency\n" +
		"edge against the classification table, or evaluates scenario YAML\n" +
		"files matching a glob pattern.\n\n" +
		"Exit code 0 if allowed / all cases pass, 1 otherwise.\n" +
		"Use in CI to gate releases on access-control correctness.",
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	if checkScenario != "" {
		return runCheckScenarios()
	}
	if checkContext != "" {
		return runCheckView()
	}
	if len(args) == 0 {
		return fmt.Errorf("needs a capability argument, --context or --scenario")
	}
	if checkDependsOn != "" {
		return runCheckDependency(args[0])
	}
	return runCheckCapability(args[0])
}

func runCheckCapability(capability string) error {
	if checkRole == "" {
		return fmt.Errorf("--role is required for a capability check")
	}

	reg := catalog.New()
	id := model.CapabilityID(capability)
	err := access.New(reg).ValidateCapabilityAccess(id, model.Role(checkRole))

	return printDecision(checkDecision{
		Target:   capability,
		Category: string(reg.Category(id)),
		Role:     checkRole,
		Allowed:  err == nil,
		Reason:   access.Reason(err),
	})
}

func runCheckView() error {
	if checkViewRole == "" {
		return fmt.Errorf("--view-role is required for a context observation check")
	}

	err := access.New(catalog.New()).ValidateViewObservation(model.ViewComponent{
		Name: checkComponent,
		Role: model.ViewRole(checkViewRole),
	}, model.ContextID(checkContext))

	return printDecision(checkDecision{
		Target:  checkContext,
		Role:    checkViewRole,
		Allowed: err == nil,
		Reason:  access.Reason(err),
	})
}

func runCheckDependency(capability string) error {
	d := dependencyDecision(catalog.New(), model.CapabilityID(capability), model.CapabilityID(checkDependsOn))
	return printDecision(d)
}

// dependencyDecision validates the dependency edge between the two
// capabilities' categories. Unclassified ends fail closed.
func dependencyDecision(reg *catalog.Registry, parent, dep model.CapabilityID) checkDecision {
	err := access.New(reg).ValidateDependency(reg.Category(parent), reg.Category(dep))
	return checkDecision{
		Target:   fmt.Sprintf("%s -> %s", parent, dep),
		Category: fmt.Sprintf("%s -> %s", reg.Category(parent), reg.Category(dep)),
		Allowed:  err == nil,
		Reason:   access.Reason(err),
	}
}

type checkDecision struct {
	Target   string `json:"target"`
	Category string `json:"category,omitempty"`
	Role     string `json:"role,omitempty"`
	Allowed  bool   `json:"allowed"`
	Reason   string `json:"reason,omitempty"`
}

func printDecision(d checkDecision) error {
	switch checkFormat {
	case "json":
		out, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	default:
		verdict := "ALLOW"
		if !d.Allowed {
			verdict = "DENY "
		}
		line := fmt.Sprintf("%s  %s", verdict, d.Target)
		if d.Category != "" {
			line += fmt.Sprintf(" (%s)", d.Category)
		}
		if d.Role != "" {
			line += " for role " + d.Role
		}
		fmt.Println(line)
		if d.Reason != "" {
			fmt.Printf("       %s\n", d.Reason)
		}
	}

	if !d.Allowed {
		os.Exit(1)
	}
	return nil
}

func runCheckScenarios() error {
	matches, err := filepath.Glob(checkScenario)
	if err != nil {
		return fmt.Errorf("invalid glob pattern: %w", err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("no scenario files match pattern: %s", checkScenario)
	}

	reg := catalog.New()
	var results []*scenario.RunResult
	for _, path := range matches {
		r, err := scenario.LoadAndRun(path, reg)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		results = append(results, r)
	}

	switch checkFormat {
	case "json":
		out, err := scenario.FormatJSON(results)
		if err != nil {
			return err
		}
		fmt.Println(out)
	default:
		fmt.Print(scenario.FormatText(results))
	}

	// Exit 1 if any scenario has failures
	for _, r := range results {
		if r.Failed > 0 {
			os.Exit(1)
		}
	}

	return nil
}
