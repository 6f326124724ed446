package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/axiomframework/axiomguard/internal/catalog"
	"github.com/axiomframework/axiomguard/internal/migrate"
	"github.com/axiomframework/axiomguard/internal/model"
)

var (
	migratePlanFormat  string
	migrateRunFormat   string
	migrateRunParallel int
	migrateSingleTo    string
)

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migratePlanCmd)
	migrateCmd.AddCommand(migrateRunCmd)
	migrateCmd.AddCommand(migrateSingleCmd)
	migratePlanCmd.Flags().StringVarP(&migratePlanFormat, "format", "f", "text", "Output format (text|json)")
	migrateRunCmd.Flags().StringVarP(&migrateRunFormat, "format", "f", "text", "Output format (text|json)")
	migrateRunCmd.Flags().IntVar(&migrateRunParallel, "parallelism", 0, "Concurrent migration items (default 4)")
	migrateSingleCmd.Flags().StringVar(&migrateSingleTo, "to", "", "Target category (local|external_service) (required)")
	migrateSingleCmd.MarkFlagRequired("to")
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Plan and execute capability reclassifications",
	Long: "Commands for working with the pending migration backlog. Execution is\n" +
		"simulated against the live registry; item failures never abort a batch.",
}

var migratePlanCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the migration plan derived from the pending backlog",
	RunE:  runMigratePlan,
}

var migrateRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the full migration backlog",
	Long: "Builds a plan from the pending backlog and runs every item with bounded\n" +
		"parallelism. Exits 1 if any item fails.",
	RunE: runMigrateRun,
}

var migrateSingleCmd = &cobra.Command{
	Use:   "single <capability>",
	Short: "Migrate one capability to a target category",
	Args:  cobra.ExactArgs(1),
	RunE:  runMigrateSingle,
}

func runMigratePlan(cmd *cobra.Command, args []string) error {
	planner := migrate.NewPlanner(catalog.New(), migrate.WithLogger(logger))
	plan := planner.CreatePlan()

	switch migratePlanFormat {
	case "json":
		out, err := migrate.FormatPlanJSON(plan)
		if err != nil {
			return err
		}
		fmt.Println(out)
	default:
		fmt.Print(migrate.FormatPlanText(plan))
	}
	return nil
}

func runMigrateRun(cmd *cobra.Command, args []string) error {
	opts := []migrate.Option{migrate.WithLogger(logger)}
	if migrateRunParallel > 0 {
		opts = append(opts, migrate.WithParallelism(migrateRunParallel))
	}
	planner := migrate.NewPlanner(catalog.New(), opts...)

	result := planner.ExecutePlan(context.Background(), planner.CreatePlan())

	switch migrateRunFormat {
	case "json":
		out, err := migrate.FormatResultJSON(result)
		if err != nil {
			return err
		}
		fmt.Println(out)
	default:
		fmt.Print(migrate.FormatResultText(result))
	}

	if !result.Successful {
		os.Exit(1)
	}
	return nil
}

func runMigrateSingle(cmd *cobra.Command, args []string) error {
	target := model.Category(migrateSingleTo)
	if target != model.Local && target != model.ExternalService {
		return fmt.Errorf("unknown category %q (want local or external_service)", migrateSingleTo)
	}

	planner := migrate.NewPlanner(catalog.New(), migrate.WithLogger(logger))
	item := planner.MigrateSingle(context.Background(), model.CapabilityID(args[0]), target)
	if item.OK() {
		fmt.Printf("OK: %s migrated to %s\n", item.Capability, item.Target)
		return nil
	}
	fmt.Fprintf(os.Stderr, "FAILED at %s: %s\n", item.Failure.Phase, item.Failure.Reason)
	os.Exit(1)
	return nil
}
