package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/axiomframework/axiomguard/internal/catalog"
	"github.com/axiomframework/axiomguard/internal/model"
)

var (
	catalogCategory   string
	catalogDomain     string
	catalogMigrations bool
	catalogFormat     string
)

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().StringVar(&catalogCategory, "category", "", "Filter by category (local|external_service)")
	catalogCmd.Flags().StringVar(&catalogDomain, "domain", "", "Filter by domain (ui|intelligence|system|storage|data|network|cloud|spatial)")
	catalogCmd.Flags().BoolVar(&catalogMigrations, "migrations", false, "Show the pending migration backlog instead")
	catalogCmd.Flags().StringVarP(&catalogFormat, "format", "f", "text", "Output format (text|json)")
}

var catalogCmd = &cobra.Command{
	Use:   "catalog [capability]",
	Short: "List the capability classification table",
	Long: "Prints classified capabilities with category and domain. With an\n" +
		"argument, shows just that capability; unknown capabilities exit 1.",
	Args: cobra.MaximumNArgs(1),
	RunE: runCatalog,
}

func runCatalog(cmd *cobra.Command, args []string) error {
	reg := catalog.New()

	if catalogMigrations {
		return printBacklog(reg)
	}
	if len(args) == 1 {
		return printCapability(reg, model.CapabilityID(args[0]))
	}
	return printTable(reg)
}

func printBacklog(reg *catalog.Registry) error {
	pending := reg.PendingMigrations()

	if catalogFormat == "json" {
		out, err := json.MarshalIndent(pending, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	if len(pending) == 0 {
		fmt.Println("No pending migrations.")
		return nil
	}
	for _, m := range pending {
		line := fmt.Sprintf("%-40s %-16s -> %-16s", m.Capability, m.From, m.To)
		if m.Reason != "" {
			line += "  " + m.Reason
		}
		fmt.Println(strings.TrimRight(line, " "))
	}
	fmt.Printf("\n%d pending migrations.\n", len(pending))
	return nil
}

func printCapability(reg *catalog.Registry, id model.CapabilityID) error {
	if !reg.Contains(id) {
		return fmt.Errorf("%s is not classified", id)
	}
	domain, _ := reg.Domain(id)
	d := catalog.Descriptor{ID: id, Category: reg.Category(id), Domain: domain}

	if catalogFormat == "json" {
		out, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("%-44s %-18s %s\n", d.ID, d.Category, d.Domain)
	for _, m := range reg.PendingMigrations() {
		if m.Capability == id {
			fmt.Printf("\npending migration to %s: %s\n", m.To, m.Reason)
		}
	}
	return nil
}

func printTable(reg *catalog.Registry) error {
	if catalogCategory != "" {
		c := model.Category(catalogCategory)
		if c != model.Local && c != model.ExternalService {
			return fmt.Errorf("unknown category %q (want local or external_service)", catalogCategory)
		}
	}
	if catalogDomain != "" {
		known := false
		for _, d := range model.Domains {
			if model.Domain(catalogDomain) == d {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unknown domain %q", catalogDomain)
		}
	}

	var listed []catalog.Descriptor
	for _, d := range reg.Descriptors() {
		if catalogCategory != "" && d.Category != model.Category(catalogCategory) {
			continue
		}
		if catalogDomain != "" && d.Domain != model.Domain(catalogDomain) {
			continue
		}
		listed = append(listed, d)
	}

	if catalogFormat == "json" {
		out, err := json.MarshalIndent(listed, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	local, external := 0, 0
	for _, d := range listed {
		fmt.Printf("%-44s %-18s %s\n", d.ID, d.Category, d.Domain)
		if d.Category == model.Local {
			local++
		} else {
			external++
		}
	}
	fmt.Printf("\n%d capabilities: %d local, %d external_service.\n", len(listed), local, external)
	return nil
}
