package mcp

import (
	"context"
	"fmt"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/axiomframework/axiomguard/internal/access"
	"github.com/axiomframework/axiomguard/internal/audit"
	"github.com/axiomframework/axiomguard/internal/model"
)

// defaultLogLimit bounds axiom_logs responses when no limit is given.
const defaultLogLimit = 50

// --- Input/Output types ---

// CheckInput defines parameters for the axiom_check tool.
type CheckInput struct {
	Capability string `json:"capability" jsonschema:"capability identifier, e.g. HTTPClientCapability"`
	Component  string `json:"component" jsonschema:"requesting component name"`
	Role       string `json:"role" jsonschema:"component role (context/client)"`
}

// CheckOutput contains the enforcement decision.
type CheckOutput struct {
	Allowed  bool   `json:"allowed"`
	Category string `json:"category"`
	Reason   string `json:"reason,omitempty"`
	Policy   string `json:"policy,omitempty"`
}

// ViewCheckInput defines parameters for the axiom_view_check tool.
type ViewCheckInput struct {
	Context   string `json:"context" jsonschema:"context identifier the view wants to observe"`
	Component string `json:"component" jsonschema:"view component name"`
	Role      string `json:"role" jsonschema:"view role (presentation/simple_view/context_restricted)"`
}

// ViewCheckOutput contains the observation decision.
type ViewCheckOutput struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	Policy  string `json:"policy,omitempty"`
}

// StatsInput is empty — no parameters needed.
type StatsInput struct{}

// StatsOutput summarizes recorded enforcement decisions.
type StatsOutput struct {
	TotalAccesses int     `json:"total_accesses"`
	Allowed       int     `json:"allowed"`
	Violations    int     `json:"violations"`
	ViolationRate float64 `json:"violation_rate"`
	LastViolation string  `json:"last_violation,omitempty"`
	Healthy       bool    `json:"healthy"`
}

// LogsInput defines parameters for the axiom_logs tool.
type LogsInput struct {
	Limit          int  `json:"limit,omitempty" jsonschema:"maximum entries to return, newest last (default 50)"`
	ViolationsOnly bool `json:"violations_only,omitempty" jsonschema:"return violation entries only"`
}

// LogsOutput lists recorded enforcement decisions.
type LogsOutput struct {
	Entries []LogItem `json:"entries"`
	Total   int       `json:"total"`
}

// LogItem describes a single recorded decision.
type LogItem struct {
	Timestamp  string `json:"ts"`
	Type       string `json:"type"`
	Capability string `json:"capability,omitempty"`
	Context    string `json:"context,omitempty"`
	Component  string `json:"component"`
	Role       string `json:"role,omitempty"`
	Location   string `json:"location,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

// CatalogInput defines parameters for the axiom_catalog tool.
type CatalogInput struct {
	Category string `json:"category,omitempty" jsonschema:"filter by category (local/external_service)"`
	Domain   string `json:"domain,omitempty" jsonschema:"filter by domain (ui/intelligence/system/storage/data/network/cloud/spatial)"`
}

// CatalogOutput lists classified capabilities.
type CatalogOutput struct {
	Capabilities []CatalogItem `json:"capabilities"`
	Total        int           `json:"total"`
}

// CatalogItem describes one classified capability.
type CatalogItem struct {
	Capability string `json:"capability"`
	Category   string `json:"category"`
	Domain     string `json:"domain"`
}

// MigrationPlanInput is empty — the plan comes from the registry backlog.
type MigrationPlanInput struct{}

// MigrationPlanOutput describes a migration plan without executing it.
type MigrationPlanOutput struct {
	PlanID     string     `json:"plan_id"`
	CreatedAt  string     `json:"created_at"`
	Size       int        `json:"size"`
	ToLocal    []PlanItem `json:"to_local"`
	ToExternal []PlanItem `json:"to_external"`
}

// PlanItem describes one planned migration.
type PlanItem struct {
	Capability string `json:"capability"`
	From       string `json:"from"`
	To         string `json:"to"`
	Reason     string `json:"reason,omitempty"`
}

// MigrateInput defines parameters for the axiom_migrate tool. With a
// capability set, only that one migration runs; otherwise the whole
// backlog executes.
type MigrateInput struct {
	Capability string `json:"capability,omitempty" jsonschema:"migrate only this capability"`
	Target     string `json:"target,omitempty" jsonschema:"target category for a single migration (local/external_service)"`
}

// MigrateOutput reports batch execution results.
type MigrateOutput struct {
	PlanID      string        `json:"plan_id,omitempty"`
	Succeeded   int           `json:"succeeded"`
	Failed      int           `json:"failed"`
	SuccessRate float64       `json:"success_rate"`
	Successful  bool          `json:"successful"`
	Failures    []FailureItem `json:"failures,omitempty"`
}

// FailureItem describes one failed migration item.
type FailureItem struct {
	Capability string `json:"capability"`
	Phase      string `json:"phase"`
	Reason     string `json:"reason"`
}

// --- Handlers ---

func (s *Server) handleCheck(ctx context.Context, req *mcpsdk.CallToolRequest, input CheckInput) (*mcpsdk.CallToolResult, CheckOutput, error) {
	capability := model.CapabilityID(input.Capability)
	component := model.Component{Name: input.Component, Role: model.Role(input.Role)}

	err := s.engine.EnforceCapabilityAccess(capability, component, model.SourceLocation{})
	category := string(s.engine.Validator().Registry().Category(capability))
	if err != nil {
		out := CheckOutput{
			Category: category,
			Reason:   access.Reason(err),
			Policy:   string(s.engine.Config().Policy),
		}
		return &mcpsdk.CallToolResult{IsError: true}, out, nil
	}

	return nil, CheckOutput{Allowed: true, Category: category}, nil
}

func (s *Server) handleViewCheck(ctx context.Context, req *mcpsdk.CallToolRequest, input ViewCheckInput) (*mcpsdk.CallToolResult, ViewCheckOutput, error) {
	component := model.ViewComponent{Name: input.Component, Role: model.ViewRole(input.Role)}

	err := s.engine.EnforceViewAccess(component, model.ContextID(input.Context), model.SourceLocation{})
	if err != nil {
		out := ViewCheckOutput{
			Reason: access.Reason(err),
			Policy: string(s.engine.Config().Policy),
		}
		return &mcpsdk.CallToolResult{IsError: true}, out, nil
	}

	return nil, ViewCheckOutput{Allowed: true}, nil
}

func (s *Server) handleStats(ctx context.Context, req *mcpsdk.CallToolRequest, input StatsInput) (*mcpsdk.CallToolResult, StatsOutput, error) {
	stats := s.engine.Stats()
	out := StatsOutput{
		TotalAccesses: stats.TotalAccesses,
		Allowed:       stats.Allowed,
		Violations:    stats.Violations,
		ViolationRate: stats.ViolationRate,
		Healthy:       stats.Healthy,
	}
	if !stats.LastViolation.IsZero() {
		out.LastViolation = stats.LastViolation.UTC().Format(audit.TimestampFormat)
	}
	return nil, out, nil
}

func (s *Server) handleLogs(ctx context.Context, req *mcpsdk.CallToolRequest, input LogsInput) (*mcpsdk.CallToolResult, LogsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultLogLimit
	}

	entries := s.engine.Logs()
	if input.ViolationsOnly {
		filtered := entries[:0]
		for _, e := range entries {
			if e.Type.IsViolation() {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	out := LogsOutput{Total: len(entries)}
	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	out.Entries = make([]LogItem, len(entries))
	for i, e := range entries {
		item := LogItem{
			Timestamp:  e.At.UTC().Format(audit.TimestampFormat),
			Type:       string(e.Type),
			Capability: string(e.Capability),
			Context:    string(e.Context),
			Component:  e.Component,
			Detail:     e.Detail,
		}
		if e.Capability != "" {
			item.Role = string(e.Role)
		} else {
			item.Role = string(e.ViewRole)
		}
		if e.Location.File != "" {
			item.Location = e.Location.String()
		}
		out.Entries[i] = item
	}
	return nil, out, nil
}

func (s *Server) handleCatalog(ctx context.Context, req *mcpsdk.CallToolRequest, input CatalogInput) (*mcpsdk.CallToolResult, CatalogOutput, error) {
	if input.Category != "" {
		c := model.Category(input.Category)
		if c != model.Local && c != model.ExternalService {
			return nil, CatalogOutput{}, fmt.Errorf("unknown category %q (want local or external_service)", input.Category)
		}
	}
	if input.Domain != "" {
		known := false
		for _, d := range model.Domains {
			if model.Domain(input.Domain) == d {
				known = true
				break
			}
		}
		if !known {
			return nil, CatalogOutput{}, fmt.Errorf("unknown domain %q", input.Domain)
		}
	}

	var out CatalogOutput
	for _, d := range s.engine.Validator().Registry().Descriptors() {
		if input.Category != "" && d.Category != model.Category(input.Category) {
			continue
		}
		if input.Domain != "" && d.Domain != model.Domain(input.Domain) {
			continue
		}
		out.Capabilities = append(out.Capabilities, CatalogItem{
			Capability: string(d.ID),
			Category:   string(d.Category),
			Domain:     string(d.Domain),
		})
	}
	out.Total = len(out.Capabilities)
	return nil, out, nil
}

func (s *Server) handleMigrationPlan(ctx context.Context, req *mcpsdk.CallToolRequest, input MigrationPlanInput) (*mcpsdk.CallToolResult, MigrationPlanOutput, error) {
	plan := s.planner.CreatePlan()
	out := MigrationPlanOutput{
		PlanID:     plan.ID,
		CreatedAt:  plan.CreatedAt.Format(time.RFC3339),
		Size:       plan.Size(),
		ToLocal:    planItems(plan.ToLocal),
		ToExternal: planItems(plan.ToExternal),
	}
	return nil, out, nil
}

func (s *Server) handleMigrate(ctx context.Context, req *mcpsdk.CallToolRequest, input MigrateInput) (*mcpsdk.CallToolResult, MigrateOutput, error) {
	if input.Capability != "" {
		target := model.Category(input.Target)
		if target != model.Local && target != model.ExternalService {
			return nil, MigrateOutput{}, fmt.Errorf("single migration needs a target category (local or external_service), got %q", input.Target)
		}
		item := s.planner.MigrateSingle(ctx, model.CapabilityID(input.Capability), target)
		out := MigrateOutput{Successful: item.OK()}
		if item.OK() {
			out.Succeeded = 1
			out.SuccessRate = 1
		} else {
			out.Failed = 1
			out.Failures = []FailureItem{{
				Capability: string(item.Failure.Capability),
				Phase:      item.Failure.Phase,
				Reason:     item.Failure.Reason,
			}}
		}
		return nil, out, nil
	}

	plan := s.planner.CreatePlan()
	result := s.planner.ExecutePlan(ctx, plan)
	out := MigrateOutput{
		PlanID:      result.PlanID,
		Succeeded:   result.Succeeded,
		Failed:      result.Failed,
		SuccessRate: result.SuccessRate,
		Successful:  result.Successful,
	}
	for _, f := range result.Failures() {
		out.Failures = append(out.Failures, FailureItem{
			Capability: string(f.Capability),
			Phase:      f.Phase,
			Reason:     f.Reason,
		})
	}
	return nil, out, nil
}

func planItems(ms []model.Migration) []PlanItem {
	items := make([]PlanItem, len(ms))
	for i, m := range ms {
		items[i] = PlanItem{
			Capability: string(m.Capability),
			From:       string(m.From),
			To:         string(m.To),
			Reason:     m.Reason,
		}
	}
	return items
}
