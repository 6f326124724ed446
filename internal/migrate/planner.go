// Package migrate plans and executes capability reclassification
// batches. Execution is simulated against the live registry: the real
// cutover happens in the host codebase, this package verifies the
// backlog stays consistent and reports per-item outcomes.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/axiomframework/axiomguard/internal/catalog"
	"github.com/axiomframework/axiomguard/internal/model"
)

const defaultParallelism = 4

// Migration step phases reported in failures.
const (
	PhaseValidate = "validate"
	PhaseApply    = "apply"
)

// StepFunc performs one migration. The default step simulates.
type StepFunc func(ctx context.Context, m model.Migration) error

// Failure describes why one migration item failed. Implements error.
type Failure struct {
	Capability model.CapabilityID `json:"capability"`
	Phase      string             `json:"phase"`
	Reason     string             `json:"reason"`
}

func (f *Failure) Error() string {
	return fmt.Sprintf("migration of %s failed at %s: %s", f.Capability, f.Phase, f.Reason)
}

// Plan is an ordered migration batch, partitioned by target category.
type Plan struct {
	ID         string            `json:"id"`
	CreatedAt  time.Time         `json:"created_at"`
	ToLocal    []model.Migration `json:"to_local"`
	ToExternal []model.Migration `json:"to_external"`
}

// Size returns the number of items in the plan.
func (p Plan) Size() int {
	return len(p.ToLocal) + len(p.ToExternal)
}

// Items returns the plan's migrations in execution order: local
// targets first, then external.
func (p Plan) Items() []model.Migration {
	out := make([]model.Migration, 0, p.Size())
	out = append(out, p.ToLocal...)
	out = append(out, p.ToExternal...)
	return out
}

// ItemResult is the outcome of one migration item.
type ItemResult struct {
	Capability model.CapabilityID `json:"capability"`
	Target     model.Category     `json:"target"`
	Duration   time.Duration      `json:"duration"`
	Failure    *Failure           `json:"failure,omitempty"`
}

// OK reports whether the item migrated cleanly.
func (r ItemResult) OK() bool {
	return r.Failure == nil
}

// Result is the outcome of a whole batch. One item failing never
// aborts the rest; Successful means zero failures.
type Result struct {
	PlanID      string        `json:"plan_id"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
	Items       []ItemResult  `json:"items"`
	Succeeded   int           `json:"succeeded"`
	Failed      int           `json:"failed"`
	SuccessRate float64       `json:"success_rate"`
	Successful  bool          `json:"successful"`
}

// Failures returns the failed items' failures.
func (r Result) Failures() []*Failure {
	var out []*Failure
	for _, item := range r.Items {
		if item.Failure != nil {
			out = append(out, item.Failure)
		}
	}
	return out
}

// Planner builds and executes migration plans against a registry.
type Planner struct {
	reg         *catalog.Registry
	step        StepFunc
	parallelism int
	log         *zap.Logger
}

// Option configures a Planner.
type Option func(*Planner)

// WithStep replaces the simulated migration step.
func WithStep(step StepFunc) Option {
	return func(p *Planner) {
		if step != nil {
			p.step = step
		}
	}
}

// WithParallelism bounds concurrent migration items.
func WithParallelism(n int) Option {
	return func(p *Planner) {
		if n > 0 {
			p.parallelism = n
		}
	}
}

// WithLogger sets the planner logger. Default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(p *Planner) {
		if log != nil {
			p.log = log
		}
	}
}

// NewPlanner creates a Planner over reg.
func NewPlanner(reg *catalog.Registry, opts ...Option) *Planner {
	p := &Planner{
		reg:         reg,
		parallelism: defaultParallelism,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.step == nil {
		p.step = p.simulate
	}
	return p
}

// CreatePlan snapshots the registry's pending migrations into a plan,
// grouped by target category and sorted by capability. Pure: no I/O,
// no mutation.
func (p *Planner) CreatePlan() Plan {
	plan := Plan{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
	for _, m := range p.reg.PendingMigrations() {
		switch m.To {
		case model.Local:
			plan.ToLocal = append(plan.ToLocal, m)
		case model.ExternalService:
			plan.ToExternal = append(plan.ToExternal, m)
		}
	}
	sort.Slice(plan.ToLocal, func(i, j int) bool { return plan.ToLocal[i].Capability < plan.ToLocal[j].Capability })
	sort.Slice(plan.ToExternal, func(i, j int) bool { return plan.ToExternal[i].Capability < plan.ToExternal[j].Capability })
	return plan
}

// ExecutePlan runs every item in the plan with bounded parallelism.
// Item failures are collected, never propagated: the batch always
// runs to completion unless the context is cancelled, in which case
// remaining items fail at the validate phase.
func (p *Planner) ExecutePlan(ctx context.Context, plan Plan) Result {
	items := plan.Items()
	result := Result{
		PlanID:    plan.ID,
		StartedAt: time.Now().UTC(),
		Items:     make([]ItemResult, len(items)),
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(p.parallelism)
	for i, m := range items {
		eg.Go(func() error {
			result.Items[i] = p.runItem(egCtx, m)
			return nil
		})
	}
	_ = eg.Wait()

	result.Duration = time.Since(result.StartedAt)
	for _, item := range result.Items {
		if item.OK() {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}
	if len(items) > 0 {
		result.SuccessRate = float64(result.Succeeded) / float64(len(items))
	} else {
		// An empty backlog is a clean batch.
		result.SuccessRate = 1
	}
	result.Successful = result.Failed == 0

	p.log.Info("migration batch finished",
		zap.String("plan_id", result.PlanID),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
		zap.Float64("success_rate", result.SuccessRate),
	)
	return result
}

// MigrateSingle runs one ad-hoc migration for the capability toward
// the target category.
func (p *Planner) MigrateSingle(ctx context.Context, capability model.CapabilityID, target model.Category) ItemResult {
	m := model.Migration{
		Capability: capability,
		From:       p.reg.Category(capability),
		To:         target,
	}
	return p.runItem(ctx, m)
}

func (p *Planner) runItem(ctx context.Context, m model.Migration) ItemResult {
	started := time.Now()
	item := ItemResult{Capability: m.Capability, Target: m.To}

	err := p.step(ctx, m)
	item.Duration = time.Since(started)
	if err != nil {
		var failure *Failure
		if !errors.As(err, &failure) {
			failure = &Failure{Capability: m.Capability, Phase: PhaseApply, Reason: err.Error()}
		}
		item.Failure = failure
		p.log.Warn("migration item failed",
			zap.String("capability", string(m.Capability)),
			zap.String("phase", failure.Phase),
			zap.String("reason", failure.Reason),
		)
	}
	return item
}

// simulate is the default step: consistency checks against the live
// registry, no classification change.
func (p *Planner) simulate(ctx context.Context, m model.Migration) error {
	if err := ctx.Err(); err != nil {
		return &Failure{Capability: m.Capability, Phase: PhaseValidate, Reason: err.Error()}
	}
	if !p.reg.Contains(m.Capability) {
		return &Failure{Capability: m.Capability, Phase: PhaseValidate, Reason: "capability is not classified"}
	}
	if cur := p.reg.Category(m.Capability); cur != m.From {
		return &Failure{
			Capability: m.Capability,
			Phase:      PhaseValidate,
			Reason:     fmt.Sprintf("expected current category %s, found %s", m.From, cur),
		}
	}
	if m.To == m.From || (m.To != model.Local && m.To != model.ExternalService) {
		return &Failure{
			Capability: m.Capability,
			Phase:      PhaseValidate,
			Reason:     fmt.Sprintf("invalid target category %q", m.To),
		}
	}
	return nil
}
