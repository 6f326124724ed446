package migrate

import (
	"context"
	"strings"
	"testing"

	"github.com/axiomframework/axiomguard/internal/model"
)

func TestFormatPlanText(t *testing.T) {
	p := newPlanner(t)
	out := FormatPlanText(p.CreatePlan())

	if !strings.Contains(out, "To local") {
		t.Error("expected a to-local group")
	}
	if !strings.Contains(out, "To external_service") {
		t.Error("expected a to-external group")
	}
	if !strings.Contains(out, "SpeechRecognitionCapability") {
		t.Error("expected backlog capability listed")
	}
	if !strings.Contains(out, "external_service -> local") {
		t.Errorf("expected direction column, got:\n%s", out)
	}
	if !strings.Contains(out, "pending migrations.") {
		t.Error("expected summary line")
	}
}

func TestFormatPlanTextEmpty(t *testing.T) {
	out := FormatPlanText(Plan{ID: "empty"})
	if out != "No pending migrations.\n" {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestFormatResultText(t *testing.T) {
	fail := model.CapabilityID("TranslationCapability")
	p := newPlanner(t, WithStep(func(ctx context.Context, m model.Migration) error {
		if m.Capability == fail {
			return &Failure{Capability: m.Capability, Phase: PhaseApply, Reason: "shim missing"}
		}
		return nil
	}))

	result := p.ExecutePlan(context.Background(), p.CreatePlan())
	out := FormatResultText(result)

	if !strings.Contains(out, "  OK    ") {
		t.Error("expected OK lines")
	}
	if !strings.Contains(out, "  FAIL  TranslationCapability at apply: shim missing") {
		t.Errorf("expected failure line, got:\n%s", out)
	}
	if !strings.Contains(out, "failed (success rate") {
		t.Errorf("expected summary with rate, got:\n%s", out)
	}
}

func TestFormatResultTextClean(t *testing.T) {
	p := newPlanner(t)
	result := p.ExecutePlan(context.Background(), p.CreatePlan())
	out := FormatResultText(result)

	if strings.Contains(out, "FAIL") {
		t.Errorf("clean batch must not report failures:\n%s", out)
	}
	if !strings.Contains(out, "items migrated.") {
		t.Errorf("expected summary line, got:\n%s", out)
	}
}

func TestFormatPlanJSON(t *testing.T) {
	p := newPlanner(t)
	out, err := FormatPlanJSON(p.CreatePlan())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"to_local"`) {
		t.Error("expected to_local key in JSON")
	}
}
