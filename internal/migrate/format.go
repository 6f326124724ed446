package migrate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/axiomframework/axiomguard/internal/model"
)

// FormatPlanText renders a plan for terminal output.
func FormatPlanText(p Plan) string {
	if p.Size() == 0 {
		return "No pending migrations.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Migration plan %s\n", p.ID)
	if len(p.ToLocal) > 0 {
		fmt.Fprintf(&b, "\nTo local (%d):\n", len(p.ToLocal))
		for _, m := range p.ToLocal {
			writePlanItem(&b, m)
		}
	}
	if len(p.ToExternal) > 0 {
		fmt.Fprintf(&b, "\nTo external_service (%d):\n", len(p.ToExternal))
		for _, m := range p.ToExternal {
			writePlanItem(&b, m)
		}
	}
	fmt.Fprintf(&b, "\n%d pending migrations.\n", p.Size())
	return b.String()
}

func writePlanItem(b *strings.Builder, m model.Migration) {
	line := fmt.Sprintf("  %-40s %-16s -> %-16s", m.Capability, m.From, m.To)
	if m.Reason != "" {
		line += "  " + m.Reason
	}
	b.WriteString(strings.TrimRight(line, " ") + "\n")
}

// FormatResultText renders a batch execution result for terminal output.
func FormatResultText(r Result) string {
	if len(r.Items) == 0 {
		return "Nothing to migrate.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Executed plan %s (%d items)\n\n", r.PlanID, len(r.Items))
	for _, item := range r.Items {
		if item.OK() {
			fmt.Fprintf(&b, "  OK    %-40s -> %s\n", item.Capability, item.Target)
		} else {
			fmt.Fprintf(&b, "  FAIL  %s at %s: %s\n", item.Capability, item.Failure.Phase, item.Failure.Reason)
		}
	}
	if r.Failed > 0 {
		fmt.Fprintf(&b, "\n%d of %d items migrated, %d failed (success rate %.0f%%).\n",
			r.Succeeded, len(r.Items), r.Failed, r.SuccessRate*100)
	} else {
		fmt.Fprintf(&b, "\n%d of %d items migrated.\n", r.Succeeded, len(r.Items))
	}
	return b.String()
}

// FormatPlanJSON renders a plan as indented JSON.
func FormatPlanJSON(p Plan) (string, error) {
	out, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// FormatResultJSON renders a batch result as indented JSON.
func FormatResultJSON(r Result) (string, error) {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
