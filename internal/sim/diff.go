package sim

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DiffEntry represents one recorded access whose outcome changed.
type DiffEntry struct {
	Timestamp  string `json:"ts"`
	Capability string `json:"capability,omitempty"`
	Context    string `json:"context,omitempty"`
	Component  string `json:"component,omitempty"`
	Role       string `json:"role"`
	OldOutcome string `json:"old_outcome"`
	NewOutcome string `json:"new_outcome"`
	NewReason  string `json:"new_reason,omitempty"`
}

// Result holds the complete replay output.
type Result struct {
	LogPath       string      `json:"log_path"`
	TotalAccesses int         `json:"total_accesses"`
	Changed       int         `json:"changed"`
	NewlyDenied   int         `json:"newly_denied"`
	NewlyAllowed  int         `json:"newly_allowed"`
	Changes       []DiffEntry `json:"changes"`
}

// FormatText renders the replay result as human-readable text.
func FormatText(r *Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Replaying %d recorded accesses from %s...\n", r.TotalAccesses, r.LogPath)

	if len(r.Changes) == 0 {
		b.WriteString("\nNo changes detected.\n")
		return b.String()
	}

	b.WriteString("\n")
	for _, d := range r.Changes {
		ts := d.Timestamp
		if len(ts) > 19 {
			// Extract HH:MM:SS from timestamp
			ts = ts[11:19]
		}
		target := d.Capability
		if target == "" {
			target = d.Context
		}
		if len(target) > 40 {
			target = target[:37] + "..."
		}
		fmt.Fprintf(&b, "  CHANGED  %s  %-18s %-40s %s -> %s\n",
			ts, d.Role, target, d.OldOutcome, d.NewOutcome)
	}

	fmt.Fprintf(&b, "\n%d of %d accesses changed.", r.Changed, r.TotalAccesses)
	if r.NewlyDenied > 0 || r.NewlyAllowed > 0 {
		fmt.Fprintf(&b, " %d newly denied, %d newly allowed.", r.NewlyDenied, r.NewlyAllowed)
	}
	b.WriteString("\n")

	return b.String()
}

// FormatJSON renders the replay result as JSON.
func FormatJSON(r *Result) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal replay result: %w", err)
	}
	return string(data), nil
}
