// Package sim replays recorded enforcement decisions against a
// reclassified capability table, answering "what would this migration
// change" before anyone flips a category.
package sim

import (
	"fmt"
	"time"

	"github.com/axiomframework/axiomguard/internal/access"
	"github.com/axiomframework/axiomguard/internal/audit"
	"github.com/axiomframework/axiomguard/internal/catalog"
	"github.com/axiomframework/axiomguard/internal/model"
)

// Replay re-validates every recorded access in the audit log against a
// registry with the given category overrides applied. Validation is
// stateless, so entries replay independently and in file order.
func Replay(logPath string, reg *catalog.Registry, overrides map[model.CapabilityID]model.Category) (*Result, error) {
	derived, err := reg.Reclassified(overrides)
	if err != nil {
		return nil, fmt.Errorf("apply overrides: %w", err)
	}
	v := access.New(derived)

	entries, err := audit.ReadSince(logPath, time.Time{})
	if err != nil {
		return nil, err
	}

	result := &Result{LogPath: logPath}

	for _, e := range entries {
		result.TotalAccesses++

		var newErr error
		role := string(e.Role)
		if e.Context != "" {
			role = string(e.ViewRole)
			newErr = v.ValidateViewObservation(model.ViewComponent{
				Name: e.Component,
				Role: e.ViewRole,
			}, e.Context)
		} else {
			newErr = v.ValidateCapabilityAccess(e.Capability, e.Role)
		}

		oldAllowed := !e.Type.IsViolation()
		newAllowed := newErr == nil
		if oldAllowed == newAllowed {
			continue
		}

		result.Changes = append(result.Changes, DiffEntry{
			Timestamp:  e.At.UTC().Format(audit.TimestampFormat),
			Capability: string(e.Capability),
			Context:    string(e.Context),
			Component:  e.Component,
			Role:       role,
			OldOutcome: outcome(oldAllowed),
			NewOutcome: outcome(newAllowed),
			NewReason:  access.Reason(newErr),
		})
		result.Changed++

		if oldAllowed {
			result.NewlyDenied++
		} else {
			result.NewlyAllowed++
		}
	}

	return result, nil
}

func outcome(allowed bool) string {
	if allowed {
		return "allow"
	}
	return "deny"
}
