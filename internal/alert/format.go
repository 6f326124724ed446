package alert

import (
	"encoding/json"
	"fmt"

	"github.com/axiomframework/axiomguard/internal/model"
)

// FormatPayload builds the webhook body for the given format.
func FormatPayload(format string, event Event) ([]byte, error) {
	switch format {
	case "slack":
		return formatSlack(event)
	case "pagerduty":
		return formatPagerDuty(event)
	default:
		return formatGeneric(event)
	}
}

func formatGeneric(event Event) ([]byte, error) {
	return json.Marshal(event)
}

func formatSlack(event Event) ([]byte, error) {
	payload := map[string]any{
		"blocks": []any{
			map[string]any{
				"type": "header",
				"text": map[string]any{
					"type": "plain_text",
					"text": fmt.Sprintf("axiomguard: %s", event.Type),
				},
			},
			map[string]any{
				"type": "section",
				"fields": []any{
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Component:* %s", event.Component)},
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Target:* %s", target(event))},
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Policy:* %s (%s)", event.Policy, severityFor(event.Policy))},
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Reason:* %s", event.Reason)},
				},
			},
		},
	}
	return json.Marshal(payload)
}

func formatPagerDuty(event Event) ([]byte, error) {
	payload := map[string]any{
		"event_action": "trigger",
		"payload": map[string]any{
			"summary":  fmt.Sprintf("axiomguard %s: %s", event.Type, target(event)),
			"severity": severityFor(event.Policy),
			"source":   "axiomguard",
			"custom_details": map[string]any{
				"capability": event.Capability,
				"context":    event.Context,
				"component":  event.Component,
				"role":       event.Role,
				"location":   event.Location,
				"reason":     event.Reason,
				"policy":     event.Policy,
			},
		},
	}
	return json.Marshal(payload)
}

// target is the denied thing: the capability for access violations, the
// observed context for view violations.
func target(event Event) string {
	if event.Capability != "" {
		return event.Capability
	}
	return event.Context
}

func severityFor(policy string) string {
	switch policy {
	case string(model.PolicyCrash):
		return "critical"
	case string(model.PolicyBlock):
		return "error"
	case string(model.PolicyWarn):
		return "warning"
	default:
		return "info"
	}
}
