package alert

import (
	"github.com/axiomframework/axiomguard/internal/model"
)

const timestampFormat = "2006-01-02T15:04:05.000Z"

// Dispatcher fans out violation events to matching webhook configurations.
type Dispatcher struct {
	configs []Config
}

// NewDispatcher creates a Dispatcher from webhook configurations.
// Returns nil if configs is empty (callers should nil-check).
func NewDispatcher(configs []Config) *Dispatcher {
	if len(configs) == 0 {
		return nil
	}
	return &Dispatcher{configs: configs}
}

// Dispatch sends the event to all webhooks whose Events list matches.
// Matching is based on event.Type or event.Policy, so a destination can
// subscribe to all view violations or to every crash-policy denial.
// Fires goroutines — does not block the caller.
func (d *Dispatcher) Dispatch(event Event) {
	if d == nil {
		return
	}
	for _, cfg := range d.configs {
		if matches(cfg.Events, event) {
			go Send(cfg, event)
		}
	}
}

func matches(events []string, event Event) bool {
	for _, e := range events {
		if e == event.Type {
			return true
		}
		if event.Policy != "" && e == event.Policy {
			return true
		}
	}
	return false
}

// Callback adapts the dispatcher to the enforcement engine's violation
// callback signature. Safe on a nil dispatcher.
func (d *Dispatcher) Callback() func(model.Violation) {
	return func(v model.Violation) {
		d.Dispatch(FromViolation(v))
	}
}

// FromViolation builds the webhook payload for a denied access.
func FromViolation(v model.Violation) Event {
	typ := string(model.LogViolation)
	role := string(v.Attempt.Role)
	if v.Attempt.Context != "" {
		typ = string(model.LogViewViolation)
		role = string(v.Attempt.ViewRole)
	}
	var loc string
	if v.Attempt.Location.File != "" {
		loc = v.Attempt.Location.String()
	}
	return Event{
		Timestamp:  v.Attempt.At.UTC().Format(timestampFormat),
		Capability: string(v.Attempt.Capability),
		Context:    string(v.Attempt.Context),
		Component:  v.Attempt.Component,
		Role:       role,
		Location:   loc,
		Reason:     v.Reason,
		Policy:     string(v.Policy),
		Type:       typ,
	}
}
