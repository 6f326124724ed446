package axiomguard

import (
	"context"

	"github.com/axiomframework/axiomguard/internal/model"
)

// GuardedFunc is the function signature Guard.Use protects.
type GuardedFunc func(ctx context.Context) (any, error)

// Guard binds a component so repeated checks at a call site do not
// restate its name and role.
type Guard struct {
	client    *Client
	component Component
}

// Guard returns a wrapper bound to component.
func (c *Client) Guard(component Component) *Guard {
	return &Guard{client: c, component: component}
}

// Use runs fn only when the bound component may access capability.
// Denials return the typed error without calling fn.
func (g *Guard) Use(ctx context.Context, capability CapabilityID, fn GuardedFunc) (any, error) {
	err := g.client.engine.EnforceCapabilityAccess(capability, g.component, model.CaptureLocation(1))
	if err != nil {
		return nil, err
	}
	return fn(ctx)
}

// Component returns the bound component.
func (g *Guard) Component() Component {
	return g.component
}
