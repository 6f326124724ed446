package scenario

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/axiomframework/axiomguard/internal/access"
	"github.com/axiomframework/axiomguard/internal/catalog"
	"github.com/axiomframework/axiomguard/internal/model"
)

// Outcome keywords cases assert against with expect.
const (
	OutcomeAllow        = "allow"
	OutcomeUnauthorized = "unauthorized"
	OutcomeUnclassified = "unclassified"
	OutcomeViewDenied   = "view_denied"
)

// Run evaluates all cases in a scenario against the registry.
// Cases are independent; scenario-level overrides apply to every case.
func Run(s *Scenario, reg *catalog.Registry) (*RunResult, error) {
	if len(s.Overrides) > 0 {
		overrides := make(map[model.CapabilityID]model.Category, len(s.Overrides))
		for id, category := range s.Overrides {
			overrides[model.CapabilityID(id)] = model.Category(category)
		}
		var err error
		reg, err = reg.Reclassified(overrides)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
		}
	}
	v := access.New(reg)

	result := &RunResult{
		Name:  s.Name,
		Total: len(s.Cases),
	}

	for i, c := range s.Cases {
		var err error
		target := c.Access.Capability
		role := c.Access.Role
		if c.Access.Context != "" {
			target = c.Access.Context
			role = c.Access.ViewRole
			err = v.ValidateViewObservation(model.ViewComponent{
				Name: c.Access.Component,
				Role: model.ViewRole(c.Access.ViewRole),
			}, model.ContextID(c.Access.Context))
		} else {
			err = v.ValidateCapabilityAccess(model.CapabilityID(c.Access.Capability), model.Role(c.Access.Role))
		}

		actual := outcomeFor(err)
		expected := strings.ToLower(c.Expect)

		cr := CaseResult{
			Index:    i + 1,
			Target:   target,
			Role:     role,
			Expected: expected,
			Actual:   actual,
			Reason:   access.Reason(err),
		}

		if actual == expected {
			cr.Passed = true
			result.Passed++
		} else {
			result.Failed++
		}

		result.Cases = append(result.Cases, cr)
	}

	return result, nil
}

// LoadAndRun loads a scenario YAML file and runs it against the registry.
func LoadAndRun(path string, reg *catalog.Registry) (*RunResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	result, err := Run(&s, reg)
	if err != nil {
		return nil, err
	}
	result.File = path

	return result, nil
}

func outcomeFor(err error) string {
	if err == nil {
		return OutcomeAllow
	}
	var unclassified *access.UnclassifiedError
	var unauthorized *access.UnauthorizedError
	var view *access.ViewObservationError
	switch {
	case errors.As(err, &unclassified):
		return OutcomeUnclassified
	case errors.As(err, &unauthorized):
		return OutcomeUnauthorized
	case errors.As(err, &view):
		return OutcomeViewDenied
	default:
		return "error"
	}
}
