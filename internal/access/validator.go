// Package access implements the pure validation rules of the
// capability system. Validation is deterministic and side-effect
// free: same inputs, same answer, nothing logged, nothing recorded.
// Stateful enforcement lives in the enforce package.
package access

import (
	"github.com/axiomframework/axiomguard/internal/catalog"
	"github.com/axiomframework/axiomguard/internal/model"
)

// Validator applies the access rules against a classification
// registry. The registry is the validator's only collaborator.
type Validator struct {
	reg *catalog.Registry
}

// New creates a Validator bound to reg.
func New(reg *catalog.Registry) *Validator {
	return &Validator{reg: reg}
}

// Registry returns the registry the validator consults.
func (v *Validator) Registry() *catalog.Registry {
	return v.reg
}

// ValidateCapabilityAccess checks one capability access on the role
// axis. Contexts may use local capabilities only; clients may use
// external service capabilities only; unclassified capabilities and
// undeclared roles are always denied.
func (v *Validator) ValidateCapabilityAccess(id model.CapabilityID, role model.Role) error {
	category := v.reg.Category(id)

	switch role {
	case model.RoleContext:
		switch category {
		case model.ExternalService:
			return &UnauthorizedError{Capability: id, Role: role, Reason: ReasonContextExternal}
		case model.Local:
			return nil
		default:
			return &UnclassifiedError{Capability: id}
		}

	case model.RoleClient:
		switch category {
		case model.Local:
			return &UnauthorizedError{Capability: id, Role: role, Reason: ReasonClientLocal}
		case model.ExternalService:
			return nil
		default:
			return &UnclassifiedError{Capability: id}
		}

	default:
		return &UnauthorizedError{Capability: id, Role: role, Reason: ReasonUnknownRole}
	}
}

// ValidateViewObservation checks whether a view component may observe
// the given context. Only presentation components pass; the returned
// error wraps the specific rule that fired.
func (v *Validator) ValidateViewObservation(component model.ViewComponent, ctx model.ContextID) error {
	deny := func(rule error) error {
		return &ViewObservationError{
			Component: component.Name,
			Role:      component.Role,
			Context:   ctx,
			Rule:      rule,
		}
	}

	switch component.Role {
	case model.ViewSimple:
		return deny(ErrSimpleViewObservation)
	case model.ViewContextRestricted:
		return deny(ErrContextRestricted)
	case model.ViewPresentation:
		return nil
	default:
		return deny(ErrNotPresentation)
	}
}

// ValidateDependency checks a declared dependency edge between two
// component categories. Only same-category edges are valid; edges
// touching an unclassified component are denied.
func (v *Validator) ValidateDependency(parent, dependency model.Category) error {
	switch {
	case parent == model.Local && dependency == model.Local:
		return nil
	case parent == model.ExternalService && dependency == model.ExternalService:
		return nil
	case parent == model.Local && dependency == model.ExternalService:
		return &DependencyError{Parent: parent, Dependency: dependency, Reason: ReasonLocalOnExternal}
	case parent == model.ExternalService && dependency == model.Local:
		return &DependencyError{Parent: parent, Dependency: dependency, Reason: ReasonExternalOnLocal}
	default:
		return &DependencyError{Parent: parent, Dependency: dependency, Reason: ReasonUnclassifiedDep}
	}
}
