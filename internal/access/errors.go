package access

import (
	"errors"
	"fmt"

	"github.com/axiomframework/axiomguard/internal/model"
)

// Denial reasons. Exported so callers and tests assert on the field
// instead of parsing error strings.
const (
	ReasonContextExternal = "contexts cannot access external service capabilities"
	ReasonClientLocal     = "clients cannot access local device capabilities"
	ReasonUnknownRole     = "undeclared roles cannot access capabilities"

	ReasonLocalOnExternal = "local components must not depend on external service components"
	ReasonExternalOnLocal = "external service components must not depend on local components"
	ReasonUnclassifiedDep = "dependencies involving unclassified components are not allowed"
)

// View observation rules. ViewObservationError wraps one of these so
// callers can test with errors.Is.
var (
	ErrSimpleViewObservation = errors.New("simple views must not observe contexts")
	ErrContextRestricted     = errors.New("component is restricted from context observation")
	ErrNotPresentation       = errors.New("only presentation components may observe contexts")
)

// UnauthorizedError reports a role/category mismatch.
type UnauthorizedError struct {
	Capability model.CapabilityID
	Role       model.Role
	Reason     string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("access denied for %s (role %s): %s", e.Capability, e.Role, e.Reason)
}

// UnclassifiedError reports an access to a capability the registry
// does not know. Always a denial.
type UnclassifiedError struct {
	Capability model.CapabilityID
}

func (e *UnclassifiedError) Error() string {
	return fmt.Sprintf("access denied for %s: capability is not classified", e.Capability)
}

// DependencyError reports an invalid dependency edge between
// component categories.
type DependencyError struct {
	Parent     model.Category
	Dependency model.Category
	Reason     string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("invalid dependency %s -> %s: %s", e.Parent, e.Dependency, e.Reason)
}

// ViewObservationError reports a denied context observation. Rule is
// one of the sentinel errors above.
type ViewObservationError struct {
	Component string
	Role      model.ViewRole
	Context   model.ContextID
	Rule      error
}

func (e *ViewObservationError) Error() string {
	return fmt.Sprintf("observation of %s denied for %s (role %s): %v", e.Context, e.Component, e.Role, e.Rule)
}

func (e *ViewObservationError) Unwrap() error {
	return e.Rule
}

// Reason extracts the human-readable denial reason from any validation
// error produced by this package.
func Reason(err error) string {
	var unauthorized *UnauthorizedError
	if errors.As(err, &unauthorized) {
		return unauthorized.Reason
	}
	var unclassified *UnclassifiedError
	if errors.As(err, &unclassified) {
		return "capability is not classified"
	}
	var dep *DependencyError
	if errors.As(err, &dep) {
		return dep.Reason
	}
	var view *ViewObservationError
	if errors.As(err, &view) {
		return view.Rule.Error()
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
