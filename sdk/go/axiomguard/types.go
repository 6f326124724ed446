package axiomguard

import (
	"github.com/axiomframework/axiomguard/internal/access"
	"github.com/axiomframework/axiomguard/internal/alert"
	"github.com/axiomframework/axiomguard/internal/catalog"
	"github.com/axiomframework/axiomguard/internal/enforce"
	"github.com/axiomframework/axiomguard/internal/model"
)

// Core model types, aliased so applications can name them without
// reaching into internal packages.
type (
	CapabilityID    = model.CapabilityID
	Category        = model.Category
	Domain          = model.Domain
	Role            = model.Role
	ViewRole        = model.ViewRole
	ContextID       = model.ContextID
	Component       = model.Component
	ViewComponent   = model.ViewComponent
	SourceLocation  = model.SourceLocation
	LogType         = model.LogType
	LogEntry        = model.LogEntry
	Statistics      = model.Statistics
	Violation       = model.Violation
	ViolationPolicy = model.ViolationPolicy
	Migration       = model.Migration
)

// Capability categories.
const (
	Unclassified    = model.Unclassified
	Local           = model.Local
	ExternalService = model.ExternalService
)

// Component roles on the capability-access axis.
const (
	RoleContext = model.RoleContext
	RoleClient  = model.RoleClient
)

// Component roles on the view-observation axis.
const (
	ViewPresentation      = model.ViewPresentation
	ViewSimple            = model.ViewSimple
	ViewContextRestricted = model.ViewContextRestricted
)

// Violation policies.
const (
	PolicyLog   = model.PolicyLog
	PolicyWarn  = model.PolicyWarn
	PolicyBlock = model.PolicyBlock
	PolicyCrash = model.PolicyCrash
)

// Config is the enforcement configuration applied to a Client.
type Config = enforce.Config

// AlertConfig defines a webhook alert destination.
type AlertConfig = alert.Config

// Registry is a capability classification table.
type Registry = catalog.Registry

// Descriptor declares one capability for a custom Registry.
type Descriptor = catalog.Descriptor

// Denial errors pass through the SDK unchanged. Assert on the concrete
// type with errors.As to read the structured fields.
type (
	UnauthorizedError    = access.UnauthorizedError
	UnclassifiedError    = access.UnclassifiedError
	DependencyError      = access.DependencyError
	ViewObservationError = access.ViewObservationError
)

// View observation rules a ViewObservationError wraps. Test with
// errors.Is.
var (
	ErrSimpleViewObservation = access.ErrSimpleViewObservation
	ErrContextRestricted     = access.ErrContextRestricted
	ErrNotPresentation       = access.ErrNotPresentation
)

// Preset configurations by name.
var (
	Strict      = enforce.Strict
	Development = enforce.Development
	Production  = enforce.Production
)

// NewRegistry builds a classification table from descriptors, with an
// optional migration backlog. Use with WithRegistry to replace the
// built-in table.
func NewRegistry(descriptors []Descriptor, migrations []Migration) (*Registry, error) {
	return catalog.NewFromDescriptors(descriptors, migrations)
}

// DefaultRegistry returns the built-in classification table.
func DefaultRegistry() *Registry {
	return catalog.New()
}

// Reason extracts the denial reason from a typed error. Returns the
// plain Error() text for foreign errors and "" for nil.
func Reason(err error) string {
	return access.Reason(err)
}
