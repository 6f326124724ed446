package model

// CapabilityID identifies a capability declared by the host application.
// IDs are opaque strings shared with the surrounding framework, e.g.
// "HTTPClientCapability" or "CameraCapability".
type CapabilityID string

// Category classifies where a capability executes.
type Category string

const (
	// Unclassified marks a capability unknown to the registry. Access to
	// unclassified capabilities is always denied.
	Unclassified Category = "unclassified"
	// Local capabilities execute entirely on-device: camera, sensors,
	// on-device ML inference, local storage.
	Local Category = "local"
	// ExternalService capabilities reach remote systems: HTTP clients,
	// cloud sync, push delivery.
	ExternalService Category = "external_service"
)

// Domain is the functional area a capability belongs to. Domains are
// reporting metadata only; access decisions never consult them.
type Domain string

const (
	DomainUI           Domain = "ui"
	DomainIntelligence Domain = "intelligence"
	DomainSystem       Domain = "system"
	DomainStorage      Domain = "storage"
	DomainData         Domain = "data"
	DomainNetwork      Domain = "network"
	DomainCloud        Domain = "cloud"
	DomainSpatial      Domain = "spatial"
)

// Domains lists every domain in stable order.
var Domains = []Domain{
	DomainUI,
	DomainIntelligence,
	DomainSystem,
	DomainStorage,
	DomainData,
	DomainNetwork,
	DomainCloud,
	DomainSpatial,
}

// Role is the declared role of a component on the capability-access axis.
type Role string

const (
	// RoleContext marks on-device orchestration state. Contexts may use
	// local capabilities only.
	RoleContext Role = "context"
	// RoleClient marks a remote-service connector. Clients may use
	// external service capabilities only.
	RoleClient Role = "client"
)

// ViewRole is the declared role of a component on the view-observation
// axis. The two axes are independent: a ViewRole says nothing about
// capability access.
type ViewRole string

const (
	// ViewPresentation components are the only views allowed to observe
	// context state.
	ViewPresentation ViewRole = "presentation"
	// ViewSimple components render passed-in data and must not observe
	// contexts directly.
	ViewSimple ViewRole = "simple_view"
	// ViewContextRestricted components are explicitly barred from
	// context observation.
	ViewContextRestricted ViewRole = "context_restricted"
)

// ContextID names an observable context instance. Opaque to the engine.
type ContextID string

// Component is a non-view participant in an access check. The role is
// declared explicitly at construction and never inferred from the name.
type Component struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// ViewComponent is a view-layer participant in an observation check.
type ViewComponent struct {
	Name string   `json:"name"`
	Role ViewRole `json:"role"`
}

// ViolationPolicy selects the side effect applied when enforcement
// records a violation. Every policy surfaces the error to the caller;
// the policy only controls what else happens.
type ViolationPolicy string

const (
	// PolicyLog records the violation and nothing more.
	PolicyLog ViolationPolicy = "log"
	// PolicyWarn records the violation and emits a warning log line.
	PolicyWarn ViolationPolicy = "warn"
	// PolicyBlock records the violation and flags it for alerting.
	PolicyBlock ViolationPolicy = "block"
	// PolicyCrash terminates the process after recording the violation.
	// Fail-fast mode for debug builds; never a preset default.
	PolicyCrash ViolationPolicy = "crash"
)

// Migration describes a pending reclassification of a capability from
// its current category to a target category.
type Migration struct {
	Capability CapabilityID `json:"capability"`
	From       Category     `json:"from"`
	To         Category     `json:"to"`
	Reason     string       `json:"reason,omitempty"`
}
