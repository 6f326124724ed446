// Package catalog holds the capability classification registry: the
// static table mapping every known capability to its execution
// category and functional domain.
//
// The registry is built explicitly and passed to whatever needs it.
// There is no package-global instance.
package catalog

import (
	"fmt"
	"sort"

	"github.com/axiomframework/axiomguard/internal/model"
)

// Descriptor declares one capability's classification.
type Descriptor struct {
	ID       model.CapabilityID `json:"id" yaml:"id"`
	Category model.Category     `json:"category" yaml:"category"`
	Domain   model.Domain       `json:"domain" yaml:"domain"`
}

// Registry is an immutable capability classification table. Safe for
// concurrent readers after construction.
type Registry struct {
	byID       map[model.CapabilityID]Descriptor
	migrations []model.Migration
}

// New builds the registry from the built-in classification table.
func New() *Registry {
	r, err := NewFromDescriptors(defaultDescriptors, defaultMigrations)
	if err != nil {
		// The built-in table is static; a conflict here is a
		// programming error caught by the package tests.
		panic(err)
	}
	return r
}

// NewFromDescriptors builds a registry from an explicit descriptor
// set. Every ID maps to exactly one category: duplicates are rejected,
// as are descriptors with an invalid category or domain. Migrations
// must reference a classified capability, and their from-category must
// match the capability's current classification.
func NewFromDescriptors(descriptors []Descriptor, migrations []model.Migration) (*Registry, error) {
	r := &Registry{byID: make(map[model.CapabilityID]Descriptor, len(descriptors))}

	domains := make(map[model.Domain]bool, len(model.Domains))
	for _, d := range model.Domains {
		domains[d] = true
	}

	for _, d := range descriptors {
		if d.ID == "" {
			return nil, fmt.Errorf("catalog: descriptor with empty id")
		}
		if d.Category != model.Local && d.Category != model.ExternalService {
			return nil, fmt.Errorf("catalog: %s: category must be local or external_service, got %q", d.ID, d.Category)
		}
		if !domains[d.Domain] {
			return nil, fmt.Errorf("catalog: %s: unknown domain %q", d.ID, d.Domain)
		}
		if prev, ok := r.byID[d.ID]; ok {
			if prev.Category != d.Category {
				return nil, fmt.Errorf("catalog: %s classified as both %s and %s", d.ID, prev.Category, d.Category)
			}
			return nil, fmt.Errorf("catalog: duplicate descriptor for %s", d.ID)
		}
		r.byID[d.ID] = d
	}

	for _, m := range migrations {
		cur, ok := r.byID[m.Capability]
		if !ok {
			return nil, fmt.Errorf("catalog: migration references unclassified capability %s", m.Capability)
		}
		if m.From != cur.Category {
			return nil, fmt.Errorf("catalog: migration for %s starts from %s but capability is %s", m.Capability, m.From, cur.Category)
		}
		if m.To == m.From || (m.To != model.Local && m.To != model.ExternalService) {
			return nil, fmt.Errorf("catalog: migration for %s has invalid target %q", m.Capability, m.To)
		}
		r.migrations = append(r.migrations, m)
	}

	return r, nil
}

// Category returns the capability's category. Unknown IDs report
// Unclassified, which every access rule denies.
func (r *Registry) Category(id model.CapabilityID) model.Category {
	d, ok := r.byID[id]
	if !ok {
		return model.Unclassified
	}
	return d.Category
}

// Domain returns the capability's functional domain.
func (r *Registry) Domain(id model.CapabilityID) (model.Domain, bool) {
	d, ok := r.byID[id]
	return d.Domain, ok
}

// Contains reports whether the capability is classified.
func (r *Registry) Contains(id model.CapabilityID) bool {
	_, ok := r.byID[id]
	return ok
}

// Len returns the number of classified capabilities.
func (r *Registry) Len() int {
	return len(r.byID)
}

// Descriptors returns a copy of the full table, sorted by ID.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.byID))
	for _, d := range r.byID {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ByCategory returns the IDs classified under c, sorted.
func (r *Registry) ByCategory(c model.Category) []model.CapabilityID {
	var out []model.CapabilityID
	for id, d := range r.byID {
		if d.Category == c {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ByDomain returns the IDs belonging to domain d, sorted.
func (r *Registry) ByDomain(d model.Domain) []model.CapabilityID {
	var out []model.CapabilityID
	for id, desc := range r.byID {
		if desc.Domain == d {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Accessible returns the capabilities the role may use: local
// capabilities for contexts, external service capabilities for
// clients. Unknown roles get nothing.
func (r *Registry) Accessible(role model.Role) []model.CapabilityID {
	switch role {
	case model.RoleContext:
		return r.ByCategory(model.Local)
	case model.RoleClient:
		return r.ByCategory(model.ExternalService)
	default:
		return nil
	}
}

// PendingMigrations returns the reclassification backlog: capabilities
// whose category is scheduled to change. Reporting and tooling only;
// access decisions always use the current classification.
func (r *Registry) PendingMigrations() []model.Migration {
	out := make([]model.Migration, len(r.migrations))
	copy(out, r.migrations)
	return out
}

// Reclassified derives a registry with the given capability categories
// replaced. Only classified capabilities can be overridden. The pending
// migration backlog is dropped: once categories move, the recorded
// from-categories no longer describe the table.
func (r *Registry) Reclassified(overrides map[model.CapabilityID]model.Category) (*Registry, error) {
	if len(overrides) == 0 {
		return r, nil
	}
	descriptors := r.Descriptors()
	seen := make(map[model.CapabilityID]bool, len(overrides))
	for i, d := range descriptors {
		c, ok := overrides[d.ID]
		if !ok {
			continue
		}
		descriptors[i].Category = c
		seen[d.ID] = true
	}
	for id := range overrides {
		if !seen[id] {
			return nil, fmt.Errorf("catalog: override for unclassified capability %s", id)
		}
	}
	return NewFromDescriptors(descriptors, nil)
}
