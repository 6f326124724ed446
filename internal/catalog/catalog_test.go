package catalog

import (
	"testing"

	"github.com/axiomframework/axiomguard/internal/model"
)

func TestDefaultTableLoads(t *testing.T) {
	r := New()

	if r.Len() != 88 {
		t.Errorf("expected 88 capabilities, got %d", r.Len())
	}

	cases := []struct {
		id       model.CapabilityID
		category model.Category
		domain   model.Domain
	}{
		{"HTTPClientCapability", model.ExternalService, model.DomainNetwork},
		{"CameraCapability", model.Local, model.DomainSystem},
		{"CoreMLCapability", model.Local, model.DomainIntelligence},
		{"KeychainCapability", model.Local, model.DomainStorage},
		{"CloudSyncCapability", model.ExternalService, model.DomainCloud},
		{"NetworkReachabilityCapability", model.Local, model.DomainNetwork},
		{"GeocodingCapability", model.ExternalService, model.DomainSpatial},
	}
	for _, tc := range cases {
		if got := r.Category(tc.id); got != tc.category {
			t.Errorf("%s: expected category %s, got %s", tc.id, tc.category, got)
		}
		d, ok := r.Domain(tc.id)
		if !ok || d != tc.domain {
			t.Errorf("%s: expected domain %s, got %s (ok=%v)", tc.id, tc.domain, d, ok)
		}
	}
}

func TestUnknownCapabilityIsUnclassified(t *testing.T) {
	r := New()

	if got := r.Category("TimeTravelCapability"); got != model.Unclassified {
		t.Errorf("expected unclassified, got %s", got)
	}
	if r.Contains("TimeTravelCapability") {
		t.Error("expected Contains=false for unknown capability")
	}
	if _, ok := r.Domain("TimeTravelCapability"); ok {
		t.Error("expected no domain for unknown capability")
	}
}

func TestCategoriesPartitionTheTable(t *testing.T) {
	r := New()

	local := r.ByCategory(model.Local)
	external := r.ByCategory(model.ExternalService)

	if len(local)+len(external) != r.Len() {
		t.Errorf("categories do not cover the table: %d + %d != %d", len(local), len(external), r.Len())
	}

	seen := make(map[model.CapabilityID]bool)
	for _, id := range local {
		seen[id] = true
	}
	for _, id := range external {
		if seen[id] {
			t.Errorf("%s appears in both categories", id)
		}
	}
}

func TestAccessibleByRole(t *testing.T) {
	r := New()

	forContext := r.Accessible(model.RoleContext)
	forClient := r.Accessible(model.RoleClient)

	for _, id := range forContext {
		if r.Category(id) != model.Local {
			t.Errorf("context offered non-local capability %s", id)
		}
	}
	for _, id := range forClient {
		if r.Category(id) != model.ExternalService {
			t.Errorf("client offered non-external capability %s", id)
		}
	}
	if len(forContext)+len(forClient) != r.Len() {
		t.Error("role views do not cover the table")
	}
	if got := r.Accessible(model.Role("plugin")); got != nil {
		t.Errorf("expected nil for unknown role, got %v", got)
	}
}

func TestByDomainSorted(t *testing.T) {
	r := New()

	total := 0
	for _, d := range model.Domains {
		ids := r.ByDomain(d)
		if len(ids) == 0 {
			t.Errorf("domain %s has no capabilities", d)
		}
		for i := 1; i < len(ids); i++ {
			if ids[i-1] >= ids[i] {
				t.Errorf("domain %s not sorted: %s before %s", d, ids[i-1], ids[i])
			}
		}
		total += len(ids)
	}
	if total != r.Len() {
		t.Errorf("domains cover %d capabilities, table has %d", total, r.Len())
	}
}

func TestPendingMigrationsConsistent(t *testing.T) {
	r := New()

	migrations := r.PendingMigrations()
	if len(migrations) == 0 {
		t.Fatal("expected a non-empty migration backlog")
	}
	for _, m := range migrations {
		if got := r.Category(m.Capability); got != m.From {
			t.Errorf("%s: migration from %s but current category is %s", m.Capability, m.From, got)
		}
		if m.To == m.From {
			t.Errorf("%s: migration target equals current category", m.Capability)
		}
	}

	// Returned slice is a copy.
	migrations[0].Capability = "Clobbered"
	if r.PendingMigrations()[0].Capability == "Clobbered" {
		t.Error("PendingMigrations aliases internal state")
	}
}

func TestNewFromDescriptorsRejectsBadTables(t *testing.T) {
	valid := Descriptor{ID: "CameraCapability", Category: model.Local, Domain: model.DomainSystem}

	cases := []struct {
		name       string
		desc       []Descriptor
		migrations []model.Migration
	}{
		{
			name: "duplicate id",
			desc: []Descriptor{valid, valid},
		},
		{
			name: "conflicting categories",
			desc: []Descriptor{
				valid,
				{ID: "CameraCapability", Category: model.ExternalService, Domain: model.DomainSystem},
			},
		},
		{
			name: "unclassified category",
			desc: []Descriptor{{ID: "X", Category: model.Unclassified, Domain: model.DomainSystem}},
		},
		{
			name: "unknown domain",
			desc: []Descriptor{{ID: "X", Category: model.Local, Domain: model.Domain("gaming")}},
		},
		{
			name: "empty id",
			desc: []Descriptor{{Category: model.Local, Domain: model.DomainSystem}},
		},
		{
			name:       "migration for unknown capability",
			desc:       []Descriptor{valid},
			migrations: []model.Migration{{Capability: "GhostCapability", From: model.Local, To: model.ExternalService}},
		},
		{
			name:       "migration from wrong category",
			desc:       []Descriptor{valid},
			migrations: []model.Migration{{Capability: "CameraCapability", From: model.ExternalService, To: model.Local}},
		},
		{
			name:       "migration to same category",
			desc:       []Descriptor{valid},
			migrations: []model.Migration{{Capability: "CameraCapability", From: model.Local, To: model.Local}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewFromDescriptors(tc.desc, tc.migrations); err == nil {
				t.Error("expected construction error")
			}
		})
	}
}

func TestReclassifiedDerivesNewRegistry(t *testing.T) {
	reg := New()

	derived, err := reg.Reclassified(map[model.CapabilityID]model.Category{
		"SpeechRecognitionCapability": model.Local,
		"AnalyticsCapability":         model.ExternalService,
	})
	if err != nil {
		t.Fatal(err)
	}

	if got := derived.Category("SpeechRecognitionCapability"); got != model.Local {
		t.Errorf("expected local after override, got %s", got)
	}
	if got := derived.Category("AnalyticsCapability"); got != model.ExternalService {
		t.Errorf("expected external_service after override, got %s", got)
	}
	if derived.Len() != reg.Len() {
		t.Errorf("expected same size, got %d vs %d", derived.Len(), reg.Len())
	}

	// Source registry untouched.
	if got := reg.Category("SpeechRecognitionCapability"); got != model.ExternalService {
		t.Errorf("override leaked into source registry: %s", got)
	}

	// Backlog dropped on the derived registry.
	if n := len(derived.PendingMigrations()); n != 0 {
		t.Errorf("expected empty backlog after reclassification, got %d", n)
	}
}

func TestReclassifiedRejectsBadOverrides(t *testing.T) {
	reg := New()

	if _, err := reg.Reclassified(map[model.CapabilityID]model.Category{"GhostCapability": model.Local}); err == nil {
		t.Error("expected error for unknown capability override")
	}
	if _, err := reg.Reclassified(map[model.CapabilityID]model.Category{"CameraCapability": model.Unclassified}); err == nil {
		t.Error("expected error for invalid override category")
	}
}

func TestReclassifiedNoOverridesReturnsSame(t *testing.T) {
	reg := New()
	derived, err := reg.Reclassified(nil)
	if err != nil {
		t.Fatal(err)
	}
	if derived != reg {
		t.Error("expected identical registry for empty overrides")
	}
}
