package audit

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/axiomframework/axiomguard/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "decisions.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	s := openTestStore(t)

	want := model.LogEntry{
		At:         time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Type:       model.LogViolation,
		Capability: "HTTPClientCapability",
		Component:  "SyncContext",
		Role:       model.RoleContext,
		Location:   model.SourceLocation{File: "sync.go", Line: 12},
		Detail:     "contexts cannot access external service capabilities",
	}
	if err := s.Record(want); err != nil {
		t.Fatalf("record: %v", err)
	}

	got, err := s.Query(time.Time{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}
	e := got[0]
	if e.Type != want.Type || e.Capability != want.Capability || e.Component != want.Component {
		t.Errorf("row lost identity: %+v", e)
	}
	if e.Role != want.Role || e.Detail != want.Detail {
		t.Errorf("row lost detail: %+v", e)
	}
	if e.Location != want.Location {
		t.Errorf("location did not round-trip: %+v", e.Location)
	}
	if !e.At.Equal(want.At) {
		t.Errorf("timestamp did not round-trip: %v", e.At)
	}
}

func TestStoreQuerySince(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		entry := model.LogEntry{
			At:         base.Add(time.Duration(i) * time.Minute),
			Type:       model.LogAllowedAccess,
			Capability: "CameraCapability",
			Component:  "PhotoContext",
			Role:       model.RoleContext,
		}
		if err := s.Record(entry); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	got, err := s.Query(base.Add(3 * time.Minute))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 rows since cut, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].At.Before(got[i-1].At) {
			t.Error("rows not in insertion order")
		}
	}
}

func TestStoreStats(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		_ = s.Record(model.LogEntry{At: base.Add(time.Duration(i) * time.Second), Type: model.LogAllowedAccess})
	}
	for i := 0; i < 3; i++ {
		_ = s.Record(model.LogEntry{At: base.Add(time.Hour), Type: model.LogViolation})
	}

	stats, err := s.Stats(time.Time{})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalAccesses != 13 || stats.Violations != 3 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.Healthy {
		t.Error("expected unhealthy stats")
	}

	stats, err = s.Stats(base.Add(30 * time.Minute))
	if err != nil {
		t.Fatalf("stats since: %v", err)
	}
	if stats.TotalAccesses != 3 || stats.Violations != 3 {
		t.Errorf("since filter lost rows: %+v", stats)
	}
}
