package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/axiomframework/axiomguard/internal/model"
)

func tempLogPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "decisions.jsonl")
}

func sampleEntry(i int) Entry {
	return Entry{
		Type:       string(model.LogAllowedAccess),
		Capability: "CameraCapability",
		Component:  "PhotoContext",
		Role:       string(model.RoleContext),
		Location:   "photo.go:42",
		Timestamp:  time.Date(2026, 3, 1, 10, 0, i, 0, time.UTC).Format(TimestampFormat),
	}
}

func TestLogChainRoundTrip(t *testing.T) {
	path := tempLogPath(t)

	log, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := log.Record(sampleEntry(i)); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	if err := log.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	result := Verify(path)
	if !result.Valid {
		t.Fatalf("expected valid chain: %+v", result)
	}
	if result.Lines != 5 {
		t.Errorf("expected 5 lines, got %d", result.Lines)
	}
}

func TestLogReopenContinuesChain(t *testing.T) {
	path := tempLogPath(t)

	log, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := log.Record(sampleEntry(0)); err != nil {
		t.Fatalf("record: %v", err)
	}
	log.Close()

	log, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if err := log.Record(sampleEntry(1)); err != nil {
		t.Fatalf("record after reopen: %v", err)
	}
	log.Close()

	result := Verify(path)
	if !result.Valid || result.Lines != 2 {
		t.Fatalf("expected 2-line valid chain after reopen: %+v", result)
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	path := tempLogPath(t)

	log, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := log.Record(sampleEntry(i)); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	log.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	tampered := strings.Replace(string(data), "CameraCapability", "MicrophoneCapability", 1)
	if tampered == string(data) {
		t.Fatal("tamper did not change the file")
	}
	if err := os.WriteFile(path, []byte(tampered), 0o600); err != nil {
		t.Fatalf("write tampered: %v", err)
	}

	result := Verify(path)
	if result.Valid {
		t.Fatal("expected tampered chain to fail verification")
	}
	if result.ErrorLine != 2 {
		t.Errorf("expected break detected at line 2, got %d (%s)", result.ErrorLine, result.Error)
	}
}

func TestObserverPersistsEngineEntries(t *testing.T) {
	path := tempLogPath(t)

	log, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	obs := log.Observer(func(err error) { t.Errorf("observer error: %v", err) })

	obs(model.LogEntry{
		At:         time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Type:       model.LogViolation,
		Capability: "HTTPClientCapability",
		Component:  "SyncContext",
		Role:       model.RoleContext,
		Location:   model.SourceLocation{File: "sync.go", Line: 7},
		Detail:     "contexts cannot access external service capabilities",
	})
	log.Close()

	entries, err := ReadSince(path, time.Time{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	got := entries[0]
	if got.Type != model.LogViolation || got.Capability != "HTTPClientCapability" {
		t.Errorf("entry lost identity: %+v", got)
	}
	if got.Location.File != "sync.go" || got.Location.Line != 7 {
		t.Errorf("location did not round-trip: %+v", got.Location)
	}
	if got.At.IsZero() {
		t.Error("timestamp did not round-trip")
	}
}

func TestReadSinceFilters(t *testing.T) {
	path := tempLogPath(t)

	log, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for i := 0; i < 6; i++ {
		if err := log.Record(sampleEntry(i)); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	log.Close()

	cut := time.Date(2026, 3, 1, 10, 0, 3, 0, time.UTC)
	entries, err := ReadSince(path, cut)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries since cut, got %d", len(entries))
	}
	for _, e := range entries {
		if e.At.Before(cut) {
			t.Errorf("entry before cut: %v", e.At)
		}
	}
}

func TestStatsFromFile(t *testing.T) {
	path := tempLogPath(t)

	log, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for i := 0; i < 4; i++ {
		entry := sampleEntry(i)
		if i == 0 {
			entry.Type = string(model.LogViolation)
			entry.Reason = "contexts cannot access external service capabilities"
		}
		if err := log.Record(entry); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	log.Close()

	stats, err := StatsFromFile(path, time.Time{})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalAccesses != 4 || stats.Violations != 1 || stats.Allowed != 3 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
