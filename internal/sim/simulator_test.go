package sim

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/axiomframework/axiomguard/internal/audit"
	"github.com/axiomframework/axiomguard/internal/catalog"
	"github.com/axiomframework/axiomguard/internal/model"
)

// writeDecisionLog writes entries as JSONL to a temp file.
func writeDecisionLog(t *testing.T, entries []audit.Entry) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

func TestNoOverridesZeroChanges(t *testing.T) {
	entries := []audit.Entry{
		{
			Timestamp:  "2026-01-15T14:00:12.000Z",
			Type:       "allowed_access",
			Capability: "CameraCapability",
			Component:  "ScannerContext",
			Role:       "context",
		},
		{
			Timestamp:  "2026-01-15T14:00:14.000Z",
			Type:       "violation",
			Capability: "HTTPClientCapability",
			Component:  "ScannerContext",
			Role:       "context",
		},
	}
	logPath := writeDecisionLog(t, entries)

	result, err := Replay(logPath, catalog.New(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalAccesses != 2 {
		t.Errorf("expected 2 total accesses, got %d", result.TotalAccesses)
	}
	if result.Changed != 0 {
		t.Errorf("expected 0 changed, got %d", result.Changed)
	}
}

func TestOverrideNewlyDenied(t *testing.T) {
	// Camera was local, the context access was allowed.
	entries := []audit.Entry{
		{
			Timestamp:  "2026-01-15T14:00:12.000Z",
			Type:       "allowed_access",
			Capability: "CameraCapability",
			Component:  "ScannerContext",
			Role:       "context",
		},
	}
	logPath := writeDecisionLog(t, entries)

	// Move camera behind a service: the same access now violates.
	result, err := Replay(logPath, catalog.New(), map[model.CapabilityID]model.Category{
		"CameraCapability": model.ExternalService,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Changed != 1 {
		t.Errorf("expected 1 changed, got %d", result.Changed)
	}
	if result.NewlyDenied != 1 {
		t.Errorf("expected 1 newly denied, got %d", result.NewlyDenied)
	}
}

func TestOverrideNewlyAllowed(t *testing.T) {
	// Speech recognition was external, the context access violated.
	entries := []audit.Entry{
		{
			Timestamp:  "2026-01-15T14:00:12.000Z",
			Type:       "violation",
			Capability: "SpeechRecognitionCapability",
			Component:  "DictationContext",
			Role:       "context",
			Reason:     "contexts cannot access external service capabilities",
		},
	}
	logPath := writeDecisionLog(t, entries)

	// On-device speech: the same access now passes.
	result, err := Replay(logPath, catalog.New(), map[model.CapabilityID]model.Category{
		"SpeechRecognitionCapability": model.Local,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Changed != 1 {
		t.Errorf("expected 1 changed, got %d", result.Changed)
	}
	if result.NewlyAllowed != 1 {
		t.Errorf("expected 1 newly allowed, got %d", result.NewlyAllowed)
	}
}

func TestViewEntriesNeverChange(t *testing.T) {
	entries := []audit.Entry{
		{
			Timestamp: "2026-01-15T14:00:12.000Z",
			Type:      "view_violation",
			Context:   "WeatherContext",
			Component: "DebugOverlay",
			ViewRole:  "simple_view",
		},
		{
			Timestamp: "2026-01-15T14:00:13.000Z",
			Type:      "allowed_view_access",
			Context:   "WeatherContext",
			Component: "WeatherScreen",
			ViewRole:  "presentation",
		},
	}
	logPath := writeDecisionLog(t, entries)

	// Category overrides cannot affect the view axis.
	result, err := Replay(logPath, catalog.New(), map[model.CapabilityID]model.Category{
		"CameraCapability": model.ExternalService,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalAccesses != 2 {
		t.Errorf("expected 2 total accesses, got %d", result.TotalAccesses)
	}
	if result.Changed != 0 {
		t.Errorf("expected 0 changed, got %d", result.Changed)
	}
}

func TestEmptyLog(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "empty.jsonl")
	if err := os.WriteFile(logPath, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := Replay(logPath, catalog.New(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalAccesses != 0 {
		t.Errorf("expected 0 total accesses, got %d", result.TotalAccesses)
	}
}

func TestMissingLogReturnsError(t *testing.T) {
	_, err := Replay(filepath.Join(t.TempDir(), "nope.jsonl"), catalog.New(), nil)
	if err == nil {
		t.Error("expected error for missing log")
	}
}

func TestInvalidOverrideReturnsError(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "empty.jsonl")
	if err := os.WriteFile(logPath, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Replay(logPath, catalog.New(), map[model.CapabilityID]model.Category{
		"GhostCapability": model.Local,
	})
	if err == nil {
		t.Error("expected error for unknown capability override")
	}
}

func TestDiffEntryFieldsPopulated(t *testing.T) {
	entries := []audit.Entry{
		{
			Timestamp:  "2026-01-15T14:00:12.000Z",
			Type:       "allowed_access",
			Capability: "CameraCapability",
			Component:  "ScannerContext",
			Role:       "context",
		},
	}
	logPath := writeDecisionLog(t, entries)

	result, err := Replay(logPath, catalog.New(), map[model.CapabilityID]model.Category{
		"CameraCapability": model.ExternalService,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(result.Changes))
	}
	d := result.Changes[0]
	if d.Timestamp != "2026-01-15T14:00:12.000Z" {
		t.Errorf("timestamp: got %s", d.Timestamp)
	}
	if d.Capability != "CameraCapability" {
		t.Errorf("capability: got %s", d.Capability)
	}
	if d.Component != "ScannerContext" {
		t.Errorf("component: got %s", d.Component)
	}
	if d.Role != "context" {
		t.Errorf("role: got %s", d.Role)
	}
	if d.OldOutcome != "allow" {
		t.Errorf("old_outcome: got %s", d.OldOutcome)
	}
	if d.NewOutcome != "deny" {
		t.Errorf("new_outcome: got %s", d.NewOutcome)
	}
	if d.NewReason == "" {
		t.Error("new_reason should not be empty")
	}
}

func TestFormatTextSummarizes(t *testing.T) {
	entries := []audit.Entry{
		{
			Timestamp:  "2026-01-15T14:00:12.000Z",
			Type:       "allowed_access",
			Capability: "CameraCapability",
			Component:  "ScannerContext",
			Role:       "context",
		},
	}
	logPath := writeDecisionLog(t, entries)

	result, err := Replay(logPath, catalog.New(), map[model.CapabilityID]model.Category{
		"CameraCapability": model.ExternalService,
	})
	if err != nil {
		t.Fatal(err)
	}

	out := FormatText(result)
	if !strings.Contains(out, "CHANGED  14:00:12") {
		t.Errorf("expected change line with time, got:\n%s", out)
	}
	if !strings.Contains(out, "allow -> deny") {
		t.Errorf("expected outcome transition, got:\n%s", out)
	}
	if !strings.Contains(out, "1 of 1 accesses changed. 1 newly denied, 0 newly allowed.") {
		t.Errorf("expected summary, got:\n%s", out)
	}
}
