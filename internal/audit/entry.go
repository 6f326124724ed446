// Package audit persists enforcement decisions: a hash-chained JSONL
// log for tamper evidence, a SQLite store for queryable history, and
// readers the CLI and replay tooling share.
package audit

import (
	"strconv"
	"strings"
	"time"

	"github.com/axiomframework/axiomguard/internal/model"
)

// TimestampFormat is the layout used in audit entry timestamps.
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// Entry is one line in the hash-chained JSONL decision log. All
// fields are scalars to guarantee deterministic json.Marshal field
// order for reproducible hashing.
type Entry struct {
	Timestamp  string `json:"ts"`
	Type       string `json:"type"`
	Capability string `json:"capability,omitempty"`
	Context    string `json:"context,omitempty"`
	Component  string `json:"component"`
	Role       string `json:"role,omitempty"`
	ViewRole   string `json:"view_role,omitempty"`
	Location   string `json:"location,omitempty"`
	Reason     string `json:"reason,omitempty"`
	PrevHash   string `json:"prev_hash"`
}

// FromLogEntry flattens an engine log entry for persistence.
func FromLogEntry(e model.LogEntry) Entry {
	entry := Entry{
		Type:       string(e.Type),
		Capability: string(e.Capability),
		Context:    string(e.Context),
		Component:  e.Component,
		Role:       string(e.Role),
		ViewRole:   string(e.ViewRole),
		Reason:     e.Detail,
	}
	if !e.At.IsZero() {
		entry.Timestamp = e.At.UTC().Format(TimestampFormat)
	}
	if e.Location.File != "" {
		entry.Location = e.Location.String()
	}
	return entry
}

// LogEntry converts a persisted entry back to the engine's in-memory
// form. Unparseable timestamps are left zero rather than rejected;
// the chain verifier owns integrity questions.
func (e Entry) LogEntry() model.LogEntry {
	out := model.LogEntry{
		Type:       model.LogType(e.Type),
		Capability: model.CapabilityID(e.Capability),
		Context:    model.ContextID(e.Context),
		Component:  e.Component,
		Role:       model.Role(e.Role),
		ViewRole:   model.ViewRole(e.ViewRole),
		Detail:     e.Reason,
	}
	if ts, err := time.Parse(TimestampFormat, e.Timestamp); err == nil {
		out.At = ts
	}
	out.Location = parseLocation(e.Location)
	return out
}

func parseLocation(s string) model.SourceLocation {
	if s == "" || s == "unknown" {
		return model.SourceLocation{}
	}
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return model.SourceLocation{File: s}
	}
	line, err := strconv.Atoi(s[i+1:])
	if err != nil {
		return model.SourceLocation{File: s}
	}
	return model.SourceLocation{File: s[:i], Line: line}
}
