package model

import (
	"fmt"
	"path/filepath"
	"runtime"
	"time"
)

// SourceLocation records where in the host application an access
// attempt originated.
type SourceLocation struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Function string `json:"function,omitempty"`
}

// CaptureLocation returns the location skip frames above the caller.
// skip=0 is the caller of CaptureLocation itself.
func CaptureLocation(skip int) SourceLocation {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return SourceLocation{File: "unknown"}
	}
	loc := SourceLocation{File: filepath.Base(file), Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		loc.Function = fn.Name()
	}
	return loc
}

func (l SourceLocation) String() string {
	if l.File == "" {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// AccessAttempt is an immutable record of one access request. Exactly
// one of Capability or Context is set, depending on the axis.
type AccessAttempt struct {
	Capability CapabilityID   `json:"capability,omitempty"`
	Context    ContextID      `json:"context,omitempty"`
	Component  string         `json:"component"`
	Role       Role           `json:"role,omitempty"`
	ViewRole   ViewRole       `json:"view_role,omitempty"`
	Location   SourceLocation `json:"location"`
	At         time.Time      `json:"at"`
}

// LogType categorizes one recorded enforcement decision.
type LogType string

const (
	LogAllowedAccess     LogType = "allowed_access"
	LogAllowedViewAccess LogType = "allowed_view_access"
	LogViolation         LogType = "violation"
	LogViewViolation     LogType = "view_violation"
)

// IsViolation reports whether the type records a denied access.
func (t LogType) IsViolation() bool {
	return t == LogViolation || t == LogViewViolation
}

// LogEntry is one recorded enforcement decision. Fields are structured
// so callers assert on them rather than parsing message strings.
type LogEntry struct {
	At         time.Time      `json:"at"`
	Type       LogType        `json:"type"`
	Capability CapabilityID   `json:"capability,omitempty"`
	Context    ContextID      `json:"context,omitempty"`
	Component  string         `json:"component"`
	Role       Role           `json:"role,omitempty"`
	ViewRole   ViewRole       `json:"view_role,omitempty"`
	Location   SourceLocation `json:"location"`
	Detail     string         `json:"detail,omitempty"`
}

// Violation is handed to violation callbacks when enforcement denies
// an access. Err is the typed validation error the caller receives.
type Violation struct {
	Attempt AccessAttempt   `json:"attempt"`
	Err     error           `json:"-"`
	Reason  string          `json:"reason"`
	Policy  ViolationPolicy `json:"policy"`
}

// healthyRate is the violation rate below which enforcement is
// considered healthy.
const healthyRate = 0.01

// Statistics summarizes recorded enforcement decisions.
type Statistics struct {
	TotalAccesses int       `json:"total_accesses"`
	Allowed       int       `json:"allowed"`
	Violations    int       `json:"violations"`
	ViolationRate float64   `json:"violation_rate"`
	LastViolation time.Time `json:"last_violation"`
	Healthy       bool      `json:"healthy"`
}

// ComputeStatistics derives Statistics from the recorded log. View
// entries count the same as capability entries. With no recorded
// accesses the rate is zero and the result is healthy.
func ComputeStatistics(entries []LogEntry) Statistics {
	var s Statistics
	for _, e := range entries {
		s.TotalAccesses++
		if e.Type.IsViolation() {
			s.Violations++
			if e.At.After(s.LastViolation) {
				s.LastViolation = e.At
			}
		} else {
			s.Allowed++
		}
	}
	if s.TotalAccesses > 0 {
		s.ViolationRate = float64(s.Violations) / float64(s.TotalAccesses)
	}
	s.Healthy = s.ViolationRate < healthyRate
	return s
}
