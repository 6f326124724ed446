package enforce

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/axiomframework/axiomguard/internal/access"
	"github.com/axiomframework/axiomguard/internal/catalog"
	"github.com/axiomframework/axiomguard/internal/model"
)

func newEnforcer(t *testing.T, opts ...Option) *Enforcer {
	t.Helper()
	return New(access.New(catalog.New()), opts...)
}

func here() model.SourceLocation {
	return model.CaptureLocation(1)
}

func TestEnforceAllowedAccess(t *testing.T) {
	e := newEnforcer(t)
	component := model.Component{Name: "PhotoContext", Role: model.RoleContext}

	if err := e.EnforceCapabilityAccess("CameraCapability", component, here()); err != nil {
		t.Fatalf("expected allow, got %v", err)
	}

	logs := e.Logs()
	if len(logs) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(logs))
	}
	entry := logs[0]
	if entry.Type != model.LogAllowedAccess {
		t.Errorf("expected allowed_access, got %s", entry.Type)
	}
	if entry.Capability != "CameraCapability" || entry.Component != "PhotoContext" {
		t.Errorf("entry lost identity: %+v", entry)
	}
}

func TestEnforceViolationReturnsErrorAndRecords(t *testing.T) {
	e := newEnforcer(t)
	component := model.Component{Name: "SyncContext", Role: model.RoleContext}

	var seen []model.Violation
	e.AddViolationCallback(func(v model.Violation) { seen = append(seen, v) })

	err := e.EnforceCapabilityAccess("HTTPClientCapability", component, here())
	if err == nil {
		t.Fatal("expected violation error")
	}
	var unauthorized *access.UnauthorizedError
	if !errors.As(err, &unauthorized) {
		t.Fatalf("expected UnauthorizedError, got %T", err)
	}

	logs := e.Logs()
	if len(logs) != 1 || logs[0].Type != model.LogViolation {
		t.Fatalf("expected one violation entry, got %+v", logs)
	}
	if logs[0].Detail != access.ReasonContextExternal {
		t.Errorf("expected reason %q, got %q", access.ReasonContextExternal, logs[0].Detail)
	}

	if len(seen) != 1 {
		t.Fatalf("expected 1 callback invocation, got %d", len(seen))
	}
	if seen[0].Attempt.Capability != "HTTPClientCapability" {
		t.Errorf("callback saw wrong capability: %s", seen[0].Attempt.Capability)
	}
	if !errors.Is(seen[0].Err, err) {
		t.Error("callback error differs from caller error")
	}
}

func TestEveryPolicyStillReturnsError(t *testing.T) {
	component := model.Component{Name: "SyncContext", Role: model.RoleContext}

	for _, policy := range []model.ViolationPolicy{model.PolicyLog, model.PolicyWarn, model.PolicyBlock} {
		t.Run(string(policy), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Policy = policy
			e := newEnforcer(t, WithConfig(cfg))

			err := e.EnforceCapabilityAccess("HTTPClientCapability", component, here())
			if err == nil {
				t.Fatalf("policy %s swallowed the violation", policy)
			}
			if got := e.Logs(); len(got) != 1 || got[0].Type != model.LogViolation {
				t.Errorf("policy %s did not record the violation", policy)
			}
		})
	}
}

func TestCrashPolicyTerminates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Policy = model.PolicyCrash

	exited := -1
	e := newEnforcer(t, WithConfig(cfg), WithExitFunc(func(code int) { exited = code }))
	component := model.Component{Name: "SyncContext", Role: model.RoleContext}

	err := e.EnforceCapabilityAccess("HTTPClientCapability", component, here())
	if err == nil {
		t.Fatal("expected violation error")
	}
	if exited != exitCrash {
		t.Errorf("expected exit status %d, got %d", exitCrash, exited)
	}
	if got := e.Logs(); len(got) != 1 {
		t.Errorf("crash policy must record before terminating, got %d entries", len(got))
	}
}

func TestInactiveEngineAllowsEverything(t *testing.T) {
	e := newEnforcer(t)
	e.SetActive(false)
	component := model.Component{Name: "SyncContext", Role: model.RoleContext}

	if err := e.EnforceCapabilityAccess("HTTPClientCapability", component, here()); err != nil {
		t.Fatalf("inactive engine must allow, got %v", err)
	}
	if err := e.EnforceViewAccess(model.ViewComponent{Name: "Row", Role: model.ViewSimple}, "Ctx", here()); err != nil {
		t.Fatalf("inactive engine must allow view access, got %v", err)
	}
	if got := e.Logs(); len(got) != 0 {
		t.Errorf("inactive engine must not record, got %d entries", len(got))
	}

	e.SetActive(true)
	if err := e.EnforceCapabilityAccess("HTTPClientCapability", component, here()); err == nil {
		t.Error("reactivated engine must enforce again")
	}
}

func TestEnforceViewAccess(t *testing.T) {
	e := newEnforcer(t)

	err := e.EnforceViewAccess(model.ViewComponent{Name: "Dash", Role: model.ViewPresentation}, "HomeContext", here())
	if err != nil {
		t.Fatalf("expected allow for presentation, got %v", err)
	}

	err = e.EnforceViewAccess(model.ViewComponent{Name: "Row", Role: model.ViewSimple}, "HomeContext", here())
	if !errors.Is(err, access.ErrSimpleViewObservation) {
		t.Fatalf("expected simple-view denial, got %v", err)
	}

	logs := e.Logs()
	if len(logs) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(logs))
	}
	if logs[0].Type != model.LogAllowedViewAccess || logs[1].Type != model.LogViewViolation {
		t.Errorf("unexpected entry types: %s, %s", logs[0].Type, logs[1].Type)
	}
	if logs[1].Context != "HomeContext" {
		t.Errorf("view violation lost context: %+v", logs[1])
	}
}

func TestStatsFromRecordedLog(t *testing.T) {
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	e := newEnforcer(t, WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}))

	context := model.Component{Name: "PhotoContext", Role: model.RoleContext}
	for i := 0; i < 10; i++ {
		if err := e.EnforceCapabilityAccess("CameraCapability", context, here()); err != nil {
			t.Fatalf("expected allow, got %v", err)
		}
	}
	for i := 0; i < 3; i++ {
		if err := e.EnforceCapabilityAccess("HTTPClientCapability", context, here()); err == nil {
			t.Fatal("expected violation")
		}
	}

	s := e.Stats()
	if s.TotalAccesses != 13 || s.Allowed != 10 || s.Violations != 3 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if math.Abs(s.ViolationRate-3.0/13.0) > 1e-9 {
		t.Errorf("expected rate 3/13, got %f", s.ViolationRate)
	}
	if s.Healthy {
		t.Error("expected unhealthy")
	}
	if s.LastViolation.IsZero() {
		t.Error("expected last violation timestamp")
	}

	e.ClearLogs()
	s = e.Stats()
	if s.TotalAccesses != 0 || !s.Healthy {
		t.Errorf("expected clean healthy stats after clear, got %+v", s)
	}
}

func TestLogsSince(t *testing.T) {
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	e := newEnforcer(t, WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}))
	context := model.Component{Name: "PhotoContext", Role: model.RoleContext}

	for i := 0; i < 5; i++ {
		_ = e.EnforceCapabilityAccess("CameraCapability", context, here())
	}

	cut := time.Date(2026, 3, 1, 9, 3, 0, 0, time.UTC)
	got := e.LogsSince(cut)
	if len(got) != 3 {
		t.Fatalf("expected 3 entries since cut, got %d", len(got))
	}
	for _, entry := range got {
		if entry.At.Before(cut) {
			t.Errorf("entry before cut returned: %v", entry.At)
		}
	}
}

func TestConfigUpdateAppliesGoingForward(t *testing.T) {
	e := newEnforcer(t)
	component := model.Component{Name: "SyncContext", Role: model.RoleContext}

	var policies []model.ViolationPolicy
	e.AddViolationCallback(func(v model.Violation) { policies = append(policies, v.Policy) })

	_ = e.EnforceCapabilityAccess("HTTPClientCapability", component, here())

	cfg := e.Config()
	cfg.Policy = model.PolicyBlock
	e.UpdateConfig(cfg)

	_ = e.EnforceCapabilityAccess("HTTPClientCapability", component, here())

	if len(policies) != 2 || policies[0] != model.PolicyLog || policies[1] != model.PolicyBlock {
		t.Errorf("expected [log block], got %v", policies)
	}
}

func TestMetricsAndPerformanceGating(t *testing.T) {
	cfg := Config{Policy: model.PolicyLog}
	e := newEnforcer(t, WithConfig(cfg))
	context := model.Component{Name: "PhotoContext", Role: model.RoleContext}

	_ = e.EnforceCapabilityAccess("CameraCapability", context, here())
	if got := e.Metrics(); len(got) != 0 {
		t.Errorf("metrics disabled but counted: %v", got)
	}
	if got := e.Performance(); got.Checks != 0 {
		t.Errorf("timing disabled but tracked: %+v", got)
	}

	e.UpdateConfig(Strict())
	_ = e.EnforceCapabilityAccess("CameraCapability", context, here())
	_ = e.EnforceCapabilityAccess("CameraCapability", context, here())

	if got := e.Metrics(); got["CameraCapability"] != 2 {
		t.Errorf("expected 2 counted accesses, got %v", got)
	}
	perf := e.Performance()
	if perf.Checks != 2 {
		t.Errorf("expected 2 timed checks, got %d", perf.Checks)
	}
	if perf.Max < perf.Avg() {
		t.Errorf("max %v below avg %v", perf.Max, perf.Avg())
	}
}

func TestConcurrentEnforcement(t *testing.T) {
	defer goleak.VerifyNone(t)

	e := newEnforcer(t)
	context := model.Component{Name: "PhotoContext", Role: model.RoleContext}
	client := model.Component{Name: "SyncClient", Role: model.RoleClient}

	const workers = 16
	const perWorker = 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if w%2 == 0 {
					_ = e.EnforceCapabilityAccess("CameraCapability", context, model.SourceLocation{File: "worker.go", Line: i})
				} else {
					_ = e.EnforceCapabilityAccess("CameraCapability", client, model.SourceLocation{File: "worker.go", Line: i})
				}
			}
		}(w)
	}
	wg.Wait()

	s := e.Stats()
	if s.TotalAccesses != workers*perWorker {
		t.Errorf("expected %d entries, got %d", workers*perWorker, s.TotalAccesses)
	}
	if s.Allowed != workers/2*perWorker || s.Violations != workers/2*perWorker {
		t.Errorf("unexpected split: %+v", s)
	}
}

func TestLogObserverSeesEveryEntry(t *testing.T) {
	e := newEnforcer(t)

	var types []model.LogType
	e.AddLogObserver(func(entry model.LogEntry) { types = append(types, entry.Type) })

	context := model.Component{Name: "PhotoContext", Role: model.RoleContext}
	_ = e.EnforceCapabilityAccess("CameraCapability", context, here())
	_ = e.EnforceCapabilityAccess("HTTPClientCapability", context, here())
	_ = e.EnforceViewAccess(model.ViewComponent{Name: "Dash", Role: model.ViewPresentation}, "HomeContext", here())

	want := []model.LogType{model.LogAllowedAccess, model.LogViolation, model.LogAllowedViewAccess}
	if len(types) != len(want) {
		t.Fatalf("expected %d observed entries, got %d", len(want), len(types))
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("entry %d: expected %s, got %s", i, want[i], types[i])
		}
	}
}

func TestCallbackMayQueryEngine(t *testing.T) {
	e := newEnforcer(t)
	component := model.Component{Name: "SyncContext", Role: model.RoleContext}

	var statsInCallback model.Statistics
	e.AddViolationCallback(func(model.Violation) {
		statsInCallback = e.Stats()
	})

	_ = e.EnforceCapabilityAccess("HTTPClientCapability", component, here())

	if statsInCallback.Violations != 1 {
		t.Errorf("callback saw %d violations, expected 1", statsInCallback.Violations)
	}
}
