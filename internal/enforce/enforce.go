// Package enforce implements the stateful enforcement engine. It
// wraps the pure access validator with an access log, violation
// callbacks, policy side effects and on-demand statistics. All state
// lives behind one mutex; the engine is safe for concurrent use.
package enforce

import (
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/axiomframework/axiomguard/internal/access"
	"github.com/axiomframework/axiomguard/internal/model"
)

// exitCrash is the exit status used by the crash policy.
const exitCrash = 70 // EX_SOFTWARE

// Performance is a snapshot of validation timing, collected when
// EnablePerformanceTracking is on.
type Performance struct {
	Checks int           `json:"checks"`
	Total  time.Duration `json:"total"`
	Max    time.Duration `json:"max"`
}

// Avg returns the mean validation duration.
func (p Performance) Avg() time.Duration {
	if p.Checks == 0 {
		return 0
	}
	return p.Total / time.Duration(p.Checks)
}

// Enforcer is the enforcement engine. Construct with New and share
// freely; there is no package-global instance.
type Enforcer struct {
	validator *access.Validator
	log       *zap.Logger
	now       func() time.Time
	exit      func(int)

	mu        sync.Mutex
	cfg       Config
	active    bool
	entries   []model.LogEntry
	callbacks []func(model.Violation)
	observers []func(model.LogEntry)
	counts    map[model.CapabilityID]int
	perf      Performance
}

// Option configures an Enforcer.
type Option func(*Enforcer)

// WithConfig sets the initial configuration.
func WithConfig(cfg Config) Option {
	return func(e *Enforcer) { e.cfg = cfg }
}

// WithLogger sets the engine logger. Default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Enforcer) {
		if log != nil {
			e.log = log
		}
	}
}

// WithClock overrides the time source. Test hook.
func WithClock(now func() time.Time) Option {
	return func(e *Enforcer) {
		if now != nil {
			e.now = now
		}
	}
}

// WithExitFunc overrides the process exit used by the crash policy,
// for hosts that must flush state before terminating.
func WithExitFunc(exit func(int)) Option {
	return func(e *Enforcer) {
		if exit != nil {
			e.exit = exit
		}
	}
}

// New creates an active Enforcer around the validator.
func New(validator *access.Validator, opts ...Option) *Enforcer {
	e := &Enforcer{
		validator: validator,
		log:       zap.NewNop(),
		now:       func() time.Time { return time.Now().UTC() },
		exit:      os.Exit,
		cfg:       DefaultConfig(),
		active:    true,
		counts:    make(map[model.CapabilityID]int),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cfg.Policy == "" {
		e.cfg.Policy = model.PolicyLog
	}
	return e
}

// Validator returns the engine's validator for dry-run checks.
func (e *Enforcer) Validator() *access.Validator {
	return e.validator
}

// EnforceCapabilityAccess validates one capability access and records
// the outcome. When the engine is inactive it returns nil without
// validating or logging. The validation error, if any, is always
// returned; the violation policy only adds side effects.
func (e *Enforcer) EnforceCapabilityAccess(capability model.CapabilityID, component model.Component, loc model.SourceLocation) error {
	e.mu.Lock()
	if !e.active {
		e.mu.Unlock()
		return nil
	}

	started := time.Now()
	err := e.validator.ValidateCapabilityAccess(capability, component.Role)
	e.track(capability, time.Since(started))

	attempt := model.AccessAttempt{
		Capability: capability,
		Component:  component.Name,
		Role:       component.Role,
		Location:   loc,
		At:         e.now(),
	}

	if err == nil {
		entry := model.LogEntry{
			At:         attempt.At,
			Type:       model.LogAllowedAccess,
			Capability: capability,
			Component:  component.Name,
			Role:       component.Role,
			Location:   loc,
		}
		e.entries = append(e.entries, entry)
		if e.cfg.EnableLogging && e.cfg.EnableVerboseLogging {
			e.log.Debug("capability access allowed",
				zap.String("capability", string(capability)),
				zap.String("component", component.Name),
				zap.String("role", string(component.Role)),
				zap.String("location", loc.String()),
			)
		}
		observers := append([]func(model.LogEntry)(nil), e.observers...)
		e.mu.Unlock()

		e.observe(entry, observers)
		return nil
	}

	violation, entry := e.recordViolationLocked(attempt, err, model.LogViolation)
	callbacks := append([]func(model.Violation)(nil), e.callbacks...)
	observers := append([]func(model.LogEntry)(nil), e.observers...)
	e.mu.Unlock()

	e.observe(entry, observers)
	e.dispatch(violation, callbacks)
	return err
}

// EnforceViewAccess validates one context observation and records the
// outcome. Same activation and policy semantics as capability access.
func (e *Enforcer) EnforceViewAccess(component model.ViewComponent, ctx model.ContextID, loc model.SourceLocation) error {
	e.mu.Lock()
	if !e.active {
		e.mu.Unlock()
		return nil
	}

	started := time.Now()
	err := e.validator.ValidateViewObservation(component, ctx)
	e.trackDuration(time.Since(started))

	attempt := model.AccessAttempt{
		Context:   ctx,
		Component: component.Name,
		ViewRole:  component.Role,
		Location:  loc,
		At:        e.now(),
	}

	if err == nil {
		entry := model.LogEntry{
			At:        attempt.At,
			Type:      model.LogAllowedViewAccess,
			Context:   ctx,
			Component: component.Name,
			ViewRole:  component.Role,
			Location:  loc,
		}
		e.entries = append(e.entries, entry)
		if e.cfg.EnableLogging && e.cfg.EnableVerboseLogging {
			e.log.Debug("view access allowed",
				zap.String("context", string(ctx)),
				zap.String("component", component.Name),
				zap.String("view_role", string(component.Role)),
			)
		}
		observers := append([]func(model.LogEntry)(nil), e.observers...)
		e.mu.Unlock()

		e.observe(entry, observers)
		return nil
	}

	violation, entry := e.recordViolationLocked(attempt, err, model.LogViewViolation)
	callbacks := append([]func(model.Violation)(nil), e.callbacks...)
	observers := append([]func(model.LogEntry)(nil), e.observers...)
	e.mu.Unlock()

	e.observe(entry, observers)
	e.dispatch(violation, callbacks)
	return err
}

// recordViolationLocked appends the violation entry and builds the
// callback payload. Caller holds the mutex.
func (e *Enforcer) recordViolationLocked(attempt model.AccessAttempt, cause error, lt model.LogType) (model.Violation, model.LogEntry) {
	reason := access.Reason(cause)
	entry := model.LogEntry{
		At:         attempt.At,
		Type:       lt,
		Capability: attempt.Capability,
		Context:    attempt.Context,
		Component:  attempt.Component,
		Role:       attempt.Role,
		ViewRole:   attempt.ViewRole,
		Location:   attempt.Location,
		Detail:     reason,
	}
	e.entries = append(e.entries, entry)
	violation := model.Violation{
		Attempt: attempt,
		Err:     cause,
		Reason:  reason,
		Policy:  e.cfg.Policy,
	}
	return violation, entry
}

// observe feeds one recorded entry to log observers. Runs outside
// the engine lock.
func (e *Enforcer) observe(entry model.LogEntry, observers []func(model.LogEntry)) {
	for _, obs := range observers {
		obs(entry)
	}
}

// dispatch applies callbacks and policy side effects. Runs on the
// calling goroutine outside the engine lock, so callbacks may query
// the engine.
func (e *Enforcer) dispatch(v model.Violation, callbacks []func(model.Violation)) {
	for _, cb := range callbacks {
		cb(v)
	}

	fields := []zap.Field{
		zap.String("capability", string(v.Attempt.Capability)),
		zap.String("context", string(v.Attempt.Context)),
		zap.String("component", v.Attempt.Component),
		zap.String("location", v.Attempt.Location.String()),
		zap.String("reason", v.Reason),
		zap.String("policy", string(v.Policy)),
	}

	switch v.Policy {
	case model.PolicyWarn:
		e.log.Warn("access violation", fields...)
	case model.PolicyBlock:
		e.log.Error("access violation", fields...)
	case model.PolicyCrash:
		e.log.Error("access violation, crash policy terminating process", fields...)
		_ = e.log.Sync()
		e.exit(exitCrash)
	default:
		e.log.Info("access violation", fields...)
	}
}

// track records metrics and timing for one capability check. Caller
// holds the mutex.
func (e *Enforcer) track(capability model.CapabilityID, elapsed time.Duration) {
	if e.cfg.EnableMetrics {
		e.counts[capability]++
	}
	e.trackDuration(elapsed)
}

func (e *Enforcer) trackDuration(elapsed time.Duration) {
	if !e.cfg.EnablePerformanceTracking {
		return
	}
	e.perf.Checks++
	e.perf.Total += elapsed
	if elapsed > e.perf.Max {
		e.perf.Max = elapsed
	}
}

// UpdateConfig replaces the configuration. Takes effect for
// subsequent checks; recorded entries are untouched.
func (e *Enforcer) UpdateConfig(cfg Config) {
	if cfg.Policy == "" {
		cfg.Policy = model.PolicyLog
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg = cfg
}

// Config returns the current configuration.
func (e *Enforcer) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// SetActive toggles enforcement. Inactive engines allow everything
// and record nothing.
func (e *Enforcer) SetActive(active bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = active
}

// Active reports whether enforcement is on.
func (e *Enforcer) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// AddViolationCallback registers a callback invoked for every
// violation. Callbacks run serially on the violating goroutine.
func (e *Enforcer) AddViolationCallback(cb func(model.Violation)) {
	if cb == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.callbacks = append(e.callbacks, cb)
}

// AddLogObserver registers a function invoked for every recorded
// entry, allowed and violating alike. Persistence sinks hang off
// this. Observers run on the calling goroutine outside the lock.
func (e *Enforcer) AddLogObserver(obs func(model.LogEntry)) {
	if obs == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, obs)
}

// Logs returns a copy of the recorded access log.
func (e *Enforcer) Logs() []model.LogEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.LogEntry, len(e.entries))
	copy(out, e.entries)
	return out
}

// LogsSince returns entries recorded at or after t.
func (e *Enforcer) LogsSince(t time.Time) []model.LogEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []model.LogEntry
	for _, entry := range e.entries {
		if !entry.At.Before(t) {
			out = append(out, entry)
		}
	}
	return out
}

// ClearLogs discards recorded entries, metrics and timing.
func (e *Enforcer) ClearLogs() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries = nil
	e.counts = make(map[model.CapabilityID]int)
	e.perf = Performance{}
}

// Stats derives statistics from the recorded log.
func (e *Enforcer) Stats() model.Statistics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return model.ComputeStatistics(e.entries)
}

// Metrics returns per-capability access counts. Empty unless
// EnableMetrics is on.
func (e *Enforcer) Metrics() map[model.CapabilityID]int {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[model.CapabilityID]int, len(e.counts))
	for id, n := range e.counts {
		out[id] = n
	}
	return out
}

// Performance returns the validation timing snapshot. Zero unless
// EnablePerformanceTracking is on.
func (e *Enforcer) Performance() Performance {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.perf
}
