package axiomguard

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/axiomframework/axiomguard/internal/access"
	"github.com/axiomframework/axiomguard/internal/alert"
	"github.com/axiomframework/axiomguard/internal/audit"
	"github.com/axiomframework/axiomguard/internal/catalog"
	"github.com/axiomframework/axiomguard/internal/enforce"
	"github.com/axiomframework/axiomguard/internal/model"
)

// Client owns the enforcement engine and its optional audit sinks and
// alert dispatcher. Thread-safe for concurrent checks.
type Client struct {
	engine     *enforce.Enforcer
	dispatcher *alert.Dispatcher
	auditLog   *audit.Log
	store      *audit.Store
	log        *zap.Logger
}

// New creates a Client with the given options.
func New(opts ...Option) (*Client, error) {
	var cfg clientConfig
	for _, o := range opts {
		o(&cfg)
	}

	log := cfg.logger
	if log == nil {
		log = zap.NewNop()
	}

	enforceCfg, err := resolveConfig(cfg)
	if err != nil {
		return nil, err
	}
	if err := enforceCfg.Validate(); err != nil {
		return nil, fmt.Errorf("axiomguard: invalid config: %w", err)
	}

	reg := cfg.registry
	if reg == nil {
		reg = catalog.New()
	}

	c := &Client{
		engine: enforce.New(access.New(reg),
			enforce.WithConfig(enforceCfg),
			enforce.WithLogger(log)),
		log: log,
	}

	alerts := append(append([]AlertConfig{}, enforceCfg.Alerts...), cfg.alerts...)
	if len(alerts) > 0 {
		c.dispatcher = alert.NewDispatcher(alerts)
		c.engine.AddViolationCallback(c.dispatcher.Callback())
	}

	if cfg.auditLogPath != "" {
		l, err := audit.Open(cfg.auditLogPath)
		if err != nil {
			return nil, fmt.Errorf("axiomguard: failed to open audit log: %w", err)
		}
		c.auditLog = l
		c.engine.AddLogObserver(l.Observer(func(err error) {
			log.Warn("audit append failed", zap.Error(err))
		}))
	}

	if cfg.auditDBPath != "" {
		s, err := audit.OpenStore(cfg.auditDBPath)
		if err != nil {
			if c.auditLog != nil {
				c.auditLog.Close()
			}
			return nil, fmt.Errorf("axiomguard: failed to open audit store: %w", err)
		}
		c.store = s
		c.engine.AddLogObserver(s.Observer(func(err error) {
			log.Warn("audit store write failed", zap.Error(err))
		}))
	}

	return c, nil
}

// resolveConfig applies the option precedence: explicit config, then
// config file, then preset, then production defaults.
func resolveConfig(cfg clientConfig) (Config, error) {
	switch {
	case cfg.cfg != nil:
		return *cfg.cfg, nil
	case cfg.configFile != "":
		loaded, err := enforce.LoadConfig(cfg.configFile)
		if err != nil {
			return Config{}, fmt.Errorf("axiomguard: failed to load config: %w", err)
		}
		return loaded, nil
	case cfg.presetName != "":
		preset, ok := enforce.Preset(cfg.presetName)
		if !ok {
			return Config{}, fmt.Errorf("axiomguard: unknown preset %q", cfg.presetName)
		}
		return preset, nil
	}
	return enforce.DefaultConfig(), nil
}

// RequestCapabilityAccess checks whether component may use capability,
// stamping the caller's source location on the recorded attempt. The
// typed denial error is returned unchanged under every violation
// policy.
func (c *Client) RequestCapabilityAccess(component Component, capability CapabilityID) error {
	return c.engine.EnforceCapabilityAccess(capability, component, model.CaptureLocation(1))
}

// RequestViewObservation checks whether view may observe the context,
// stamping the caller's source location on the recorded attempt.
func (c *Client) RequestViewObservation(view ViewComponent, ctx ContextID) error {
	return c.engine.EnforceViewAccess(view, ctx, model.CaptureLocation(1))
}

// ValidateDependency checks a declared dependency edge between two
// component categories. A pure check: nothing is logged or recorded,
// the engine state does not change. Cross-category edges and edges
// touching an unclassified component return a *DependencyError.
func (c *Client) ValidateDependency(parent, dependency Category) error {
	return c.engine.Validator().ValidateDependency(parent, dependency)
}

// Stats returns a snapshot of enforcement statistics.
func (c *Client) Stats() Statistics {
	return c.engine.Stats()
}

// Logs returns recorded decisions at or after since. A zero time
// returns the full log.
func (c *Client) Logs(since time.Time) []LogEntry {
	if since.IsZero() {
		return c.engine.Logs()
	}
	return c.engine.LogsSince(since)
}

// UpdateConfig replaces the enforcement configuration at runtime.
// Registered sinks and callbacks are unaffected.
func (c *Client) UpdateConfig(cfg Config) {
	c.engine.UpdateConfig(cfg)
}

// Config returns the current enforcement configuration.
func (c *Client) Config() Config {
	return c.engine.Config()
}

// SetActive toggles enforcement. While inactive every check succeeds
// and nothing is recorded.
func (c *Client) SetActive(active bool) {
	c.engine.SetActive(active)
}

// OnViolation registers cb to run for every recorded violation.
// Callbacks cannot veto the decision.
func (c *Client) OnViolation(cb func(Violation)) {
	c.engine.AddViolationCallback(cb)
}

// Close releases the audit sinks. Safe to call on a client without
// sinks; the first error wins.
func (c *Client) Close() error {
	var first error
	if c.auditLog != nil {
		if err := c.auditLog.Close(); err != nil {
			first = err
		}
	}
	if c.store != nil {
		if err := c.store.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
