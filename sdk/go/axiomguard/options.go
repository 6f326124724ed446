package axiomguard

import (
	"go.uber.org/zap"

	"github.com/axiomframework/axiomguard/internal/catalog"
	"github.com/axiomframework/axiomguard/internal/enforce"
)

// Option configures a Client at creation time.
type Option func(*clientConfig)

type clientConfig struct {
	cfg          *enforce.Config
	presetName   string
	configFile   string
	auditLogPath string
	auditDBPath  string
	alerts       []AlertConfig
	logger       *zap.Logger
	registry     *catalog.Registry
}

// WithConfig sets the enforcement configuration directly. Takes
// precedence over WithConfigFile and WithPreset.
func WithConfig(cfg Config) Option {
	return func(c *clientConfig) { c.cfg = &cfg }
}

// WithPreset selects a named preset: "strict", "development" or
// "production".
func WithPreset(name string) Option {
	return func(c *clientConfig) { c.presetName = name }
}

// WithConfigFile loads the enforcement configuration from a YAML file.
// A missing file falls back to the production defaults.
func WithConfigFile(path string) Option {
	return func(c *clientConfig) { c.configFile = path }
}

// WithAuditLog appends every decision to a hash-chained JSONL file at
// path.
func WithAuditLog(path string) Option {
	return func(c *clientConfig) { c.auditLogPath = path }
}

// WithAuditStore records every decision to a SQLite database at path.
func WithAuditStore(path string) Option {
	return func(c *clientConfig) { c.auditDBPath = path }
}

// WithAlerts adds webhook destinations for violation events, on top of
// any destinations the loaded configuration declares.
func WithAlerts(alerts ...AlertConfig) Option {
	return func(c *clientConfig) { c.alerts = append(c.alerts, alerts...) }
}

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *clientConfig) { c.logger = log }
}

// WithRegistry replaces the built-in classification table.
func WithRegistry(reg *Registry) Option {
	return func(c *clientConfig) { c.registry = reg }
}
