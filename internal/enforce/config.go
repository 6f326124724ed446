package enforce

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/axiomframework/axiomguard/internal/alert"
	"github.com/axiomframework/axiomguard/internal/model"
)

// Config holds all configurable enforcement parameters.
type Config struct {
	// Policy selects the side effect applied on violations. Every
	// policy still surfaces the error to the caller.
	Policy model.ViolationPolicy `yaml:"policy"`
	// EnableLogging gates allowed-access log lines. Violation side
	// effects are never gated: a warn policy warns even when routine
	// logging is off.
	EnableLogging        bool `yaml:"enable_logging"`
	EnableVerboseLogging bool `yaml:"enable_verbose_logging"`
	// EnableMetrics gates per-capability access counters.
	EnableMetrics bool `yaml:"enable_metrics"`
	// EnablePerformanceTracking gates validation timing collection.
	EnablePerformanceTracking bool `yaml:"enable_performance_tracking"`
	// Alerts lists webhook destinations for violation events. The host
	// wires these through a dispatcher; the engine never posts directly.
	Alerts []alert.Config `yaml:"alerts"`
}

// Strict blocks violations loudly: for hosts that want denials
// alerted the moment they happen.
func Strict() Config {
	return Config{
		Policy:                    model.PolicyBlock,
		EnableLogging:             true,
		EnableVerboseLogging:      true,
		EnableMetrics:             true,
		EnablePerformanceTracking: true,
	}
}

// Development warns with full visibility. Crash is deliberately not a
// preset; fail-fast mode is an explicit configuration choice.
func Development() Config {
	return Config{
		Policy:                    model.PolicyWarn,
		EnableLogging:             true,
		EnableVerboseLogging:      true,
		EnableMetrics:             true,
		EnablePerformanceTracking: true,
	}
}

// Production records violations quietly and keeps overhead minimal.
func Production() Config {
	return Config{
		Policy:        model.PolicyLog,
		EnableLogging: true,
		EnableMetrics: true,
	}
}

// DefaultConfig returns the configuration used when nothing else is
// specified.
func DefaultConfig() Config {
	return Production()
}

// Preset returns the named preset configuration.
func Preset(name string) (Config, bool) {
	switch name {
	case "strict":
		return Strict(), true
	case "development":
		return Development(), true
	case "production":
		return Production(), true
	default:
		return Config{}, false
	}
}

// Validate checks the config for values the engine cannot act on.
func (c Config) Validate() error {
	switch c.Policy {
	case model.PolicyLog, model.PolicyWarn, model.PolicyBlock, model.PolicyCrash:
		return nil
	case "":
		return fmt.Errorf("config: policy is required (log, warn, block or crash)")
	default:
		return fmt.Errorf("config: unknown policy %q", c.Policy)
	}
}

// DefaultConfigPath returns ~/.axiomguard/config.yaml, or "" when the
// home directory cannot be resolved.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".axiomguard", "config.yaml")
}

// LoadConfig loads enforcement configuration from a YAML file.
// Empty path falls back to ~/.axiomguard/config.yaml.
// Missing file returns defaults. Invalid YAML returns an error.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath()
		if path == "" {
			return DefaultConfig(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig parses YAML configuration bytes. A `preset` key selects
// the base configuration; explicit fields override it.
func ParseConfig(data []byte) (Config, error) {
	var named struct {
		Preset string `yaml:"preset"`
	}
	if err := yaml.Unmarshal(data, &named); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := DefaultConfig()
	if named.Preset != "" {
		preset, ok := Preset(named.Preset)
		if !ok {
			return Config{}, fmt.Errorf("unknown preset %q (want strict, development or production)", named.Preset)
		}
		cfg = preset
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultConfigYAML returns a commented YAML string for axiomguard init.
func DefaultConfigYAML() string {
	return `# axiomguard enforcement configuration
# Generated by: axiomguard init
#
# preset selects a base configuration:
#   strict      - block policy, verbose, metrics and timing on
#   development - warn policy, verbose, metrics and timing on
#   production  - log policy, terse, metrics only
# Explicit fields below override the preset.
preset: production

# policy: what happens on a violation besides the caller receiving
# the error (the error is always returned, regardless of policy).
#   log   - record only
#   warn  - record and emit a warning
#   block - record and raise an alert
#   crash - record, then terminate the process. Fail-fast for debug
#           builds. Never enable in production.
#policy: block

#enable_logging: true
#enable_verbose_logging: false
#enable_metrics: true
#enable_performance_tracking: false

# alerts: webhook destinations for violation events.
# events entries match the violation type (violation, view_violation)
# or the active policy (warn, block, crash).
#alerts:
#  - url: https://hooks.slack.com/services/T000/B000/XXXX
#    format: slack
#    events: [violation, view_violation]
#  - url: https://events.pagerduty.com/v2/enqueue
#    format: pagerduty
#    events: [crash]
#    headers:
#      Authorization: Token token=example
`
}
