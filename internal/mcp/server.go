// Package mcp exposes enforcement as Model Context Protocol tools so
// agent hosts can check capability access, inspect logs and drive
// migrations over stdio.
package mcp

import (
	"context"
	"fmt"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/axiomframework/axiomguard/internal/access"
	"github.com/axiomframework/axiomguard/internal/alert"
	"github.com/axiomframework/axiomguard/internal/audit"
	"github.com/axiomframework/axiomguard/internal/catalog"
	"github.com/axiomframework/axiomguard/internal/enforce"
	"github.com/axiomframework/axiomguard/internal/migrate"
	"github.com/axiomframework/axiomguard/internal/model"
)

// Config holds MCP server configuration.
type Config struct {
	ConfigPath   string
	AuditLogPath string
	AuditDBPath  string
	Logger       *zap.Logger
}

// Server wraps the MCP SDK server with axiomguard enforcement.
type Server struct {
	mcpServer  *mcpsdk.Server
	engine     *enforce.Enforcer
	planner    *migrate.Planner
	dispatcher *alert.Dispatcher
	auditLog   *audit.Log
	store      *audit.Store
	log        *zap.Logger
	configPath string
	mu         sync.Mutex
}

// New creates an MCP server with loaded configuration, the built-in
// capability table and tools registered.
func New(cfg Config) (*Server, error) {
	configPath := cfg.ConfigPath
	if configPath == "" {
		configPath = enforce.DefaultConfigPath()
	}

	enforceCfg, err := enforce.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	validator := access.New(catalog.New())
	engine := enforce.New(validator,
		enforce.WithConfig(enforceCfg),
		enforce.WithLogger(log),
	)

	s := &Server{
		engine:     engine,
		planner:    migrate.NewPlanner(validator.Registry(), migrate.WithLogger(log)),
		dispatcher: alert.NewDispatcher(enforceCfg.Alerts),
		log:        log,
		configPath: configPath,
	}

	if cfg.AuditLogPath != "" {
		s.auditLog, err = audit.Open(cfg.AuditLogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open audit log: %w", err)
		}
		engine.AddLogObserver(s.auditLog.Observer(func(err error) {
			log.Warn("audit append failed", zap.Error(err))
		}))
	}

	if cfg.AuditDBPath != "" {
		s.store, err = audit.OpenStore(cfg.AuditDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open audit store: %w", err)
		}
		engine.AddLogObserver(s.store.Observer(func(err error) {
			log.Warn("audit store write failed", zap.Error(err))
		}))
	}

	// The callback reads the dispatcher through the server so Reload
	// can swap alert destinations without re-registering.
	engine.AddViolationCallback(func(v model.Violation) {
		s.mu.Lock()
		d := s.dispatcher
		s.mu.Unlock()
		d.Dispatch(alert.FromViolation(v))
	})

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "axiomguard",
			Version: "0.1.0",
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport. Blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Close closes the audit sinks if configured.
func (s *Server) Close() error {
	var firstErr error
	if s.auditLog != nil {
		firstErr = s.auditLog.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Reload re-reads the configuration file and applies it to the running
// engine and alert destinations. Audit sinks are unaffected.
func (s *Server) Reload() error {
	cfg, err := enforce.LoadConfig(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}
	s.engine.UpdateConfig(cfg)

	s.mu.Lock()
	s.dispatcher = alert.NewDispatcher(cfg.Alerts)
	s.mu.Unlock()

	s.log.Info("configuration reloaded",
		zap.String("path", s.configPath),
		zap.String("policy", string(cfg.Policy)),
	)
	return nil
}

// registerTools adds all axiomguard tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "axiom_check",
		Description: "Check capability access for a component. Denied accesses return an error with the reason.",
	}, s.handleCheck)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "axiom_view_check",
		Description: "Check whether a view component may observe a context. Denied observations return an error with the reason.",
	}, s.handleViewCheck)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "axiom_stats",
		Description: "Report enforcement statistics: accesses, violations, violation rate and health.",
	}, s.handleStats)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "axiom_logs",
		Description: "Return recorded enforcement decisions, newest last, optionally violations only.",
	}, s.handleLogs)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "axiom_catalog",
		Description: "List classified capabilities with category and domain, optionally filtered.",
	}, s.handleCatalog)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "axiom_migration_plan",
		Description: "Create a migration plan from the pending reclassification backlog without executing it.",
	}, s.handleMigrationPlan)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "axiom_migrate",
		Description: "Execute the migration backlog, or a single capability migration. Item failures are reported, never aborted on.",
	}, s.handleMigrate)
}
