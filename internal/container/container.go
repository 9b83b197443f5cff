package container

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/garyjia/pt-logbook/internal/application/port"
	"github.com/garyjia/pt-logbook/internal/application/service"
	"github.com/garyjia/pt-logbook/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/pt-logbook/internal/infrastructure/worker"
	httpapi "github.com/garyjia/pt-logbook/internal/interfaces/http"
	"github.com/garyjia/pt-logbook/internal/logbook"
	"github.com/garyjia/pt-logbook/pkg/database"
	"go.uber.org/zap"
)

// Container manages all application dependencies and lifecycle.
// It follows Clean Architecture principles with ordered initialization
// and reverse-order teardown.
type Container struct {
	config *Config
	logger *zap.Logger

	// Infrastructure - Data
	database     *database.DB
	db           *sqlite.DB
	repositories *RepositoryBundle

	// Infrastructure - External
	external *ExternalBundle
	metrics  *MetricsBundle

	// Infrastructure - Storage and documents
	fileStorage port.FileStorage
	builder     *logbook.Builder

	// Application
	services *ServiceBundle

	// Workers
	workers *worker.WorkerManager

	// Lifecycle
	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	ready  atomic.Bool
	closed atomic.Bool
}

// RepositoryBundle groups all repositories for convenient access.
type RepositoryBundle struct {
	User      port.UserRepository
	Session   port.SessionRepository
	Student   port.StudentRepository
	Logbook   port.LogbookRepository
	Entry     port.EntryRepository
	Operation port.OperationRepository
	Document  port.DocumentRepository
}

// ServiceBundle groups all application services.
type ServiceBundle struct {
	Auth      service.AuthService
	Profile   service.ProfileService
	Logbook   service.LogbookService
	Entry     service.EntryService
	Operation service.OperationService
	Document  service.DocumentService
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components and begins processing.
// Components are initialized in dependency order:
// 1. Database and repositories
// 2. External collaborators (OpenAI, rasterizer) and metrics
// 3. Storage and document builder
// 4. Application services
// 5. Workers
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}

	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)
	c.logger.Info("Starting container initialization")

	// Step 1: Initialize database and repositories
	if err := c.initDatabase(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.logger.Info("Database initialized")

	// Step 2: Initialize external collaborators
	if err := c.initExternal(); err != nil {
		c.database.Close()
		return fmt.Errorf("failed to initialize external clients: %w", err)
	}
	c.logger.Info("External clients initialized")

	// Step 3: Initialize storage and builder
	if err := c.initStorage(); err != nil {
		c.database.Close()
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	c.logger.Info("Storage initialized")

	// Step 4: Initialize application services
	if err := c.initServices(); err != nil {
		c.database.Close()
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	c.logger.Info("Application services initialized")

	// Step 5: Initialize and start workers
	if err := c.initWorkers(); err != nil {
		c.database.Close()
		return fmt.Errorf("failed to initialize workers: %w", err)
	}
	c.logger.Info("Workers initialized and started")

	c.ready.Store(true)
	c.logger.Info("Container started successfully")

	return nil
}

// Close gracefully shuts down all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")

	var errs []error

	if c.cancel != nil {
		c.cancel()
	}

	// Step 1: Stop workers (reverse of step 5)
	if c.workers != nil {
		if err := c.workers.StopAll(); err != nil {
			c.logger.Error("Failed to stop workers", zap.Error(err))
			errs = append(errs, fmt.Errorf("stop workers: %w", err))
		} else {
			c.logger.Info("Workers stopped")
		}
	}

	// Steps 2-4: services, storage and external clients hold no resources

	// Step 5: Close database (reverse of step 1)
	if c.database != nil {
		if err := c.database.Close(); err != nil {
			c.logger.Error("Failed to close database", zap.Error(err))
			errs = append(errs, fmt.Errorf("close database: %w", err))
		} else {
			c.logger.Info("Database closed")
		}
	}

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		c.logger.Error("Container closed with errors", zap.Int("error_count", len(errs)))
		return fmt.Errorf("container closed with %d errors", len(errs))
	}

	c.logger.Info("Container closed successfully")
	return nil
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components.
func (c *Container) Health() *HealthStatus {
	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}

	// Check database
	if c.database != nil {
		if err := c.database.Ping(); err != nil {
			status.Components["database"] = ComponentHealth{
				Healthy: false,
				Message: fmt.Sprintf("ping failed: %v", err),
			}
			status.Overall = false
		} else {
			status.Components["database"] = ComponentHealth{Healthy: true}
		}
	} else {
		status.Components["database"] = ComponentHealth{
			Healthy: false,
			Message: "not initialized",
		}
		status.Overall = false
	}

	// Check workers
	if c.workers != nil {
		status.Components["workers"] = ComponentHealth{
			Healthy: c.workers.IsRunning(),
			Message: fmt.Sprintf("worker count: %d", c.workers.GetWorkerCount()),
		}
		if !c.workers.IsRunning() {
			status.Overall = false
		}
	} else {
		status.Components["workers"] = ComponentHealth{
			Healthy: false,
			Message: "not initialized",
		}
		status.Overall = false
	}

	// The summarizer is optional; its absence is reported but not fatal
	if c.external != nil && c.external.Summarizer != nil {
		status.Components["summarizer"] = ComponentHealth{Healthy: true}
	} else {
		status.Components["summarizer"] = ComponentHealth{
			Healthy: true,
			Message: "disabled",
		}
	}

	return status
}

func (c *Container) initDatabase() error {
	dbBundle, err := ProvideDatabase(&c.config.Database, c.logger)
	if err != nil {
		return err
	}

	c.database = dbBundle.DB
	c.db = dbBundle.TransactionMgr

	repos, err := ProvideRepositories(c.database, c.logger)
	if err != nil {
		c.database.Close()
		return err
	}

	c.repositories = repos
	return nil
}

func (c *Container) initExternal() error {
	external, err := ProvideExternal(&c.config.OpenAI, &c.config.Logbook, c.logger)
	if err != nil {
		return err
	}
	c.external = external
	c.metrics = ProvideMetrics()
	return nil
}

func (c *Container) initStorage() error {
	fileStorage, err := ProvideStorage(&c.config.Storage, c.logger)
	if err != nil {
		return err
	}
	c.fileStorage = fileStorage

	builder, err := ProvideBuilder(&c.config.Logbook, c.logger)
	if err != nil {
		return err
	}
	c.builder = builder
	return nil
}

func (c *Container) initServices() error {
	services, err := ProvideServices(&ServiceDeps{
		Repos:          c.repositories,
		TxManager:      c.db,
		Storage:        c.fileStorage,
		Builder:        c.builder,
		External:       c.external,
		Metrics:        c.metrics.Recorder,
		AuthCfg:        &c.config.Auth,
		DefaultDiagram: c.config.Logbook.DefaultDiagram,
		Logger:         c.logger,
	})
	if err != nil {
		return err
	}

	c.services = services
	return nil
}

func (c *Container) initWorkers() error {
	workers, err := ProvideWorkers(c.repositories, &c.config.Retention, c.logger)
	if err != nil {
		return err
	}
	c.workers = workers

	if err := c.workers.StartAll(c.ctx); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}

	return nil
}

// Getters for accessing container components

// DB returns the transaction manager.
func (c *Container) DB() port.TransactionManager {
	return c.db
}

// Repositories returns all repositories.
func (c *Container) Repositories() *RepositoryBundle {
	return c.repositories
}

// FileStorage returns the media file storage.
func (c *Container) FileStorage() port.FileStorage {
	return c.fileStorage
}

// Builder returns the logbook document builder.
func (c *Container) Builder() *logbook.Builder {
	return c.builder
}

// Services returns all application services.
func (c *Container) Services() *ServiceBundle {
	return c.services
}

// HTTPServices returns the services in the shape the HTTP layer expects.
func (c *Container) HTTPServices() httpapi.Services {
	return httpapi.Services{
		Auth:      c.services.Auth,
		Profile:   c.services.Profile,
		Logbook:   c.services.Logbook,
		Entry:     c.services.Entry,
		Operation: c.services.Operation,
		Document:  c.services.Document,
	}
}

// HTTPServerConfig derives the HTTP server settings.
func (c *Container) HTTPServerConfig() httpapi.ServerConfig {
	cfg := httpapi.DefaultServerConfig()
	cfg.Host = c.config.Server.Host
	cfg.Port = c.config.Server.Port
	if c.config.Server.ReadTimeout > 0 {
		cfg.ReadTimeout = c.config.Server.ReadTimeout
	}
	if c.config.Server.WriteTimeout > 0 {
		cfg.WriteTimeout = c.config.Server.WriteTimeout
	}
	if c.config.Server.MaxUploadBytes > 0 {
		cfg.MaxUploadBytes = c.config.Server.MaxUploadBytes
	}
	if c.config.Auth.CookieName != "" {
		cfg.SessionCookie = c.config.Auth.CookieName
	}
	cfg.SecureCookies = c.config.Auth.SecureCookies
	return cfg
}

// MetricsHandler returns the Prometheus scrape handler.
func (c *Container) MetricsHandler() http.Handler {
	if c.metrics == nil {
		return nil
	}
	return c.metrics.Handler
}

// Workers returns the worker manager.
func (c *Container) Workers() *worker.WorkerManager {
	return c.workers
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// ServiceLogger returns the container's logger behind the key/value interface.
func (c *Container) ServiceLogger() service.Logger {
	return &zapLoggerAdapter{logger: c.logger}
}

// Config returns the container's configuration.
func (c *Container) Config() *Config {
	return c.config
}

// zapLoggerAdapter adapts zap.Logger to the service.Logger interface.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	fields := convertToZapFields(keysAndValues...)
	a.logger.Info(msg, fields...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	fields := convertToZapFields(keysAndValues...)
	a.logger.Error(msg, fields...)
}

// convertToZapFields converts key-value pairs to zap fields.
func convertToZapFields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
