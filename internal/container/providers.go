package container

import (
	"fmt"
	"net/http"

	"github.com/garyjia/pt-logbook/internal/application/port"
	"github.com/garyjia/pt-logbook/internal/application/service"
	"github.com/garyjia/pt-logbook/internal/infrastructure/diagram"
	"github.com/garyjia/pt-logbook/internal/infrastructure/external/openai"
	"github.com/garyjia/pt-logbook/internal/infrastructure/metrics"
	"github.com/garyjia/pt-logbook/internal/infrastructure/persistence/repository"
	"github.com/garyjia/pt-logbook/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/pt-logbook/internal/infrastructure/storage"
	"github.com/garyjia/pt-logbook/internal/infrastructure/worker"
	"github.com/garyjia/pt-logbook/internal/logbook"
	"github.com/garyjia/pt-logbook/pkg/database"
	"go.uber.org/zap"
)

// DatabaseBundle holds database-related components.
type DatabaseBundle struct {
	DB             *database.DB
	TransactionMgr *sqlite.DB
}

// ExternalBundle holds optional collaborators outside the process.
type ExternalBundle struct {
	// Summarizer is nil when no OpenAI key is configured
	Summarizer port.ActivitySummarizer
	Rasterizer port.DiagramRasterizer
}

// MetricsBundle holds the metrics recorder and its HTTP handler.
type MetricsBundle struct {
	Recorder port.MetricsRecorder
	Handler  http.Handler
}

// ProvideDatabase opens the database, applies migrations and creates the
// transaction manager.
func ProvideDatabase(cfg *DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	db, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	migrator := database.NewMigrator(db, logger)
	if cfg.MigrationsDir != "" {
		err = migrator.RunMigrationsFromDir(cfg.MigrationsDir)
	} else {
		err = migrator.RunMigrations(database.EmbeddedMigrations())
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DatabaseBundle{
		DB:             db,
		TransactionMgr: sqlite.NewDB(db.DB, logger),
	}, nil
}

// ProvideRepositories creates all repositories from a database connection.
func ProvideRepositories(db *database.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &RepositoryBundle{
		User:      repository.NewUserRepository(db.DB, logger),
		Session:   repository.NewSessionRepository(db.DB, logger),
		Student:   repository.NewStudentRepository(db.DB, logger),
		Logbook:   repository.NewLogbookRepository(db.DB, logger),
		Entry:     repository.NewEntryRepository(db.DB, logger),
		Operation: repository.NewOperationRepository(db.DB, logger),
		Document:  repository.NewDocumentRepository(db.DB, logger),
	}, nil
}

// ProvideExternal creates the OpenAI summarizer and the PDF rasterizer.
func ProvideExternal(cfg *OpenAIConfig, logbookCfg *LogbookConfig, logger *zap.Logger) (*ExternalBundle, error) {
	if cfg == nil || logbookCfg == nil {
		return nil, fmt.Errorf("openai and logbook config are required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	bundle := &ExternalBundle{
		Rasterizer: diagram.NewRasterizer(logbookCfg.DiagramDPI, logger),
	}
	if cfg.APIKey == "" {
		logger.Info("OpenAI API key not set, week summaries disabled")
		return bundle, nil
	}

	summarizer, err := openai.NewSummarizer(openai.Config{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.Timeout,
		PromptsPath: cfg.PromptsPath,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create summarizer: %w", err)
	}
	bundle.Summarizer = summarizer
	return bundle, nil
}

// ProvideStorage creates the media file storage.
func ProvideStorage(cfg *StorageConfig, logger *zap.Logger) (port.FileStorage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("storage config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return storage.NewLocalFileStorage(cfg.MediaDir, logger), nil
}

// ProvideBuilder creates the logbook document builder.
func ProvideBuilder(cfg *LogbookConfig, logger *zap.Logger) (*logbook.Builder, error) {
	if cfg == nil {
		return nil, fmt.Errorf("logbook config is required")
	}
	return logbook.NewBuilder(cfg.BuilderConfig(), logger)
}

// ProvideMetrics creates the Prometheus recorder on its own registry.
func ProvideMetrics() *MetricsBundle {
	recorder := metrics.NewPrometheusRecorder(nil)
	return &MetricsBundle{
		Recorder: recorder,
		Handler:  recorder.Handler(),
	}
}

// ServiceDeps holds dependencies required for creating services.
type ServiceDeps struct {
	Repos          *RepositoryBundle
	TxManager      port.TransactionManager
	Storage        port.FileStorage
	Builder        port.LogbookBuilder
	External       *ExternalBundle
	Metrics        port.MetricsRecorder
	AuthCfg        *AuthConfig
	DefaultDiagram string
	Logger         *zap.Logger
}

// ProvideServices creates all application services.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil {
		return nil, fmt.Errorf("service dependencies are required")
	}
	if deps.Repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if deps.TxManager == nil {
		return nil, fmt.Errorf("transaction manager is required")
	}
	if deps.Builder == nil {
		return nil, fmt.Errorf("logbook builder is required")
	}
	if deps.External == nil {
		deps.External = &ExternalBundle{}
	}
	if deps.AuthCfg == nil {
		return nil, fmt.Errorf("auth config is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	serviceLogger := &zapLoggerAdapter{logger: deps.Logger}
	repos := deps.Repos

	return &ServiceBundle{
		Auth: service.NewAuthService(
			repos.User,
			repos.Session,
			deps.AuthCfg.SessionTTL,
			serviceLogger,
		),
		Profile: service.NewProfileService(
			repos.User,
			repos.Student,
			deps.TxManager,
			deps.AuthCfg.University,
			serviceLogger,
		),
		Logbook: service.NewLogbookService(
			repos.Student,
			repos.Logbook,
			repos.Entry,
			repos.Operation,
			deps.Storage,
			deps.External.Rasterizer,
			deps.External.Summarizer,
			deps.Metrics,
			serviceLogger,
		),
		Entry: service.NewEntryService(
			repos.Student,
			repos.Logbook,
			repos.Entry,
			deps.TxManager,
			serviceLogger,
		),
		Operation: service.NewOperationService(
			repos.Student,
			repos.Logbook,
			repos.Operation,
			serviceLogger,
		),
		Document: service.NewDocumentService(
			repos.Student,
			repos.Logbook,
			repos.Entry,
			repos.Operation,
			repos.Document,
			deps.TxManager,
			deps.Storage,
			deps.Builder,
			deps.DefaultDiagram,
			deps.Metrics,
			serviceLogger,
		),
	}, nil
}

// ProvideWorkers creates and registers all background workers.
// Returns *worker.WorkerManager with all workers registered but not started.
func ProvideWorkers(repos *RepositoryBundle, cfg *RetentionConfig, logger *zap.Logger) (*worker.WorkerManager, error) {
	if repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("retention config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	manager := worker.NewWorkerManager(logger)
	manager.Register(worker.NewRetentionWorker(worker.RetentionConfig{
		Interval:       cfg.SweepInterval,
		DocumentMaxAge: cfg.DocumentMaxAge,
	}, repos.Session, repos.Document, logger))

	return manager, nil
}
