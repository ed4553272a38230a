package di

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/YoshitsuguKoike/billrecon/internal/adapter/controller/httpapi"
	storagegateway "github.com/YoshitsuguKoike/billrecon/internal/adapter/gateway/storage"
	"github.com/YoshitsuguKoike/billrecon/internal/adapter/presenter"
	"github.com/YoshitsuguKoike/billrecon/internal/app"
	appconfig "github.com/YoshitsuguKoike/billrecon/internal/app/config"
	"github.com/YoshitsuguKoike/billrecon/internal/application/port/input"
	"github.com/YoshitsuguKoike/billrecon/internal/application/port/output"
	"github.com/YoshitsuguKoike/billrecon/internal/application/service"
	"github.com/YoshitsuguKoike/billrecon/internal/application/usecase/reconcile"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/repository"
	sqliterepo "github.com/YoshitsuguKoike/billrecon/internal/infrastructure/persistence/sqlite"
	"github.com/YoshitsuguKoike/billrecon/internal/infrastructure/repository/mock"
	"github.com/YoshitsuguKoike/billrecon/internal/infrastructure/transaction"
)

// ArchiveMemory keeps reports in process memory; only useful for tests and demos
const ArchiveMemory = "memory"

// Container is the DI container that holds all dependencies
// This implements manual dependency injection for Clean Architecture
type Container struct {
	// Infrastructure Layer - Database (nil for the memory store)
	db *sql.DB

	// Infrastructure Layer - Repositories
	workItemRepo repository.WorkItemRepository
	projectRepo  repository.ProjectRepository
	rateRepo     repository.RateRepository
	expenseRepo  repository.ExpenseRepository
	runLockRepo  repository.RunLockRepository
	seedRepo     repository.SeedRepository

	// Infrastructure Layer - Gateways
	reportArchive output.ReportArchive

	// Infrastructure Layer - Transaction Manager
	txManager output.TransactionManager

	// Application Layer - Services
	lockService service.LockService

	// Application Layer - Use Cases
	auditUseCase     input.AuditUseCase
	repairUseCase    input.RepairUseCase
	generateUseCase  input.GenerateUseCase
	importUseCase    input.ImportUseCase
	directoryUseCase input.DirectoryUseCase
	reportUseCase    input.ReportUseCase

	// Adapter Layer - Presenters
	presenter output.Presenter

	// Adapter Layer - Controllers
	httpServer *httpapi.Server

	config Config
}

// Config holds configuration for the container
type Config struct {
	Store        string // "sqlite" (default) or "memory"
	DBPath       string // Path to SQLite database file
	OutputFormat string // Output format (cli, json)
	OutputWriter io.Writer
	Logger       app.Logger

	// Billing
	Location         *time.Location // zone of the billing period (default UTC)
	Now              func() time.Time
	FallbackPersonID string

	// Report archive configuration
	ArchiveType string   // "none" (default), "local", "s3" or "memory"
	ArchiveDir  string   // Base directory for the local archive (default: next to the database)
	ArchiveFs   afero.Fs // Filesystem of the local archive (default: OS filesystem)
	S3Bucket    string
	S3Prefix    string
	S3Region    string // optional, uses the SDK default chain if empty

	// Lock Service configuration
	LockTTL               time.Duration // Lease of the period lock (default: 5m)
	LockHeartbeatInterval time.Duration // Heartbeat interval for locks (default: 30s)
	LockCleanupInterval   time.Duration // Cleanup interval for expired locks (default: 60s)

	// HTTP API configuration
	HTTP httpapi.Settings
}

// ConfigFromApp maps the loaded application settings onto a container Config
func ConfigFromApp(cfg appconfig.Config) (Config, error) {
	loc, err := time.LoadLocation(cfg.Timezone())
	if err != nil {
		return Config{}, fmt.Errorf("load timezone %q: %w", cfg.Timezone(), err)
	}
	return Config{
		Store:                 cfg.Store(),
		DBPath:                cfg.DBPath(),
		OutputFormat:          cfg.OutputFormat(),
		Location:              loc,
		FallbackPersonID:      cfg.FallbackPersonID(),
		ArchiveType:           cfg.ArchiveType(),
		ArchiveDir:            cfg.ArchiveDir(),
		S3Bucket:              cfg.ArchiveS3Bucket(),
		S3Prefix:              cfg.ArchiveS3Prefix(),
		S3Region:              cfg.ArchiveS3Region(),
		LockTTL:               cfg.LockTTL(),
		LockHeartbeatInterval: cfg.LockHeartbeat(),
		HTTP:                  httpapi.Settings{Addr: cfg.HTTPAddr()},
	}, nil
}

// NewContainer creates and initializes the DI container
func NewContainer(config Config) (*Container, error) {
	c := &Container{
		config: config,
	}

	if c.config.OutputWriter == nil {
		c.config.OutputWriter = os.Stdout
	}
	if c.config.Logger == nil {
		c.config.Logger = app.GetLogger()
	}

	// Initialize dependencies in dependency order
	if err := c.initializeInfrastructure(); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize infrastructure: %w", err)
	}

	if err := c.initializeApplication(); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}

	if err := c.initializeAdapters(); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize adapters: %w", err)
	}

	return c, nil
}

// initializeInfrastructure initializes infrastructure layer components
func (c *Container) initializeInfrastructure() error {
	switch c.config.Store {
	case "", appconfig.StoreSQLite:
		if err := c.initializeSQLite(); err != nil {
			return err
		}
	case appconfig.StoreMemory:
		c.initializeMemory()
	default:
		return fmt.Errorf("unknown store type: %s", c.config.Store)
	}

	return c.initializeArchive()
}

func (c *Container) initializeSQLite() error {
	dbPath := c.config.DBPath
	if dbPath == "" {
		return fmt.Errorf("database path is required for the sqlite store")
	}
	if dbPath != sqliterepo.MemoryDSN {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Open applies migrations
	db, err := sqliterepo.Open(dbPath)
	if err != nil {
		return err
	}
	c.db = db

	c.workItemRepo = sqliterepo.NewWorkItemRepository(db)
	c.projectRepo = sqliterepo.NewProjectRepository(db)
	c.rateRepo = sqliterepo.NewRateRepository(db)
	c.expenseRepo = sqliterepo.NewExpenseRepository(db)
	c.runLockRepo = sqliterepo.NewRunLockRepository(db)
	c.seedRepo = sqliterepo.NewSeedRepository(db)
	c.txManager = transaction.NewSQLiteTransactionManager(db)
	return nil
}

func (c *Container) initializeMemory() {
	items := mock.NewMockWorkItemRepository()
	projects := mock.NewMockProjectRepository()

	c.workItemRepo = items
	c.projectRepo = projects
	c.rateRepo = mock.NewMockRateRepository()
	c.expenseRepo = mock.NewMockExpenseRepository()
	c.runLockRepo = mock.NewMockRunLockRepository()
	c.seedRepo = mock.NewMockSeedRepository(items, projects)
	c.txManager = transaction.NewMockTransactionManager()
}

func (c *Container) initializeArchive() error {
	switch c.config.ArchiveType {
	case "", appconfig.ArchiveNone:
		c.reportArchive = nil

	case appconfig.ArchiveLocal:
		baseDir := c.config.ArchiveDir
		if baseDir == "" {
			// Default to same directory as database
			baseDir = filepath.Dir(c.config.DBPath)
		}
		fs := c.config.ArchiveFs
		if fs == nil {
			fs = afero.NewOsFs()
		}
		archive, err := storagegateway.NewLocalReportArchive(fs, baseDir)
		if err != nil {
			return fmt.Errorf("failed to create local report archive: %w", err)
		}
		c.reportArchive = archive

	case appconfig.ArchiveS3:
		if c.config.S3Bucket == "" {
			return fmt.Errorf("S3 bucket name is required for the S3 archive")
		}
		archive, err := storagegateway.NewS3ReportArchive(context.Background(), storagegateway.S3Config{
			BucketName: c.config.S3Bucket,
			Prefix:     c.config.S3Prefix,
			Region:     c.config.S3Region,
		})
		if err != nil {
			return fmt.Errorf("failed to create S3 report archive: %w", err)
		}
		c.reportArchive = archive

	case ArchiveMemory:
		c.reportArchive = storagegateway.NewMemoryReportArchive()

	default:
		return fmt.Errorf("unknown archive type: %s", c.config.ArchiveType)
	}
	return nil
}

// initializeApplication initializes application layer components
func (c *Container) initializeApplication() error {
	logger := c.config.Logger

	lockConfig := service.LockServiceConfig{
		HeartbeatInterval: c.config.LockHeartbeatInterval,
		CleanupInterval:   c.config.LockCleanupInterval,
	}
	if lockConfig.HeartbeatInterval == 0 {
		lockConfig.HeartbeatInterval = 30 * time.Second
	}
	if lockConfig.CleanupInterval == 0 {
		lockConfig.CleanupInterval = 60 * time.Second
	}
	c.lockService = service.NewLockService(c.runLockRepo, lockConfig, logger)

	clock := reconcile.Clock{Now: c.config.Now, Location: c.config.Location}

	c.auditUseCase = reconcile.NewAuditUseCase(c.workItemRepo, c.projectRepo, c.rateRepo, c.expenseRepo, clock, logger)
	c.repairUseCase = reconcile.NewRepairUseCase(c.workItemRepo, c.projectRepo, c.reportArchive, logger)
	c.generateUseCase = reconcile.NewGenerateUseCase(
		c.workItemRepo,
		c.projectRepo,
		c.rateRepo,
		c.expenseRepo,
		c.lockService,
		c.reportArchive,
		reconcile.GenerateConfig{
			Clock:            clock,
			LockTTL:          c.config.LockTTL,
			FallbackPersonID: c.config.FallbackPersonID,
		},
		logger,
	)
	c.importUseCase = reconcile.NewImportUseCase(c.seedRepo, c.rateRepo, c.txManager, logger)
	c.directoryUseCase = reconcile.NewDirectoryUseCase(c.rateRepo, c.expenseRepo, clock, logger)
	c.reportUseCase = reconcile.NewReportUseCase(c.reportArchive)

	return nil
}

// initializeAdapters initializes adapter layer components
func (c *Container) initializeAdapters() error {
	switch c.config.OutputFormat {
	case "json":
		c.presenter = presenter.NewJSONPresenter(c.config.OutputWriter)
	case "", "cli":
		c.presenter = presenter.NewCLIPresenter(c.config.OutputWriter)
	default:
		return fmt.Errorf("unknown output format: %s", c.config.OutputFormat)
	}

	c.httpServer = httpapi.NewServer(c.config.HTTP, httpapi.UseCases{
		Audit:     c.auditUseCase,
		Repair:    c.repairUseCase,
		Generate:  c.generateUseCase,
		Directory: c.directoryUseCase,
	}, c.config.Logger)

	return nil
}

// GetAuditUseCase returns the audit use case
func (c *Container) GetAuditUseCase() input.AuditUseCase {
	return c.auditUseCase
}

// GetRepairUseCase returns the repair use case
func (c *Container) GetRepairUseCase() input.RepairUseCase {
	return c.repairUseCase
}

// GetGenerateUseCase returns the generate use case
func (c *Container) GetGenerateUseCase() input.GenerateUseCase {
	return c.generateUseCase
}

// GetImportUseCase returns the fixture import use case
func (c *Container) GetImportUseCase() input.ImportUseCase {
	return c.importUseCase
}

// GetDirectoryUseCase returns the rate directory and ledger use case
func (c *Container) GetDirectoryUseCase() input.DirectoryUseCase {
	return c.directoryUseCase
}

// GetReportUseCase returns the archived report use case
func (c *Container) GetReportUseCase() input.ReportUseCase {
	return c.reportUseCase
}

// GetPresenter returns the presenter
func (c *Container) GetPresenter() output.Presenter {
	return c.presenter
}

// GetReportArchive returns the report archive, nil when archiving is disabled
func (c *Container) GetReportArchive() output.ReportArchive {
	return c.reportArchive
}

// GetLockService returns the lock service
func (c *Container) GetLockService() service.LockService {
	return c.lockService
}

// GetHTTPServer returns the HTTP API server (not started)
func (c *Container) GetHTTPServer() *httpapi.Server {
	return c.httpServer
}

// Start starts background services (Lock Service, etc.)
func (c *Container) Start(ctx context.Context) error {
	if err := c.lockService.Start(ctx); err != nil {
		return fmt.Errorf("failed to start lock service: %w", err)
	}
	return nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(context.Background()); err != nil {
			c.config.Logger.Warn("failed to stop HTTP server: %v", err)
		}
	}

	if c.lockService != nil {
		if err := c.lockService.Stop(); err != nil {
			// Log error but continue closing other resources
			c.config.Logger.Warn("failed to stop lock service: %v", err)
		}
	}

	if c.db != nil {
		err := c.db.Close()
		c.db = nil
		return err
	}
	return nil
}
