package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/catalog"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	auditrepo "github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/database/bookcopies"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/locations"
	http_controllers "github.com/mrlokans/library/internal/http"
	"github.com/mrlokans/library/internal/inventory"
	"github.com/mrlokans/library/internal/logging"
	"github.com/mrlokans/library/internal/maintenance"
	"github.com/mrlokans/library/internal/metrics"
	"github.com/mrlokans/library/internal/scheduler"
	"github.com/mrlokans/library/internal/tasks"
	"github.com/mrlokans/library/internal/telemetry"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, logger logrus.FieldLogger, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		logger.Infof("Starting server at %s", srv.Addr)
		// service connections
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Infof("Shutdown Server, waiting %v before killing", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server Shutdown: %v", err)
	}

	// Background workers stop after the last request has drained
	if onShutdown != nil {
		onShutdown(ctx)
	}

	logger.Info("Server exiting")
}

// Migrate creates or updates the schema and exits.
func Migrate(cfg *config.Config) error {
	logger := logging.New(cfg.Log)

	db, err := database.NewDatabase(cfg.Database, logger)
	if err != nil {
		return err
	}
	return db.Close()
}

func Run(cfg *config.Config, version string) error {
	logger := logging.New(cfg.Log)
	logger.Infof("Starting library inventory v%s", version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	providers, err := telemetry.Setup(ctx, cfg.Telemetry, version)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	// Initialize database
	db, err := database.NewDatabase(cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Errorf("Error closing database: %v", err)
		}
	}()

	libraryMetrics, err := metrics.NewLibraryMetrics(providers.MeterProvider())
	if err != nil {
		return err
	}
	httpMetrics, err := metrics.NewHTTPMetrics(providers.MeterProvider())
	if err != nil {
		return err
	}

	observers := []inventory.Observer{libraryMetrics}
	catalogOpts := []catalog.Option{catalog.WithLogger(logger.WithField("module", "catalog"))}

	var auditService *audit.Service
	if cfg.Audit.Enabled {
		auditService = audit.NewService(auditrepo.NewRepository(db.DB), logger.WithField("module", "audit"))
		observers = append(observers, auditService)
		catalogOpts = append(catalogOpts, catalog.WithAudit(auditService))
	}

	inventoryService := inventory.NewService(db.Repositories(), db,
		inventory.WithObservers(observers...),
		inventory.WithLogger(logger.WithField("module", "inventory")),
	)
	catalogService := catalog.NewService(
		books.NewRepository(db.DB),
		locations.NewRepository(db.DB),
		bookcopies.NewRepository(db.DB),
		catalogOpts...,
	)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	if cfg.Tasks.Enabled && auditService != nil {
		taskClient, err = tasks.NewClient(tasksDBPath(cfg.Database), tasks.ConfigFrom(cfg.Tasks), logger.WithField("module", "tasks"))
		if err != nil {
			return fmt.Errorf("failed to initialize task queue: %w", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				logger.Errorf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(tasks.NewCleanupAuditEventsQueue(auditService, logger.WithField("module", "tasks")))
		taskClient.Start(ctx)
	}

	var cleanupScheduler *scheduler.AuditCleanupScheduler
	if auditService != nil {
		cleanupScheduler = scheduler.NewAuditCleanupScheduler(cfg.Audit.CleanupSchedule,
			auditCleanupJob(auditService, taskClient, cfg.Audit.RetentionDays, logger),
			logger,
		)
		if err := cleanupScheduler.Start(ctx); err != nil {
			return err
		}
	}

	maintenanceMiddleware := maintenance.NewMiddleware(cfg.Maintenance.Enabled)
	if maintenanceMiddleware.IsEnabled() {
		logger.Warn("Maintenance mode enabled - write operations will be rejected")
	}

	// Build router configuration with all dependencies
	routerCfg := http_controllers.RouterConfig{
		Catalog:     catalogService,
		Inventory:   inventoryService,
		Database:    db,
		Logger:      logger,
		Metrics:     httpMetrics,
		Maintenance: maintenanceMiddleware,
		CORS:        cfg.CORS,
		Version:     version,
	}
	if auditService != nil {
		routerCfg.Audit = auditService
	}
	if cfg.Telemetry.Enabled {
		routerCfg.ServiceName = cfg.Telemetry.ServiceName
	}

	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		if cleanupScheduler != nil {
			cleanupScheduler.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
		}
		cancel()
		if auditService != nil {
			auditService.Wait()
		}
		if err := providers.Shutdown(ctx); err != nil {
			logger.Errorf("Error shutting down telemetry: %v", err)
		}
	}

	Serve(router, cfg, logger, onShutdown)
	return nil
}

// auditCleanupJob enqueues the cleanup when the task queue runs, and
// deletes inline otherwise.
func auditCleanupJob(auditService *audit.Service, taskClient *tasks.Client, retentionDays int, logger logrus.FieldLogger) scheduler.Job {
	if taskClient != nil {
		return func(context.Context) error {
			return taskClient.EnqueueAuditCleanup(retentionDays)
		}
	}
	process := tasks.CleanupAuditEventsProcessor(auditService, logger)
	return func(ctx context.Context) error {
		return process(ctx, tasks.CleanupAuditEventsTask{RetentionDays: retentionDays})
	}
}

// tasksDBPath picks the SQLite file the task queue sits next to. With
// MySQL there is no inventory file, so the default path is used.
func tasksDBPath(cfg config.Database) string {
	if cfg.Driver == config.DatabaseDriverMySQL || cfg.Path == "" {
		return config.DefaultDatabasePath
	}
	return cfg.Path
}
