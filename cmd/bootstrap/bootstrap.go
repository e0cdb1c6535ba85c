package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-sync-backend/config"
	deliveryHttp "clinic-sync-backend/internal/delivery/http"
	"clinic-sync-backend/internal/delivery/http/handler"
	"clinic-sync-backend/internal/delivery/http/middleware"
	"clinic-sync-backend/internal/delivery/ws"
	domainRepo "clinic-sync-backend/internal/domain/repository"
	"clinic-sync-backend/internal/infrastructure/cache"
	"clinic-sync-backend/internal/infrastructure/database"
	"clinic-sync-backend/internal/repository"
	"clinic-sync-backend/internal/service"
	"clinic-sync-backend/internal/store"
	"clinic-sync-backend/internal/usecase"
	"clinic-sync-backend/pkg/jwt"
	"clinic-sync-backend/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Store       *store.Store
	SyncService *service.CloudSyncService
	Watcher     *service.FileWatcher
	Backups     *service.BackupService
	Hub         *ws.Hub
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized.
// The document store is mandatory; Postgres and Redis are only dialed
// when cloud sync is enabled, so a single-machine install needs nothing
// but the binary and a data directory.
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()
	log := logrus.StandardLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Load the canonical document
	st := store.New(store.Config{
		Path:                 cfg.Store.Path,
		TemplatesPath:        cfg.Store.TemplatesPath,
		ClinicName:           cfg.Clinic.Name,
		BranchName:           cfg.Clinic.BranchName,
		StartingCode:         cfg.Clinic.StartingCode,
		DefaultAdminPassword: cfg.Clinic.DefaultAdminPassword,
	}, log)
	if err := st.Load(); err != nil {
		return nil, fmt.Errorf("failed to load document store: %w", err)
	}
	app.Store = st
	logrus.Infof("Document store loaded from %s", cfg.Store.Path)

	// Cloud infrastructure, only when sync is enabled
	var snapshots domainRepo.SnapshotRepository
	if cfg.Sync.Enabled {
		db, err := database.NewPostgresConnection(cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		app.DB = db
		logrus.Info("Database connected successfully")

		if err := database.RunMigrations(db); err != nil {
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}

		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		app.RedisClient = redisClient

		snapshots = repository.NewSnapshotRepository(db, redisClient, log, cfg.Sync.DocumentID, cfg.Sync.Channel)
	} else {
		logrus.Info("Cloud sync disabled, running local-only")
	}

	// Sync layer
	notifier := service.NewNotifier()
	syncService := service.NewCloudSyncService(st, snapshots, notifier, log, cfg.Sync.Debounce)
	st.SetAfterSave(syncService.ScheduleSync)
	if err := syncService.Start(); err != nil {
		return nil, fmt.Errorf("failed to start cloud sync: %w", err)
	}
	app.SyncService = syncService

	// Pick up writes from other processes sharing the mirror file
	watcher, err := service.NewFileWatcher(st, notifier, log)
	if err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}
	watcher.Start()
	app.Watcher = watcher

	// Scheduled backups
	if cfg.Backup.Schedule != "" && cfg.Backup.Dir != "" {
		backups := service.NewBackupService(st, log, cfg.Backup.Dir, cfg.Backup.Keep)
		if err := backups.Start(cfg.Backup.Schedule); err != nil {
			return nil, fmt.Errorf("failed to schedule backups: %w", err)
		}
		app.Backups = backups
	}

	// WebSocket event stream
	hub := ws.NewHub(notifier, log)
	hub.Start()
	app.Hub = hub

	// Initialize all layers
	app.Server = initializeServer(cfg, log, st, syncService, hub, app.RedisClient)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func initializeServer(
	cfg *config.Config,
	log *logrus.Logger,
	st *store.Store,
	syncService *service.CloudSyncService,
	hub *ws.Hub,
	redisClient *redis.Client,
) *http.Server {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(st, log, jwtService, redisClient)
	patientUsecase := usecase.NewPatientUsecase(st, log)
	appointmentUsecase := usecase.NewAppointmentUsecase(st, log)
	financeUsecase := usecase.NewFinanceUsecase(st, log)
	queueUsecase := usecase.NewQueueUsecase(st, log)
	userUsecase := usecase.NewUserUsecase(st, log)
	clinicUsecase := usecase.NewClinicUsecase(st, log)
	syncUsecase := usecase.NewSyncUsecase(st, syncService, log)
	backupUsecase := usecase.NewBackupUsecase(st, log)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator, jwtService)
	patientHandler := handler.NewPatientHandler(patientUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	financeHandler := handler.NewFinanceHandler(financeUsecase, customValidator)
	queueHandler := handler.NewQueueHandler(queueUsecase, customValidator)
	userHandler := handler.NewUserHandler(userUsecase, customValidator)
	clinicHandler := handler.NewClinicHandler(clinicUsecase, customValidator)
	syncHandler := handler.NewSyncHandler(syncUsecase)
	backupHandler := handler.NewBackupHandler(backupUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		patientHandler,
		appointmentHandler,
		financeHandler,
		queueHandler,
		userHandler,
		clinicHandler,
		syncHandler,
		backupHandler,
		hub,
		authMiddleware,
		corsMiddleware,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close stops background services and closes connections. Order
// matters: the sync service flushes its pending push before the
// database goes away.
func (app *App) Close() {
	if app.Hub != nil {
		app.Hub.Stop()
	}
	if app.Watcher != nil {
		app.Watcher.Stop()
	}
	if app.Backups != nil {
		app.Backups.Stop()
	}
	if app.SyncService != nil {
		app.SyncService.Stop()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
