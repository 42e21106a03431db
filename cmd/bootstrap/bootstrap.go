package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hospital-admin/config"
	deliveryHttp "hospital-admin/internal/delivery/http"
	"hospital-admin/internal/delivery/http/handler"
	"hospital-admin/internal/delivery/http/middleware"
	"hospital-admin/internal/engine"
	"hospital-admin/internal/infrastructure/cache"
	"hospital-admin/internal/infrastructure/database"
	"hospital-admin/internal/infrastructure/metrics"
	"hospital-admin/internal/repository"
	"hospital-admin/internal/service"
	"hospital-admin/internal/usecase"
	"hospital-admin/pkg/jwt"
	"hospital-admin/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Engine      *engine.Engine
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Capability table; a broken table aborts startup
	registry, err := loadRegistry(cfg.Policy)
	if err != nil {
		return nil, fmt.Errorf("failed to load capability table: %w", err)
	}
	logrus.Infof("Capability table loaded: %d roles", len(registry.Table()))

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	if err := database.Migrate(db); err != nil {
		return nil, err
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize metrics
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.New(reg)
	}

	// Initialize engine
	app.Engine = engine.New(registry, engine.WithObserver(m))

	// Initialize all layers
	app.Server = initializeServer(cfg, db, redisClient, app.Engine, m)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// loadRegistry builds the registry from POLICY_FILE, or the built-in table when unset
func loadRegistry(cfg config.PolicyConfig) (*engine.Registry, error) {
	table := engine.DefaultTable()
	if cfg.File != "" {
		loaded, err := engine.LoadTable(cfg.File)
		if err != nil {
			return nil, err
		}
		table = loaded
		logrus.Infof("Using capability table from %s", cfg.File)
	}
	return engine.NewRegistry(table)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, eng *engine.Engine, m *metrics.Metrics) *http.Server {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	patientRecordRepo := repository.NewPatientRecordRepository()
	leaveRequestRepo := repository.NewLeaveRequestRepository()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize services
	sessionService := service.NewSessionService(redisClient, log, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, jwtService, sessionService)
	patientRecordUsecase := usecase.NewPatientRecordUsecase(db, log, eng, patientRecordRepo, userRepo)
	leaveRequestUsecase := usecase.NewLeaveRequestUsecase(db, log, eng, leaveRequestRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator, jwtService)
	patientRecordHandler := handler.NewPatientRecordHandler(patientRecordUsecase, customValidator)
	leaveRequestHandler := handler.NewLeaveRequestHandler(leaveRequestUsecase, customValidator)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, sessionService)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(
		eng,
		m,
		cfg.Metrics.Path,
		authHandler,
		patientRecordHandler,
		leaveRequestHandler,
		authMiddleware,
		corsMiddleware,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
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

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
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
