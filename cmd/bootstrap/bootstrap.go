package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-directory/config"
	deliveryHttp "clinic-directory/internal/delivery/http"
	"clinic-directory/internal/delivery/http/handler"
	"clinic-directory/internal/delivery/http/middleware"
	"clinic-directory/internal/delivery/http/web"
	"clinic-directory/internal/infrastructure/cache"
	"clinic-directory/internal/infrastructure/database"
	"clinic-directory/internal/infrastructure/metrics"
	"clinic-directory/internal/repository"
	"clinic-directory/internal/service"
	"clinic-directory/internal/usecase"
	"clinic-directory/pkg/jwt"
	"clinic-directory/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// App holds all dependencies for the application
type App struct {
	Config        *config.Config
	Log           *logrus.Logger
	DB            *gorm.DB
	RedisClient   *redis.Client
	Registry      *prometheus.Registry
	Server        *http.Server
	MetricsServer *http.Server
}

// New creates an App ready to serve HTTP.
func New() (*App, error) {
	app, err := newBase(os.Stdout)
	if err != nil {
		return nil, err
	}

	server, err := initializeServer(app)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Server = server

	if app.Config.App.MetricsPort != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(app.Registry))
		app.MetricsServer = &http.Server{
			Addr:    fmt.Sprintf(":%s", app.Config.App.MetricsPort),
			Handler: mux,
		}
	}

	return app, nil
}

// NewTooling creates an App for the data subcommands. Logs go to stderr so
// they do not interleave with console output.
func NewTooling() (*App, error) {
	return newBase(os.Stderr)
}

func newBase(logOut io.Writer) (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	app.Log = setupLogger(cfg.App, logOut)
	app.Log.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.IsDevelopment())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	app.Log.Info("Database connected successfully")

	if cfg.DB.AutoMigrate {
		if err := database.RunMigrations(cfg.DB); err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// Redis only backs the listing cache, so the app keeps running without it.
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Log.Warnf("Failed to connect to Redis, listing cache disabled: %+v", err)
	} else {
		app.RedisClient = redisClient
		app.Log.Info("Redis connected successfully")
	}

	app.Registry = metrics.NewRegistry()

	return app, nil
}

// setupLogger configures the standard logrus logger for the environment.
func setupLogger(cfg config.AppConfig, out io.Writer) *logrus.Logger {
	log := logrus.StandardLogger()
	if cfg.IsDevelopment() {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
		log.SetLevel(logrus.InfoLevel)
	}
	log.SetOutput(out)
	return log
}

func (app *App) listingCache() service.ListingCache {
	return service.NewListingCache(app.RedisClient, app.Config.Redis.CacheTTL, app.Log)
}

// initializeServer creates and configures the HTTP server
func initializeServer(app *App) (*http.Server, error) {
	cfg, db, log := app.Config, app.DB, app.Log

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	doctorRepo := repository.NewDoctorRepository()
	subjectRepo := repository.NewSubjectRepository()
	tagRepo := repository.NewTagRepository()
	listingRepo := repository.NewListingRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	listingCache := app.listingCache()

	// Initialize usecases
	doctorUsecase := usecase.NewDoctorUsecase(db, log, doctorRepo, auditService, listingCache)
	subjectUsecase := usecase.NewSubjectUsecase(db, log, subjectRepo, auditService, listingCache)
	listingUsecase := usecase.NewListingUsecase(db, log, listingRepo, doctorRepo, subjectRepo, tagRepo, auditService, listingCache)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize page templates
	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	// Initialize handlers
	doctorHandler := handler.NewDoctorHandler(doctorUsecase, customValidator)
	subjectHandler := handler.NewSubjectHandler(subjectUsecase, customValidator)
	listingHandler := handler.NewListingHandler(listingUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase, customValidator)
	pageHandler := handler.NewPageHandler(listingUsecase, doctorUsecase, renderer, log)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, app.RedisClient)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigin)
	observeMiddleware := middleware.NewObserveMiddleware(log)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	// Initialize router
	router := deliveryHttp.NewRouter(
		doctorHandler, subjectHandler, listingHandler, auditLogHandler, pageHandler,
		authMiddleware, corsMiddleware, observeMiddleware, rateLimitMiddleware,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// Run serves HTTP and metrics until SIGINT/SIGTERM, then shuts both down.
func (app *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer app.Close()

	g, gctx := errgroup.WithContext(ctx)

	servers := []*http.Server{app.Server}
	if app.MetricsServer != nil {
		servers = append(servers, app.MetricsServer)
	}

	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			app.Log.Infof("Server listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server %s: %w", srv.Addr, err)
			}
			return nil
		})
	}
	app.Log.Infof("Environment: %s", app.Config.App.Env)

	g.Go(func() error {
		<-gctx.Done()
		app.Log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("shutdown %s: %w", srv.Addr, err))
			}
		}
		return errors.Join(errs...)
	})

	err := g.Wait()
	app.Log.Info("Server shutdown complete")
	return err
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
