package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"examstats/internal/config"
	apperrors "examstats/internal/errors"
	"examstats/internal/infrastructure"
	customMiddleware "examstats/internal/middleware"
	"examstats/internal/records"
	"examstats/internal/services"
	handlers "examstats/internal/transport/http"
	"examstats/pkg/contracts"
)

const AppName = "examstats"

// VERSION is reported by /healthz and /version
var VERSION = contracts.Version

// Application wires configuration, telemetry, services and the HTTP server
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	ExamService   *services.ExamService
	HealthService *services.HealthService
	ErrorHandler  *apperrors.ErrorHandler
	Router        *chi.Mux
	Server        *http.Server
}

// NewApplication loads configuration from file and environment, installs
// the global logger and builds the application.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, logger)
}

// New builds the application from an already loaded configuration
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", VERSION))

	paths, err := cfg.GetPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	otelProviders, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
		ErrorHandler:  apperrors.NewErrorHandler(logger, false),
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices builds the exam and health services over the configured sources
func (a *Application) initializeServices() {
	sources := services.Sources{
		Questions: a.Paths.ResolveSource(a.Config.Sources.Questions),
		Responses: a.Paths.ResolveSource(a.Config.Sources.Responses),
	}

	loader := records.NewSourceLoader(records.Options{
		IndexColumn: a.Config.Sources.IndexColumn,
		Sheet:       a.Config.Sources.Sheet,
	}, a.Logger)

	a.ExamService = services.NewExamService(loader, sources, a.Config.Cache.Enabled, a.Logger)
	a.HealthService = services.NewHealthService(VERSION, sources, a.Logger)

	a.Logger.Info("Services initialized",
		slog.String("questions", sources.Questions),
		slog.String("responses", sources.Responses),
		slog.Bool("cache_enabled", a.Config.Cache.Enabled))
}

// setupRouter configures the HTTP router.
// Ordering: RequestID → RealIP → OTel → Logger → Recoverer → Timeout
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StripSlashes)

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders.Meter, a.Logger)
	if err != nil {
		a.Logger.Error("Failed to create OpenTelemetry middleware", slog.String("error", err.Error()))
	} else {
		r.Use(otelMiddleware.Handler)
	}

	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.ErrorHandler))
	r.Use(customMiddleware.SecurityHeaders)

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
	r.Get("/healthz", healthHandler.HealthCheck)
	r.Get("/healthz/live", healthHandler.LivenessCheck)
	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, contracts.GetVersionInfo())
	})

	// Scraped outside the rate limiter
	r.Handle("/metrics", handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, a.ErrorHandler))

	r.Group(func(r chi.Router) {
		if a.Config.Server.RequestTimeout > 0 {
			r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))
		}

		if a.Config.Server.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Server.RateLimit.RPS,
				a.Config.Server.RateLimit.Burst,
				a.Logger,
				a.ErrorHandler,
			).Handler)
		}

		examHandler := handlers.NewExamHandler(a.ExamService, a.Logger, a.ErrorHandler)
		r.Mount("/api", examHandler.Routes())
	})

	a.Router = r
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start begins serving in the background. A listener failure cancels ctx
// through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", VERSION),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	health := a.HealthService.HealthCheck(ctx)
	if health.Status != "ok" {
		for name, source := range health.Sources {
			if source.Status != "ok" {
				a.Logger.WarnContext(ctx, "Source not ready",
					slog.String("source", name),
					slog.String("location", source.Location),
					slog.String("message", source.Message))
			}
		}
	}

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.ErrorContext(ctx, "Error closing log file", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run serves until SIGINT/SIGTERM or a server failure, then shuts down
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx, stop); err != nil {
		return err
	}

	<-ctx.Done()
	a.Logger.InfoContext(ctx, "Received shutdown signal")

	return a.Stop(ctx)
}
