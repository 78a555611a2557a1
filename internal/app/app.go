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
	chirender "github.com/go-chi/render"

	"lakbaycli/internal/apiclient"
	"lakbaycli/internal/config"
	apierrors "lakbaycli/internal/errors"
	"lakbaycli/internal/exporter"
	"lakbaycli/internal/infrastructure"
	"lakbaycli/internal/middleware"
	"lakbaycli/internal/render"
	"lakbaycli/internal/services"
	handlers "lakbaycli/internal/transport/http"
	ws "lakbaycli/internal/websocket"
	"lakbaycli/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	WebSocketHub  *ws.Hub
	Reports       *services.ReportService
	HealthService *services.HealthService
	ErrorHandler  *apierrors.ErrorHandler
}

// NewApplication loads the configuration and wires the application
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return New(cfg)
}

// New wires every component of the report service for cfg
func New(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", cfg.Reports.AppName),
		slog.String("version", contracts.Version))

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution(logger)

	otelProviders, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Telemetry.Environment == "development"),
	}

	if err := a.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	a.setupRouter()
	a.createServer()

	return a, nil
}

// initializeServices creates the API client, the report service and the
// status hub, and subscribes the hub to every export trigger
func (a *Application) initializeServices() error {
	meter := a.OTelProviders.MeterOrGlobal()

	exportMetrics, err := infrastructure.NewExportMetrics(meter)
	if err != nil {
		return fmt.Errorf("failed to create export metrics: %w", err)
	}
	hubMetrics, err := ws.NewHubMetrics(meter)
	if err != nil {
		return fmt.Errorf("failed to create websocket metrics: %w", err)
	}

	client, err := apiclient.New(a.Config.API, apiclient.WithLogger(a.Logger))
	if err != nil {
		return fmt.Errorf("failed to create api client: %w", err)
	}
	clients := func(token string) services.LakbayAPI {
		if token == "" {
			return client
		}
		return client.WithToken(token)
	}

	a.Reports = services.NewReportService(clients, services.ReportServiceOptions{
		Settings:      exporter.SettingsFromConfig(a.Config, a.Logger),
		Render:        render.Options{ValidatePDF: a.Config.Reports.ValidatePDF},
		DefaultFormat: a.Config.Reports.DefaultFormat,
		Metrics:       exportMetrics,
		Logger:        a.Logger,
	})

	a.WebSocketHub = ws.NewHub(a.Logger, ws.WithSnapshot(a.Reports.Statuses), ws.WithMetrics(hubMetrics))
	a.Reports.AddListener(a.WebSocketHub)

	a.HealthService = services.NewHealthService(contracts.Version, contracts.BuildTime, a.Paths, a.Reports, a.WebSocketHub, a.Logger)
	return nil
}

// setupRouter builds the chi router.
// Order: RequestID → RealIP → OTel → Logger → Recoverer → headers → CORS → rate limit
func (a *Application) setupRouter() {
	r := chi.NewRouter()
	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	// The status stream must not run behind the response writer wrappers
	r.Handle(config.WebSocketEndpoint, ws.NewHandler(a.WebSocketHub, a.Config.Security.AllowedOrigins, a.Logger))

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle(config.MetricsEndpoint, a.OTelProviders.PrometheusHTTP)
	}

	r.Group(func(r chi.Router) {
		otelMiddleware, err := middleware.NewOTelMiddleware(a.OTelProviders)
		if err != nil {
			a.Logger.Error("Failed to create OpenTelemetry middleware", slog.String("error", err.Error()))
		} else {
			r.Use(otelMiddleware.Handler)
		}

		r.Use(middleware.StructuredLogger(a.Logger))
		r.Use(a.ErrorHandler.Middleware)
		r.Use(middleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(middleware.CORS(middleware.CORSConfig{
				AllowedOrigins: a.Config.Security.AllowedOrigins,
				Logger:         a.Logger,
			}))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(middleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r)
	})

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	health := handlers.NewHealthHandler(a.HealthService, a.Logger)
	reports := handlers.NewReportHandler(
		a.Reports,
		middleware.NewValidator(a.Logger),
		a.ErrorHandler,
		a.Config.Server.ExportTimeout,
		a.Logger,
	)

	// Without a service token every export must carry the admin's token
	tokenRequired := a.Config.API.Token == ""

	r.With(chirender.SetContentType(chirender.ContentTypeJSON)).Mount(config.HealthEndpoint, health.Routes())
	r.With(chirender.SetContentType(chirender.ContentTypeJSON)).Get(config.VersionEndpoint, health.Version)

	r.With(
		middleware.ContentTypeValidator("application/json"),
		middleware.BearerToken(tokenRequired, a.ErrorHandler, a.Logger),
	).Mount(config.ReportsEndpoint, reports.Routes())
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start starts the status hub and the HTTP server. A listen failure
// cancels ctx through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("version", contracts.Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("api_base_url", a.Config.API.BaseURL),
		slog.String("reports_dir", a.Paths.ReportsDir))

	a.WebSocketHub.Start()

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop shuts the server down, waiting for in-flight exports up to the
// shutdown timeout, then stops the hub and flushes telemetry
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.WebSocketHub.Stop()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return infrastructure.CloseLogFile()
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		a.Logger.WarnContext(ctx, "Server stopped unexpectedly")
	}

	return a.Stop(ctx)
}
