package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"cnhpulse/internal/config"
	"cnhpulse/internal/dataprocessing"
	apierrors "cnhpulse/internal/errors"
	"cnhpulse/internal/files"
	"cnhpulse/internal/infrastructure"
	customMiddleware "cnhpulse/internal/middleware"
	"cnhpulse/internal/services"
	handlers "cnhpulse/internal/transport/http"
	"cnhpulse/pkg/contracts"
)

// Compile-time checks that the metrics instruments satisfy the consumers
var (
	_ files.LoadObserver           = (*infrastructure.DashboardMetrics)(nil)
	_ services.ViewRecorder        = (*infrastructure.DashboardMetrics)(nil)
	_ customMiddleware.HTTPMetrics = (*infrastructure.DashboardMetrics)(nil)
	_ services.TableSource         = (*files.TableStore)(nil)
)

// Application represents the main application container
type Application struct {
	Config           *config.Config
	Paths            *config.Paths
	Router           *chi.Mux
	Server           *http.Server
	Logger           *slog.Logger
	Store            *files.TableStore
	DashboardService *services.DashboardService
	HealthService    *services.HealthService
	OTelProviders    *infrastructure.OTelProviders
	Metrics          *infrastructure.DashboardMetrics
	RuntimeMetrics   *infrastructure.RuntimeMetrics
	ErrorHandler     *apierrors.ErrorHandler
}

// NewApplication loads the configuration and creates the application
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, apierrors.NewConfigError("failed to load configuration", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, "", logger)
}

// New wires the application from an explicit configuration. Relative paths
// are resolved against baseDir; an empty baseDir means the working directory.
func New(cfg *config.Config, baseDir string, logger *slog.Logger) (*Application, error) {
	logger.Info("Application starting",
		slog.String("name", config.AppTitle),
		slog.String("version", contracts.Version))

	paths, err := config.GetPaths(cfg, baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	otelProviders, err := infrastructure.InitializeOTel(
		infrastructure.NewOTelConfig(cfg.Telemetry, contracts.Version), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Development),
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices builds the data pipeline and the services on top of it
func (a *Application) initializeServices() error {
	metrics, err := infrastructure.CreateDashboardMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to create dashboard metrics: %w", err)
	}
	a.Metrics = metrics

	loader := dataprocessing.NewLoader(dataprocessing.LoadOptions{Encoding: a.Config.Data.Encoding}, a.Logger)
	a.Store = files.NewTableStore(loader, a.Config.Data.CacheTTL, a.Logger, files.WithObserver(metrics))

	source := a.resolveSource()

	settings := services.DefaultDashboardSettings()
	if a.Config.Data.PreviewRows > 0 {
		settings.PreviewRows = a.Config.Data.PreviewRows
	}
	a.DashboardService = services.NewDashboardService(a.Store, source, a.Logger,
		services.WithSettings(settings),
		services.WithRecorder(metrics),
		services.WithTracer(a.OTelProviders.Tracer),
	)

	a.HealthService = services.NewHealthServiceWithBuildInfo(
		contracts.Version,
		contracts.BuildTime,
		contracts.GitCommit,
		a.Paths,
		a.Store,
		a.Logger,
	)

	a.RuntimeMetrics, err = infrastructure.RegisterRuntimeMetrics(a.OTelProviders.Meter, time.Now(), a.Store.Len)
	if err != nil {
		return fmt.Errorf("failed to register runtime metrics: %w", err)
	}

	return nil
}

// resolveSource turns the configured source into the CSV to serve. A source
// that cannot be resolved yet is kept as configured so requests report the
// load failure instead of the process refusing to start.
func (a *Application) resolveSource() string {
	discovery := files.NewDiscovery(a.Paths.BaseDir)
	source, err := discovery.ResolveSource(a.Paths.SourceFile)
	if err != nil {
		a.Logger.Warn("Data source not available yet",
			slog.String("path", a.Paths.SourceFile),
			slog.String("error", err.Error()))
		return a.Paths.SourceFile
	}
	if source != a.Paths.SourceFile {
		a.Logger.Info("Resolved data source directory",
			slog.String("directory", a.Paths.SourceFile),
			slog.String("file", source))
		a.Paths.SourceFile = source
	}
	return source
}

// setupRouter configures the HTTP router with all routes
// Middleware order: RequestID → RealIP → OTel → Logger → Recoverer → Security → CORS → RateLimit
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StripSlashes)

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(a.ErrorHandler.RecoveryMiddleware)
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.getCORSConfig()))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r)
	})

	// Prometheus scrape endpoint stays outside the instrumented group
	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)

		dashboardHandler := handlers.NewDashboardHandler(a.DashboardService, a.Logger, a.ErrorHandler)
		r.Mount("/views", dashboardHandler.Routes())

		downloadHandler := handlers.NewDownloadHandler(a.DashboardService, a.Logger, a.ErrorHandler)
		r.Mount("/export", downloadHandler.ExportRoutes())
		r.Mount("/charts", downloadHandler.ChartRoutes())
	})
}

// getCORSConfig builds the CORS policy from the security section
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
			"Content-Disposition",
		},
		MaxAge: 300,
		Logger: a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts serving in the background. A listener failure cancels ctx
// through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	a.Logger.InfoContext(ctx, "Application paths",
		slog.String("base_dir", a.Paths.BaseDir),
		slog.String("source_file", a.Paths.SourceFile),
		slog.String("export_dir", a.Paths.ExportDir),
		slog.String("log_file", a.Paths.LogFile))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	if err := a.performStartupHealthCheck(ctx); err != nil {
		a.Logger.WarnContext(ctx, "Startup health check warnings", slog.String("warnings", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))

	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if a.Server != nil {
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
		}
	}

	if a.RuntimeMetrics != nil {
		if err := a.RuntimeMetrics.Unregister(); err != nil {
			a.Logger.ErrorContext(ctx, "Error unregistering runtime metrics", slog.String("error", err.Error()))
		}
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return errors.Join(errs...)
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx, stop); err != nil {
		return err
	}

	<-ctx.Done()
	a.Logger.Info("Received shutdown signal")

	return a.Stop(context.Background())
}

// performStartupHealthCheck warms the table cache and checks that the
// export directory is writable. Problems are reported, not fatal.
func (a *Application) performStartupHealthCheck(ctx context.Context) error {
	var warnings []string

	if t, err := a.Store.Get(ctx, a.DashboardService.Source()); err != nil {
		warnings = append(warnings, fmt.Sprintf("data source not loadable: %v", err))
	} else {
		a.Logger.InfoContext(ctx, "Data source loaded",
			slog.String("path", t.Source()),
			slog.Int("rows", t.Len()),
			slog.Int64("drivers", t.Sum()))
	}

	if a.Paths.ExportDir != "" {
		testFile := filepath.Join(a.Paths.ExportDir, ".write_test")
		if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
			warnings = append(warnings, fmt.Sprintf("export directory not writable: %s", a.Paths.ExportDir))
		} else {
			os.Remove(testFile)
		}
	}

	if len(warnings) > 0 {
		return fmt.Errorf("startup health check warnings: %s", strings.Join(warnings, "; "))
	}

	a.Logger.InfoContext(ctx, "Startup health check passed")
	return nil
}
