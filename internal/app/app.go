package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Logicampgrid/FacebookPost-sub000/internal/config"
	httpcontroller "github.com/Logicampgrid/FacebookPost-sub000/internal/controller/http"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/database"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/media/normalize"
	postdao "github.com/Logicampgrid/FacebookPost-sub000/internal/domain/post/dao"
	postservice "github.com/Logicampgrid/FacebookPost-sub000/internal/domain/post/service"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/publish/dispatch"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/publish/executor"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/publish/policy"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/httpx/retry"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/httpx/upstream/graph"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/storage"
)

// App is the main application container
type App struct {
	cfg        config.Config
	httpServer *http.Server
	router     *chi.Mux
	logger     *slog.Logger

	pool *pgxpool.Pool

	publishPolicy *policy.Policy
	postService   *postservice.Service
}

// NewApp creates and initializes the application
func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	// Binary payloads plus Graph uploads can legitimately take minutes.
	r.Use(middleware.Timeout(2 * time.Minute))

	app := &App{
		cfg:    cfg,
		router: r,
		logger: logger,
	}

	if err := app.initInfrastructure(ctx); err != nil {
		return nil, fmt.Errorf("initializing infrastructure: %w", err)
	}

	if err := app.initDomains(); err != nil {
		return nil, fmt.Errorf("initializing domains: %w", err)
	}

	app.registerRoutes()

	app.httpServer = &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      app.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return app, nil
}

// initInfrastructure initializes infrastructure components. The database is
// optional: without a DSN the service runs stateless and skips history.
func (a *App) initInfrastructure(ctx context.Context) error {
	if a.cfg.Database.PostgresDSN == "" {
		a.logger.Info("no database configured, publish history disabled")
		return nil
	}

	pool, err := database.NewPostgresPool(ctx, a.cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	a.pool = pool
	return nil
}

// initDomains initializes domain layers (DAO, Service, Policy)
func (a *App) initDomains() error {
	graphClient := graph.New(
		graph.WithBaseURL(a.cfg.Graph.BaseURL),
		graph.WithAPIVersion(a.cfg.Graph.APIVersion),
	)

	normalizer := normalize.New(normalize.Config{
		DownloadTimeout: a.cfg.Download.Timeout,
		Retry: retry.Config{
			MaxRetries: a.cfg.Download.MaxRetries,
			BaseDelay:  a.cfg.Download.BaseDelay,
			MaxDelay:   a.cfg.Download.MaxDelay,
		},
	}, nil)

	execOpts := []executor.Option{
		executor.WithInstagramRetry(retry.Config{
			MaxRetries: a.cfg.Graph.ContainerMaxRetries,
			BaseDelay:  a.cfg.Graph.ContainerBaseDelay,
			MaxDelay:   a.cfg.Graph.ContainerMaxDelay,
		}),
	}
	if a.cfg.S3.Enabled {
		s3Storage, err := storage.NewS3Storage(storage.S3Config{
			Endpoint:        a.cfg.S3.Endpoint,
			AccessKeyID:     a.cfg.S3.AccessKeyID,
			SecretAccessKey: a.cfg.S3.SecretAccessKey,
			Bucket:          a.cfg.S3.Bucket,
			Region:          a.cfg.S3.Region,
			PublicURL:       a.cfg.S3.PublicURL,
		})
		if err != nil {
			return fmt.Errorf("initializing s3 storage: %w", err)
		}
		execOpts = append(execOpts, executor.WithRehoster(s3Storage))
	}
	exec := executor.New(graphClient, a.logger, execOpts...)

	mapping, err := dispatch.LoadMappingFile(a.cfg.Shops.MappingFile)
	if err != nil {
		return fmt.Errorf("loading shop mapping: %w", err)
	}
	dispatcher := dispatch.New(mapping, exec, a.logger)

	var recorder policy.PostRecorder
	if a.pool != nil {
		a.postService = postservice.New(postdao.NewPostPostgres(a.pool))
		recorder = a.postService
	}

	a.publishPolicy = policy.New(normalizer, dispatcher, recorder, a.logger)
	return nil
}

// registerRoutes registers all HTTP routes
func (a *App) registerRoutes() {
	a.router.Get("/healthz", a.healthHandler)
	a.router.Get("/readyz", a.readyHandler)

	a.router.Route("/api/v1", func(r chi.Router) {
		publishHandler := httpcontroller.NewPublishHandler(a.publishPolicy)
		publishHandler.RegisterRoutes(r)

		diagnoseHandler := httpcontroller.NewDiagnoseHandler(a.publishPolicy)
		diagnoseHandler.RegisterRoutes(r)

		if a.postService != nil {
			postHandler := httpcontroller.NewPostHandler(a.postService)
			postHandler.RegisterRoutes(r)
		}
	})
}

// healthHandler handles health check requests
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// readyHandler handles readiness check requests
func (a *App) readyHandler(w http.ResponseWriter, r *http.Request) {
	if a.pool != nil {
		if err := a.pool.Ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"database unavailable"}`))
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

// Run starts the application and blocks until shutdown signal
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", "addr", a.cfg.Server.Address())
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.logger.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		a.logger.Info("context cancelled")
	}

	return a.Shutdown(context.Background())
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down HTTP server: %w", err)
	}

	if a.pool != nil {
		a.pool.Close()
	}

	a.logger.Info("shutdown complete")
	return nil
}
