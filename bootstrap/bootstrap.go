// Package bootstrap wires configuration, logging, the schema registry, the
// docs service, and the HTTP server into a runnable application.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/swaggo/swag"

	"github.com/artpar/tracedoc/adapters/metrics"
	"github.com/artpar/tracedoc/app"
	"github.com/artpar/tracedoc/config"
	"github.com/artpar/tracedoc/core/docs"
	"github.com/artpar/tracedoc/core/openapi"
	"github.com/artpar/tracedoc/web"
)

// swag keeps a process-wide instance table and panics on duplicates, so the
// generated document is registered once even if several Apps are built.
var swagOnce sync.Once

// App is the assembled application.
type App struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Registry   *openapi.Registry
	Docs       *docs.Service
	HTTPServer *http.Server

	holder    *config.Holder
	collector *metrics.Collector
}

// New assembles an App from cfg. All schema tracing, conversion, and
// registration happens here, before the server starts serving.
func New(cfg *config.Config) (*App, error) {
	logger := setupLogger(cfg.Logging)

	registry := openapi.NewRegistry()
	docsService := docs.NewService(docs.ServiceConfig{
		Registry:  registry,
		Logger:    logger,
		ServerURL: cfg.Docs.ServerURL,
		Info: openapi.Info{
			Title:       cfg.Docs.Title,
			Description: cfg.Docs.Description,
			Version:     cfg.Docs.Version,
		},
	})

	api := app.NewHandler(logger)
	for _, route := range api.Routes() {
		if err := docsService.AddRoute(route); err != nil {
			return nil, fmt.Errorf("bootstrap: %w", err)
		}
	}
	if err := registry.Err(); err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	swagOnce.Do(func() {
		swag.Register(swag.Name, docsService)
	})

	promRegistry := prometheus.NewRegistry()
	collector := metrics.New(promRegistry)
	collector.SchemasRegistered.Set(float64(len(registry.Names())))
	if raw, err := docsService.JSON(); err == nil {
		collector.DocumentBytes.Set(float64(len(raw)))
	}

	router := chi.NewRouter()
	router.Use(web.RequestID(logger))
	router.Use(web.Logger(logger))
	if cfg.Metrics.Enabled {
		router.Use(web.Metrics(collector))
		router.Method("GET", cfg.Metrics.Path,
			promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}
	router.Mount("/", api.Router())
	router.Mount("/docs", web.NewDocsHandler(docsService, logger).Router())

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: registry,
		Docs:     docsService,
		HTTPServer: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		collector: collector,
	}

	logger.Info().
		Int("schemas", len(registry.Names())).
		Int("routes", len(api.Routes())).
		Msg("application assembled")
	return a, nil
}

// NewWithHotReload assembles an App whose document metadata follows the
// config file. The schema registry is not rebuilt on reload; it is
// append-only for the process lifetime.
func NewWithHotReload(path string) (*App, error) {
	bootLogger := setupLogger(config.Default().Logging)
	holder, err := config.NewHolder(path, bootLogger)
	if err != nil {
		return nil, err
	}

	a, err := New(holder.Get())
	if err != nil {
		holder.Stop()
		return nil, err
	}
	a.holder = holder

	holder.OnChange(func(cfg *config.Config) {
		a.Docs.SetInfo(openapi.Info{
			Title:       cfg.Docs.Title,
			Description: cfg.Docs.Description,
			Version:     cfg.Docs.Version,
		}, cfg.Docs.ServerURL)
		if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			zerolog.SetGlobalLevel(level)
		}
		if cfg.Addr() != a.Config.Addr() {
			a.Logger.Warn().
				Str("addr", cfg.Addr()).
				Msg("server address changed; restart to apply")
		}
	})

	if err := holder.WatchFile(); err != nil {
		a.Logger.Warn().Err(err).Msg("config watch unavailable")
	}
	holder.WatchSignals()
	return a, nil
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().
			Str("addr", a.HTTPServer.Addr).
			Msg("starting http server")
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the application.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if a.holder != nil {
		a.holder.Stop()
	}
	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("http server shutdown error")
			return err
		}
	}
	return nil
}

func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
