package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/capchain/capchain/internal/catalog"
	"github.com/capchain/capchain/internal/ctxlog"
	"github.com/capchain/capchain/internal/metrics"
	"github.com/capchain/capchain/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	catalog  *catalog.Catalog
	promReg  *prometheus.Registry
	metrics  *metrics.Metrics
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger, a loaded stage
// registry and a built catalog. Startup failures are critical and panic; the
// entrypoint recovers and reports them.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if cfg.StagesPath != "" {
		if err := reg.LoadDir(ctx, cfg.StagesPath); err != nil {
			// A failure to load the stage manifests is a fatal startup error.
			panic(fmt.Errorf("failed to load stage manifests: %w", err))
		}
	}
	logger.Debug("Stage registry loaded.", "stage_definitions", reg.Len())

	promReg := prometheus.NewRegistry()
	m := metrics.New(promReg)

	cat := catalog.Build(ctx, reg.Factories())
	m.CatalogEntries.Set(float64(cat.Len()))
	logger.Debug("Catalog indexed.", "entries", cat.Len())

	return &App{
		outW:     outW,
		logW:     logW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		catalog:  cat,
		promReg:  promReg,
		metrics:  m,
	}
}

// Catalog returns the indexed catalog. This is primarily for testing.
func (a *App) Catalog() *catalog.Catalog {
	return a.catalog
}

// Registry returns the application's stage registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
