// Package app wires the catalog, provider, engine and cache from the
// application configuration. Both entry points build through here.
package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"astrochart/core/catalog"
	"astrochart/core/engine"
	"astrochart/core/ephemeris"
	"astrochart/internal/cache"
	"astrochart/internal/config"
)

// Dependencies bundles what the entry points need
type Dependencies struct {
	Catalog  *catalog.Catalog
	Provider ephemeris.Provider
	Engine   *engine.Engine
	Cache    cache.Store
}

// Options selects optional dependencies
type Options struct {
	// WithCache connects the configured chart cache
	WithCache bool
}

// Wire constructs the dependencies and returns a cleanup function that
// releases them
func Wire(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*Dependencies, func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cat, err := loadCatalog(cfg.CatalogPath, logger)
	if err != nil {
		return nil, nil, err
	}
	provider := ephemeris.NewAnalytic()
	eng := engine.New(cat, provider, engine.Config{
		ReturnWorkers: cfg.Returns.Workers,
		Logger:        logger.Named("engine"),
	})

	deps := &Dependencies{Catalog: cat, Provider: provider, Engine: eng, Cache: cache.Nop{}}
	cleanup := func() {}

	if opts.WithCache && cfg.Cache.Enabled {
		store, err := cache.NewRedis(ctx, cache.RedisConfig{
			Addr:        cfg.Cache.Addr,
			Password:    cfg.Cache.Password,
			DB:          cfg.Cache.DB,
			TTL:         time.Duration(cfg.Cache.TTLSeconds) * time.Second,
			DialTimeout: 5 * time.Second,
		})
		if err != nil {
			return nil, nil, err
		}
		logger.Info("chart cache connected", zap.String("addr", cfg.Cache.Addr))
		deps.Cache = store
		cleanup = func() {
			if err := store.Close(); err != nil {
				logger.Warn("closing chart cache", zap.Error(err))
			}
		}
	}
	return deps, cleanup, nil
}

// loadCatalog reads the HCL catalog at path, or the built-in one when path
// is empty, and logs authoring problems that do not stop it loading
func loadCatalog(path string, logger *zap.Logger) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}
	for _, s := range cat.Shadows(1) {
		logger.Warn("aspect definition shadowed by an earlier, wider one",
			zap.String("earlier", s.Earlier),
			zap.String("later", s.Later),
		)
	}
	logger.Info("catalog loaded", zap.String("path", path), zap.Int("aspects", len(cat.Aspects())))
	return cat, nil
}
