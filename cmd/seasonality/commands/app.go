package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/seasonality/internal/contracts"
	"github.com/wonny/seasonality/internal/directory"
	"github.com/wonny/seasonality/internal/external/nager"
	"github.com/wonny/seasonality/internal/external/offline"
	"github.com/wonny/seasonality/internal/pipeline"
	"github.com/wonny/seasonality/internal/store"
	"github.com/wonny/seasonality/pkg/config"
	"github.com/wonny/seasonality/pkg/database"
	"github.com/wonny/seasonality/pkg/httputil"
	"github.com/wonny/seasonality/pkg/logger"
	"github.com/wonny/seasonality/pkg/metrics"
	"github.com/wonny/seasonality/pkg/redis"
)

// storeMode decides whether a command opens the feature-table store
type storeMode int

const (
	storeNone     storeMode = iota
	storeOptional           // opened when DATABASE_URL is set
	storeRequired           // DATABASE_URL must be set
)

// app holds the collaborators shared by every command
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	metrics *metrics.Metrics
	builder *pipeline.Builder
	repo    *store.Repository // nil unless a store was opened

	closers []func()
}

// loadConfig loads configuration and applies global flags
func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, logger.New(cfg), nil
}

// newApp wires config, logging, the holiday directory and the builder
func newApp(ctx context.Context, mode storeMode) (*app, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log}
	if cfg.MetricsEnabled {
		a.metrics = metrics.New()
	}

	dir, err := a.directory(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.builder, err = pipeline.NewBuilder(dir, a.metrics, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create builder: %w", err)
	}

	if mode == storeRequired || (mode == storeOptional && cfg.Database.Enabled()) {
		if err := a.openStore(ctx); err != nil {
			a.Close()
			return nil, err
		}
	}

	return a, nil
}

// directory builds the configured holiday source: instrumented, then cached
func (a *app) directory(ctx context.Context) (contracts.HolidayDirectory, error) {
	var dir contracts.HolidayDirectory
	switch a.cfg.HolidayAPI.Source {
	case config.SourceOffline:
		dir = offline.New()
	default:
		dir = nager.NewClient(holidayHTTPClient(a.cfg, a.log), a.cfg.HolidayAPI.BaseURL, a.log)
	}

	dir = directory.NewInstrumented(dir, a.metrics)

	if a.cfg.Redis.Enabled {
		rc, err := redis.New(ctx, a.cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = rc.Close() })
		dir = directory.NewCached(dir, redis.NewCache(rc, rc.KeyPrefix()), a.cfg.Redis.CacheTTL, a.log)
		a.log.Info("Holiday directory cache enabled")
	}

	a.log.WithField("source", a.cfg.HolidayAPI.Source).Debug("Holiday directory ready")
	return dir, nil
}

// holidayHTTPClient applies HOLIDAY_API_RETRIES and HOLIDAY_API_RATE_PER_SEC
func holidayHTTPClient(cfg *config.Config, log *logger.Logger) *httputil.Client {
	api := cfg.HolidayAPI
	return httputil.New(cfg, log).
		WithRetry(api.Retries, time.Second).
		WithRateLimit(float64(api.RatePerSec), api.RatePerSec)
}

func (a *app) openStore(ctx context.Context) error {
	db, err := database.New(ctx, a.cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	a.closers = append(a.closers, db.Close)

	repo := store.NewRepository(db.Pool)
	if err := repo.Migrate(ctx); err != nil {
		return err
	}
	a.repo = repo
	a.log.Info("Connected to feature-table store")
	return nil
}

// Close releases every opened connection, newest first
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
