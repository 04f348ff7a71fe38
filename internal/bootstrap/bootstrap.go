// Package bootstrap builds the runtime shared by the console program and the
// HTTP server: telemetry, the location store, the snapshot cache, the population
// sources and the aggregator.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	populationapp "github.com/popstats/backend/internal/application/population"
	"github.com/popstats/backend/internal/domain/population"
	"github.com/popstats/backend/internal/infrastructure/cache"
	"github.com/popstats/backend/internal/infrastructure/config"
	"github.com/popstats/backend/internal/infrastructure/logger"
	"github.com/popstats/backend/internal/infrastructure/persistence"
	"github.com/popstats/backend/internal/infrastructure/statsource"
	"github.com/popstats/backend/internal/infrastructure/telemetry"
)

// Runtime holds the wired components and the cleanup steps for them
type Runtime struct {
	Config     *config.Config
	Logger     *zap.Logger
	Meter      metric.Meter
	DB         *persistence.Database
	Aggregator *populationapp.AggregatorService

	closers []closer
}

type closer struct {
	name string
	fn   func(context.Context) error
}

// New wires every component from cfg. On failure the parts already started are
// shut down before the error is returned.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (rt *Runtime, err error) {
	rt = &Runtime{Config: cfg, Logger: log}
	defer func() {
		if err != nil {
			_ = rt.Shutdown(context.WithoutCancel(ctx))
			rt = nil
		}
	}()

	if err = rt.initTelemetry(ctx); err != nil {
		return rt, err
	}
	if err = rt.initDatabase(); err != nil {
		return rt, err
	}

	metrics, merr := telemetry.NewPopulationMetrics(rt.Meter, rt.Logger)
	if merr != nil {
		rt.Logger.Warn("Population metrics unavailable", zap.Error(merr))
	}

	sources, err := rt.initSources(ctx, metrics)
	if err != nil {
		return rt, err
	}

	standardizer, err := population.NewDefaultNameStandardizer(cfg.Names.Aliases)
	if err != nil {
		return rt, fmt.Errorf("failed to build name standardizer: %w", err)
	}
	policy, err := population.ParseMergePolicy(cfg.Aggregator.MergePolicy)
	if err != nil {
		return rt, err
	}

	opts := []populationapp.Option{
		populationapp.WithMergePolicy(policy),
		populationapp.WithConcurrentSources(cfg.Aggregator.ConcurrentSources),
		populationapp.WithLogger(rt.Logger.Named("aggregator")),
	}
	if metrics != nil {
		opts = append(opts, populationapp.WithMetrics(metrics))
	}

	rt.Aggregator, err = populationapp.NewAggregatorService(
		persistence.NewGormLocationRepository(rt.DB.DB),
		sources,
		standardizer,
		opts...,
	)
	if err != nil {
		return rt, fmt.Errorf("failed to create aggregator: %w", err)
	}

	rt.Logger.Info("Population aggregator ready",
		zap.String("merge_policy", string(policy)),
		zap.Bool("concurrent_sources", cfg.Aggregator.ConcurrentSources),
		zap.Int("sources", len(sources)),
	)
	return rt, nil
}

func (rt *Runtime) initTelemetry(ctx context.Context) error {
	cfg := rt.Config.Telemetry

	logs, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfigFrom(cfg), rt.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize log export: %w", err)
	}
	rt.onShutdown("logs", logs.Shutdown)
	rt.Logger = logs.Bridge(rt.Logger, zap.InfoLevel)

	tracer, err := telemetry.NewTracerProvider(ctx, telemetry.ConfigFrom(cfg), rt.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	rt.onShutdown("tracer", tracer.Shutdown)

	meters, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfigFrom(cfg), rt.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	rt.onShutdown("meter", meters.Shutdown)
	rt.Meter = meters.Meter(cfg.ServiceName)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.ProfilingEnabled,
		ServerAddress:   cfg.ProfilerAddress,
		ApplicationName: cfg.ServiceName,
	}, rt.Logger)
	if err != nil {
		return fmt.Errorf("failed to start profiler: %w", err)
	}
	rt.onShutdown("profiler", func(context.Context) error { return profiler.Stop() })

	if profiler.IsEnabled() {
		if err := tracer.EnableSpanProfiles(); err != nil {
			rt.Logger.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}
	return nil
}

func (rt *Runtime) initDatabase() error {
	cfg := rt.Config

	gormLog := logger.NewGormLogger(rt.Logger.Named("gorm"), logger.GormLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		return err
	}
	rt.DB = db
	rt.onShutdown("database", func(context.Context) error { return db.Close() })

	tracing := telemetry.DefaultDBTracingConfig()
	tracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	tracing.DBSystem = telemetry.DBSystemFor(db.Driver())
	if err := telemetry.NewDBTracingPlugin(tracing, rt.Logger).RegisterOtelGorm(db.DB); err != nil {
		return fmt.Errorf("failed to register database tracing: %w", err)
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	pool, err := telemetry.NewDBPoolMetrics(rt.Meter, sqlDB)
	if err != nil {
		rt.Logger.Warn("Database pool metrics unavailable", zap.Error(err))
	} else {
		rt.onShutdown("db pool metrics", func(context.Context) error { return pool.Stop() })
	}

	rt.Logger.Info("Database connected", zap.String("driver", db.Driver()))
	return nil
}

// initSources registers the static source first and the live source second
func (rt *Runtime) initSources(ctx context.Context, metrics *telemetry.PopulationMetrics) ([]population.Source, error) {
	cfg := rt.Config
	var sources []population.Source

	if cfg.Sources.StaticEnabled {
		sources = append(sources, statsource.NewStaticSource())
	}

	if cfg.Sources.LiveEnabled {
		store, err := cache.NewSnapshotCacheFactory(cfg.Redis, cache.WithLogger(rt.Logger)).CreateStore(ctx)
		if err != nil {
			return nil, err
		}
		rt.onShutdown("snapshot cache", func(context.Context) error { return store.Close() })

		opts := []statsource.RestCountriesOption{statsource.WithLogger(rt.Logger)}
		if metrics != nil {
			opts = append(opts, statsource.WithRecorder(metrics))
		}
		live, err := statsource.NewRestCountriesSource(statsource.RestCountriesConfig{
			APIURL:   cfg.Countries.APIURL,
			CacheTTL: cfg.Countries.CacheTTL,
			Timeout:  cfg.Countries.Timeout,
		}, store, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create live source: %w", err)
		}
		sources = append(sources, live)
	}

	names := make([]string, 0, len(sources))
	for _, src := range sources {
		names = append(names, src.Name())
	}
	rt.Logger.Info("Population sources registered", zap.Strings("sources", names))
	return sources, nil
}

func (rt *Runtime) onShutdown(name string, fn func(context.Context) error) {
	rt.closers = append(rt.closers, closer{name: name, fn: fn})
}

// Shutdown releases everything New started, in reverse order
func (rt *Runtime) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		c := rt.closers[i]
		if err := c.fn(ctx); err != nil {
			rt.Logger.Error("Shutdown step failed", zap.String("component", c.name), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
		}
	}
	rt.closers = nil
	return errors.Join(errs...)
}
