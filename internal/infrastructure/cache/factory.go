package cache

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/popstats/backend/internal/domain/population"
	"github.com/popstats/backend/internal/infrastructure/config"
)

// Store is a SnapshotCache that holds resources
type Store interface {
	population.SnapshotCache
	io.Closer
}

// SnapshotCacheFactory creates the snapshot cache from configuration
type SnapshotCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*SnapshotCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *SnapshotCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to the
// in-memory cache. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *SnapshotCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewSnapshotCacheFactory creates a new factory
func NewSnapshotCacheFactory(cfg config.RedisConfig, opts ...FactoryOption) *SnapshotCacheFactory {
	f := &SnapshotCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore returns the Redis cache when redis.enabled is set and reachable,
// otherwise the in-memory cache
func (f *SnapshotCacheFactory) CreateStore(ctx context.Context) (Store, error) {
	if !f.redisConfig.Enabled {
		f.logger.Debug("Using in-memory snapshot cache")
		return NewInMemorySnapshotCache(), nil
	}

	store, err := NewRedisSnapshotCache(ctx, RedisConfig{
		Addr:      f.redisConfig.Address(),
		Password:  f.redisConfig.Password,
		DB:        f.redisConfig.DB,
		KeyPrefix: f.redisConfig.KeyPrefix,
	})
	if err == nil {
		f.logger.Info("Using Redis snapshot cache", zap.String("addr", f.redisConfig.Address()))
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis snapshot cache unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory snapshot cache. "+
		"Processes will not share cached populations.",
		zap.Error(err),
	)
	return NewInMemorySnapshotCache(), nil
}
