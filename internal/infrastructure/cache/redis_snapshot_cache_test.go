package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/popstats/backend/internal/infrastructure/config"
)

// unreachableAddr is a local port nothing listens on
const unreachableAddr = "127.0.0.1:1"

func TestNewRedisSnapshotCache_Unreachable(t *testing.T) {
	_, err := NewRedisSnapshotCache(context.Background(), RedisConfig{
		Addr:        unreachableAddr,
		DialTimeout: 200 * time.Millisecond,
	})
	assert.ErrorContains(t, err, "failed to connect to Redis")
}

func TestRedisSnapshotCache_ErrorsAreReturned(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        unreachableAddr,
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := NewRedisSnapshotCacheWithClient(client, "")
	defer c.Close()

	ctx := context.Background()
	_, ok, err := c.Get(ctx, "CountryPopulations")
	assert.Error(t, err)
	assert.False(t, ok)

	assert.Error(t, c.Set(ctx, "CountryPopulations", samplePopulations(t), time.Minute))
	assert.Equal(t, DefaultKeyPrefix, c.keyPrefix)
}

func TestEncodeSnapshot(t *testing.T) {
	data, err := encodeSnapshot(samplePopulations(t))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"country":"Chile","population":17094270},{"country":"Mali","population":15370000}]`, string(data))
}

func TestSnapshotCacheFactory_CreateStore(t *testing.T) {
	ctx := context.Background()

	t.Run("redis disabled uses in-memory", func(t *testing.T) {
		store, err := NewSnapshotCacheFactory(config.RedisConfig{}).CreateStore(ctx)
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemorySnapshotCache{}, store)
	})

	t.Run("unreachable redis falls back with a warning", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		f := NewSnapshotCacheFactory(config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1},
			WithLogger(zap.New(core)))

		store, err := f.CreateStore(ctx)
		require.NoError(t, err)
		defer store.Close()

		assert.IsType(t, &InMemorySnapshotCache{}, store)
		assert.Equal(t, 1, logs.Len())
	})

	t.Run("fallback can be disabled", func(t *testing.T) {
		f := NewSnapshotCacheFactory(config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1},
			WithInMemoryFallback(false))

		store, err := f.CreateStore(ctx)
		assert.Nil(t, store)
		assert.ErrorContains(t, err, "redis snapshot cache unavailable")
	})
}
