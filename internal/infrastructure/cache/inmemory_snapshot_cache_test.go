package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popstats/backend/internal/domain/population"
)

// fakeClock is a manually advanced clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func samplePopulations(t *testing.T) []population.CountryPopulation {
	t.Helper()
	a, err := population.NewCountryPopulation("Chile", 17094270)
	require.NoError(t, err)
	b, err := population.NewCountryPopulation("Mali", 15370000)
	require.NoError(t, err)
	return []population.CountryPopulation{a, b}
}

func TestInMemorySnapshotCache_GetSet(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewInMemorySnapshotCache(WithClock(clock.Now))
	defer c.Close()

	ctx := context.Background()
	pops := samplePopulations(t)

	t.Run("miss on empty cache", func(t *testing.T) {
		got, ok, err := c.Get(ctx, "CountryPopulations")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("hit before expiry", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "CountryPopulations", pops, 5*time.Minute))
		clock.Advance(4 * time.Minute)

		got, ok, err := c.Get(ctx, "CountryPopulations")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, pops, got)
	})

	t.Run("miss at expiry and entry dropped", func(t *testing.T) {
		clock.Advance(time.Minute)

		_, ok, err := c.Get(ctx, "CountryPopulations")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Zero(t, c.Size())
	})

	t.Run("stored value is isolated from the caller", func(t *testing.T) {
		value := samplePopulations(t)
		require.NoError(t, c.Set(ctx, "k", value, time.Minute))
		value[0], _ = population.NewCountryPopulation("Changed", 1)

		got, ok, err := c.Get(ctx, "k")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "Chile", got[0].CountryName())
	})

	t.Run("empty list is a hit", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "empty", []population.CountryPopulation{}, time.Minute))
		got, ok, err := c.Get(ctx, "empty")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, got)
	})
}

func TestInMemorySnapshotCache_Cleanup(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	c := NewInMemorySnapshotCache(WithClock(clock.Now), WithCleanupInterval(5*time.Millisecond))
	defer c.Close()

	require.NoError(t, c.Set(context.Background(), "a", samplePopulations(t), time.Second))
	require.NoError(t, c.Set(context.Background(), "b", samplePopulations(t), time.Hour))
	clock.Advance(time.Minute)

	assert.Eventually(t, func() bool { return c.Size() == 1 }, time.Second, 5*time.Millisecond)
}

func TestInMemorySnapshotCache_Close(t *testing.T) {
	c := NewInMemorySnapshotCache()
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close(), "close is idempotent")
}

func TestInMemorySnapshotCache_Concurrent(t *testing.T) {
	c := NewInMemorySnapshotCache()
	defer c.Close()

	ctx := context.Background()
	pops := samplePopulations(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = c.Set(ctx, "k", pops, time.Minute)
				_, _, _ = c.Get(ctx, "k")
			}
		}()
	}
	wg.Wait()

	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, pops, got)
}
