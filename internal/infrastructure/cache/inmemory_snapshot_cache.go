package cache

import (
	"context"
	"sync"
	"time"

	"github.com/popstats/backend/internal/domain/population"
)

// snapshot is a cached population list with its expiry
type snapshot struct {
	value     []population.CountryPopulation
	expiresAt time.Time
}

// InMemorySnapshotCache implements SnapshotCache with a mutex-guarded map.
// It is suitable for a single process; entries are lost on restart.
type InMemorySnapshotCache struct {
	mu        sync.RWMutex
	entries   map[string]snapshot
	now       func() time.Time
	interval  time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// InMemoryOption configures an InMemorySnapshotCache
type InMemoryOption func(*InMemorySnapshotCache)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) InMemoryOption {
	return func(c *InMemorySnapshotCache) {
		c.now = now
	}
}

// WithCleanupInterval sets how often expired entries are purged
func WithCleanupInterval(d time.Duration) InMemoryOption {
	return func(c *InMemorySnapshotCache) {
		c.interval = d
	}
}

// NewInMemorySnapshotCache creates the cache and starts its cleanup goroutine
func NewInMemorySnapshotCache(opts ...InMemoryOption) *InMemorySnapshotCache {
	c := &InMemorySnapshotCache{
		entries:  make(map[string]snapshot),
		now:      time.Now,
		interval: time.Minute,
		stopChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// Get returns a copy of the cached list; expired entries are misses
func (c *InMemorySnapshotCache) Get(ctx context.Context, key string) ([]population.CountryPopulation, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		if cur, still := c.entries[key]; still && !c.now().Before(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return clonePopulations(e.value), true, nil
}

// Set stores a copy of value until ttl elapses
func (c *InMemorySnapshotCache) Set(ctx context.Context, key string, value []population.CountryPopulation, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = snapshot{
		value:     clonePopulations(value),
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (c *InMemorySnapshotCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// Size returns the number of stored entries, expired or not
func (c *InMemorySnapshotCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *InMemorySnapshotCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.purgeExpired()
		}
	}
}

func (c *InMemorySnapshotCache) purgeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func clonePopulations(in []population.CountryPopulation) []population.CountryPopulation {
	if in == nil {
		return nil
	}
	out := make([]population.CountryPopulation, len(in))
	copy(out, in)
	return out
}

// Ensure InMemorySnapshotCache implements SnapshotCache
var _ population.SnapshotCache = (*InMemorySnapshotCache)(nil)
