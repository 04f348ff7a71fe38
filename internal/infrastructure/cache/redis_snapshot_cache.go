package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/popstats/backend/internal/domain/population"
)

// DefaultKeyPrefix namespaces snapshot keys in Redis
const DefaultKeyPrefix = "popstats:"

// RedisSnapshotCache implements SnapshotCache using Redis so that several
// processes share one population snapshot
type RedisSnapshotCache struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	KeyPrefix   string
	DialTimeout time.Duration
}

// snapshotEntry is the JSON form of a CountryPopulation
type snapshotEntry struct {
	Country    string `json:"country"`
	Population int64  `json:"population"`
}

// NewRedisSnapshotCache connects to Redis and verifies the connection
func NewRedisSnapshotCache(ctx context.Context, cfg RedisConfig) (*RedisSnapshotCache, error) {
	dialTimeout := cfg.DialTimeout
	if dialTimeout == 0 {
		dialTimeout = 5 * time.Second
	}
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: dialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisSnapshotCacheWithClient(client, cfg.KeyPrefix), nil
}

// NewRedisSnapshotCacheWithClient creates a cache over an existing client
func NewRedisSnapshotCacheWithClient(client *redis.Client, keyPrefix string) *RedisSnapshotCache {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &RedisSnapshotCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Get reads and decodes a snapshot; a missing key is a miss
func (c *RedisSnapshotCache) Get(ctx context.Context, key string) ([]population.CountryPopulation, bool, error) {
	data, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read snapshot %s: %w", key, err)
	}

	var entries []snapshotEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false, fmt.Errorf("failed to decode snapshot %s: %w", key, err)
	}

	out := make([]population.CountryPopulation, 0, len(entries))
	for _, e := range entries {
		cp, err := population.NewCountryPopulation(e.Country, e.Population)
		if err != nil {
			return nil, false, fmt.Errorf("corrupt snapshot %s: %w", key, err)
		}
		out = append(out, cp)
	}
	return out, true, nil
}

// Set encodes value as JSON and stores it with SET EX
func (c *RedisSnapshotCache) Set(ctx context.Context, key string, value []population.CountryPopulation, ttl time.Duration) error {
	data, err := encodeSnapshot(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.keyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisSnapshotCache) Close() error {
	return c.client.Close()
}

func encodeSnapshot(value []population.CountryPopulation) ([]byte, error) {
	entries := make([]snapshotEntry, len(value))
	for i, cp := range value {
		entries[i] = snapshotEntry{Country: cp.CountryName(), Population: cp.Population()}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// Ensure RedisSnapshotCache implements SnapshotCache
var _ population.SnapshotCache = (*RedisSnapshotCache)(nil)
