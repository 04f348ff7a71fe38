package population

import (
	"context"
	"time"
)

// Source supplies country-level population figures from outside the location store.
//
// Implementations recover their own fetch failures (network, HTTP status, malformed
// payloads) and report them by returning an empty slice with a nil error. A non-nil
// error is reserved for the caller's context being cancelled.
type Source interface {
	Name() string
	CountryPopulations(ctx context.Context) ([]CountryPopulation, error)
}

// FetchResult is the outcome of an asynchronous fetch.
type FetchResult struct {
	Source      string
	Populations []CountryPopulation
	Err         error
}

// FetchAsync runs src.CountryPopulations on its own goroutine. The returned channel
// receives exactly one result and is then closed.
func FetchAsync(ctx context.Context, src Source) <-chan FetchResult {
	ch := make(chan FetchResult, 1)
	go func() {
		defer close(ch)
		pops, err := src.CountryPopulations(ctx)
		ch <- FetchResult{Source: src.Name(), Populations: pops, Err: err}
	}()
	return ch
}

// LocationReader reads the country -> state -> city hierarchy.
type LocationReader interface {
	LocationRows(ctx context.Context) ([]LocationRow, error)
}

// SnapshotCache stores country population lists under a key for a limited time.
// A miss is reported as (nil, false, nil).
type SnapshotCache interface {
	Get(ctx context.Context, key string) ([]CountryPopulation, bool, error)
	Set(ctx context.Context, key string, value []CountryPopulation, ttl time.Duration) error
}
