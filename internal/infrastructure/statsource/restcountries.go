package statsource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/popstats/backend/internal/domain/population"
	"github.com/popstats/backend/internal/domain/shared"
	"github.com/popstats/backend/internal/infrastructure/telemetry"
)

const (
	// RestCountriesSourceName identifies the live source in logs and metrics
	RestCountriesSourceName = "restcountries"
	// CacheKey is the snapshot cache key for the live country list
	CacheKey = "CountryPopulations"
	// DefaultAPIURL is the public REST Countries endpoint
	DefaultAPIURL = "https://restcountries.com/v3.1/all"
	// DefaultCacheTTL is how long a fetched list is served from cache
	DefaultCacheTTL = 5 * time.Minute

	// DefaultMaxResponseSize bounds the response body that is read
	DefaultMaxResponseSize = 32 * 1024 * 1024
)

// Fetch outcomes reported to the SourceRecorder
const (
	OutcomeSuccess        = "success"
	OutcomeCacheHit       = "cache_hit"
	OutcomeHTTPStatus     = "http_status"
	OutcomeTransportError = "transport_error"
	OutcomeDecodeError    = "decode_error"
	OutcomeTooLarge       = "response_too_large"
)

// SourceRecorder receives cache lookup results and fetch outcomes
type SourceRecorder interface {
	RecordCacheLookup(ctx context.Context, source, result string)
	RecordSourceFetch(ctx context.Context, source, outcome string)
}

// RestCountriesConfig holds the live source settings
type RestCountriesConfig struct {
	APIURL   string
	CacheTTL time.Duration
	Timeout  time.Duration // 0 means no client timeout
}

// RestCountriesSource fetches country populations from the REST Countries API
// and keeps the parsed list in a snapshot cache
type RestCountriesSource struct {
	config     RestCountriesConfig
	cache      population.SnapshotCache
	httpClient *http.Client
	logger     *zap.Logger
	recorder   SourceRecorder
	maxBody    int64
	flight     singleflight.Group
}

// RestCountriesOption configures a RestCountriesSource
type RestCountriesOption func(*RestCountriesSource)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) RestCountriesOption {
	return func(s *RestCountriesSource) {
		s.logger = logger.Named(RestCountriesSourceName)
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(client *http.Client) RestCountriesOption {
	return func(s *RestCountriesSource) {
		s.httpClient = client
	}
}

// WithRecorder sets the metrics recorder
func WithRecorder(r SourceRecorder) RestCountriesOption {
	return func(s *RestCountriesSource) {
		s.recorder = r
	}
}

// WithMaxResponseSize sets the largest response body accepted, in bytes
func WithMaxResponseSize(n int64) RestCountriesOption {
	return func(s *RestCountriesSource) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// NewRestCountriesSource creates the live source
func NewRestCountriesSource(cfg RestCountriesConfig, cache population.SnapshotCache, opts ...RestCountriesOption) (*RestCountriesSource, error) {
	if cache == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "snapshot cache is required")
	}
	if strings.TrimSpace(cfg.APIURL) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "countries API URL is required")
	}
	if cfg.CacheTTL <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "cache TTL must be positive")
	}

	s := &RestCountriesSource{
		config:     cfg,
		cache:      cache,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     zap.NewNop(),
		maxBody:    DefaultMaxResponseSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name implements population.Source
func (s *RestCountriesSource) Name() string {
	return RestCountriesSourceName
}

// CountryPopulations returns the cached list, or fetches and caches it on a miss.
// Fetch failures are logged and yield an empty list. Concurrent callers on a miss
// share one request; a caller whose context ends stops waiting with ctx.Err().
func (s *RestCountriesSource) CountryPopulations(ctx context.Context) ([]population.CountryPopulation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if pops, ok := s.lookup(ctx); ok {
		return pops, nil
	}

	// The shared fetch must not be aborted by whichever caller started it
	fetchCtx := context.WithoutCancel(ctx)
	ch := s.flight.DoChan(CacheKey, func() (any, error) {
		if pops, ok := s.lookup(fetchCtx); ok {
			return pops, nil
		}
		return s.fetchAndStore(fetchCtx), nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		pops := res.Val.([]population.CountryPopulation)
		out := make([]population.CountryPopulation, len(pops))
		copy(out, pops)
		return out, nil
	}
}

// lookup reads the cache; errors are logged and treated as a miss
func (s *RestCountriesSource) lookup(ctx context.Context) ([]population.CountryPopulation, bool) {
	pops, ok, err := s.cache.Get(ctx, CacheKey)
	switch {
	case err != nil:
		s.logger.Warn("Failed to read country populations from cache.", zap.Error(err))
		s.recordLookup(ctx, "error")
		return nil, false
	case !ok:
		s.recordLookup(ctx, "miss")
		return nil, false
	default:
		s.recordLookup(ctx, "hit")
		s.recordFetch(ctx, OutcomeCacheHit)
		return pops, true
	}
}

// fetchAndStore performs the HTTP fetch and populates the cache on success
func (s *RestCountriesSource) fetchAndStore(ctx context.Context) []population.CountryPopulation {
	ctx, span := telemetry.StartClientSpan(ctx, "restcountries.fetch",
		telemetry.SpanSource.String(RestCountriesSourceName))
	defer span.End()

	body, outcome := s.fetch(ctx)
	if outcome != OutcomeSuccess {
		telemetry.RecordError(span, fmt.Errorf("countries API fetch failed: %s", outcome))
		s.recordFetch(ctx, outcome)
		return []population.CountryPopulation{}
	}

	pops, err := s.parse(body)
	if err != nil {
		s.logger.Error("JSON error while parsing country populations.", zap.Error(err))
		telemetry.RecordError(span, err)
		s.recordFetch(ctx, OutcomeDecodeError)
		return []population.CountryPopulation{}
	}
	span.SetAttributes(telemetry.SpanCountries.Int(len(pops)))

	if err := s.cache.Set(ctx, CacheKey, pops, s.config.CacheTTL); err != nil {
		s.logger.Warn("Failed to store country populations in cache.", zap.Error(err))
	}
	s.recordFetch(ctx, OutcomeSuccess)
	s.logger.Debug("Country populations fetched",
		zap.Int("countries", len(pops)),
		zap.Duration("ttl", s.config.CacheTTL))
	return pops
}

func (s *RestCountriesSource) fetch(ctx context.Context) ([]byte, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.APIURL, nil)
	if err != nil {
		s.logger.Error("HTTP error while fetching country populations.", zap.Error(err))
		return nil, OutcomeTransportError
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("HTTP error while fetching country populations.", zap.Error(err))
		return nil, OutcomeTransportError
	}
	defer resp.Body.Close()
	trace.SpanFromContext(ctx).SetAttributes(telemetry.SpanHTTPStatus.Int(resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.logger.Error("Failed to fetch data from the countries API.",
			zap.Int("status_code", resp.StatusCode))
		return nil, OutcomeHTTPStatus
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBody+1))
	if err != nil {
		s.logger.Error("HTTP error while fetching country populations.", zap.Error(err))
		return nil, OutcomeTransportError
	}
	if int64(len(body)) > s.maxBody {
		s.logger.Error("Countries API response too large.", zap.Int64("limit_bytes", s.maxBody))
		return nil, OutcomeTooLarge
	}
	return body, OutcomeSuccess
}

// apiCountry is the subset of a REST Countries element that is read
type apiCountry struct {
	Name *struct {
		Common string `json:"common"`
	} `json:"name"`
	Population json.RawMessage `json:"population"`
}

// parse decodes the top-level array. Malformed elements are skipped with a warning;
// only a malformed top level is an error.
func (s *RestCountriesSource) parse(body []byte) ([]population.CountryPopulation, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(body, &elements); err != nil {
		return nil, err
	}
	if elements == nil {
		return nil, fmt.Errorf("expected a JSON array, got null")
	}

	pops := make([]population.CountryPopulation, 0, len(elements))
	for _, raw := range elements {
		var c apiCountry
		if err := json.Unmarshal(raw, &c); err != nil || c.Name == nil || strings.TrimSpace(c.Name.Common) == "" {
			s.logger.Warn("Country name missing in the data.")
			continue
		}
		name := c.Name.Common

		value := bytes.TrimSpace(c.Population)
		if len(value) == 0 || bytes.Equal(value, []byte("null")) {
			s.logger.Warn("Population data missing for country", zap.String("country", name))
			continue
		}

		n, err := strconv.ParseInt(string(value), 10, 64)
		if err != nil || n < 0 {
			s.logger.Warn("Invalid population value for country",
				zap.String("country", name),
				zap.ByteString("value", value))
			continue
		}

		cp, err := population.NewCountryPopulation(name, n)
		if err != nil {
			s.logger.Warn("Invalid population value for country", zap.String("country", name), zap.Error(err))
			continue
		}
		pops = append(pops, cp)
	}
	return pops, nil
}

func (s *RestCountriesSource) recordLookup(ctx context.Context, result string) {
	if s.recorder != nil {
		s.recorder.RecordCacheLookup(ctx, RestCountriesSourceName, result)
	}
}

func (s *RestCountriesSource) recordFetch(ctx context.Context, outcome string) {
	if s.recorder != nil {
		s.recorder.RecordSourceFetch(ctx, RestCountriesSourceName, outcome)
	}
}

var _ population.Source = (*RestCountriesSource)(nil)
