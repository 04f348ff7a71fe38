package population

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/popstats/backend/internal/domain/population"
	"github.com/popstats/backend/internal/domain/shared"
	"github.com/popstats/backend/internal/infrastructure/telemetry"
)

// AggregationRecorder receives the duration of each aggregator operation.
type AggregationRecorder interface {
	RecordAggregation(ctx context.Context, operation string, elapsed time.Duration, err error)
}

// Operation names passed to AggregationRecorder.
const (
	OperationTotalByCountry    = "total_by_country"
	OperationDetailsByLocation = "details_by_location"
)

// AggregatorService merges location store sums with population sources.
type AggregatorService struct {
	reader       population.LocationReader
	sources      []population.Source
	standardizer *population.NameStandardizer
	policy       population.MergePolicy
	concurrent   bool
	logger       *zap.Logger
	recorder     AggregationRecorder
}

// Option configures an AggregatorService.
type Option func(*AggregatorService)

// WithMergePolicy sets how source values are merged into existing countries.
func WithMergePolicy(p population.MergePolicy) Option {
	return func(s *AggregatorService) {
		s.policy = p
	}
}

// WithConcurrentSources fetches all sources at once. Results are still merged in
// registration order.
func WithConcurrentSources(enabled bool) Option {
	return func(s *AggregatorService) {
		s.concurrent = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *AggregatorService) {
		s.logger = logger
	}
}

// WithMetrics sets the recorder for operation durations.
func WithMetrics(r AggregationRecorder) Option {
	return func(s *AggregatorService) {
		s.recorder = r
	}
}

// NewAggregatorService creates an aggregator. Sources are consulted in the order given.
func NewAggregatorService(
	reader population.LocationReader,
	sources []population.Source,
	standardizer *population.NameStandardizer,
	opts ...Option,
) (*AggregatorService, error) {
	if reader == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "location reader is required")
	}
	if standardizer == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "name standardizer is required")
	}
	for i, src := range sources {
		if src == nil {
			return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("population source %d is nil", i))
		}
	}

	s := &AggregatorService{
		reader:       reader,
		sources:      append([]population.Source(nil), sources...),
		standardizer: standardizer,
		policy:       population.MergeDBWins,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Setup describes how an aggregator is configured.
type Setup struct {
	Sources     []string
	MergePolicy population.MergePolicy
	Concurrent  bool
}

// Describe reports the source names in consultation order and the merge settings.
func (s *AggregatorService) Describe() Setup {
	names := make([]string, len(s.sources))
	for i, src := range s.sources {
		names[i] = src.Name()
	}
	return Setup{Sources: names, MergePolicy: s.policy, Concurrent: s.concurrent}
}

// TotalByCountry sums city populations per standardized country and merges in
// every source's country totals under the configured merge policy.
func (s *AggregatorService) TotalByCountry(ctx context.Context) (totals *population.CountryTotals, err error) {
	ctx, span := telemetry.StartAggregatorSpan(ctx, OperationTotalByCountry,
		telemetry.SpanMergePolicy.String(string(s.policy)),
		telemetry.SpanSourceCount.Int(len(s.sources)),
		telemetry.SpanConcurrent.Bool(s.concurrent),
	)
	defer span.End()
	defer s.record(ctx, span, OperationTotalByCountry, time.Now(), &err)

	rows, err := s.reader.LocationRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("read locations: %w", err)
	}

	totals = population.NewCountryTotals()
	for _, row := range rows {
		totals.Add(s.standardizer.Standardize(row.CountryName), row.Population)
	}
	span.SetAttributes(telemetry.SpanRows.Int(len(rows)))
	s.logger.Debug("Location store totals computed",
		zap.Int("rows", len(rows)),
		zap.Int("countries", totals.Len()))

	results, err := s.fetchSources(ctx)
	if err != nil {
		return nil, err
	}
	for _, res := range results {
		s.merge(totals, res)
	}
	span.SetAttributes(telemetry.SpanCountries.Int(totals.Len()))
	return totals, nil
}

// DetailsByLocation builds the country -> state -> city breakdown of the location store.
func (s *AggregatorService) DetailsByLocation(ctx context.Context) (details *population.LocationDetails, err error) {
	ctx, span := telemetry.StartAggregatorSpan(ctx, OperationDetailsByLocation)
	defer span.End()
	defer s.record(ctx, span, OperationDetailsByLocation, time.Now(), &err)

	rows, err := s.reader.LocationRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("read locations: %w", err)
	}

	details = population.NewLocationDetails()
	for _, row := range rows {
		details.Put(s.standardizer.Standardize(row.CountryName), row.StateName, row.CityName, row.Population)
	}
	span.SetAttributes(
		telemetry.SpanRows.Int(len(rows)),
		telemetry.SpanCountries.Int(details.Len()),
	)
	return details, nil
}

// fetchSources returns one result per source in registration order.
func (s *AggregatorService) fetchSources(ctx context.Context) ([]population.FetchResult, error) {
	results := make([]population.FetchResult, len(s.sources))

	if !s.concurrent {
		for i, src := range s.sources {
			pops, err := src.CountryPopulations(ctx)
			if err != nil {
				return nil, fmt.Errorf("fetch source %s: %w", src.Name(), err)
			}
			results[i] = population.FetchResult{Source: src.Name(), Populations: pops}
		}
		return results, nil
	}

	pending := make([]<-chan population.FetchResult, len(s.sources))
	for i, src := range s.sources {
		pending[i] = population.FetchAsync(ctx, src)
	}
	for i, ch := range pending {
		res := <-ch
		if res.Err != nil {
			return nil, fmt.Errorf("fetch source %s: %w", res.Source, res.Err)
		}
		results[i] = res
	}
	return results, nil
}

func (s *AggregatorService) merge(totals *population.CountryTotals, res population.FetchResult) {
	added, collided := 0, 0
	for _, cp := range res.Populations {
		name := s.standardizer.Standardize(cp.CountryName())
		if totals.Contains(name) {
			collided++
			if !totals.Merge(name, cp.Population(), s.policy) {
				s.logger.Debug("Source value ignored for existing country",
					zap.String("source", res.Source),
					zap.String("country", name),
					zap.Int64("population", cp.Population()))
			}
			continue
		}
		totals.Merge(name, cp.Population(), s.policy)
		added++
	}
	s.logger.Debug("Source merged",
		zap.String("source", res.Source),
		zap.String("policy", string(s.policy)),
		zap.Int("added", added),
		zap.Int("collided", collided))
}

func (s *AggregatorService) record(ctx context.Context, span trace.Span, operation string, start time.Time, err *error) {
	telemetry.RecordError(span, *err)
	if s.recorder == nil {
		return
	}
	s.recorder.RecordAggregation(ctx, operation, time.Since(start), *err)
}
