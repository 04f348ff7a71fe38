package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewPopulationMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

// PopulationMetrics records aggregation runs, source fetches and snapshot cache lookups.
type PopulationMetrics struct {
	logger *zap.Logger

	aggregationDuration *Histogram
	aggregationTotal    *Counter
	sourceFetchTotal    *Counter
	cacheLookupTotal    *Counter
}

// NewPopulationMetrics creates the instruments on the given meter.
func NewPopulationMetrics(meter metric.Meter, logger *zap.Logger) (*PopulationMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	pm := &PopulationMetrics{logger: logger}

	var err error
	pm.aggregationDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "popstats.aggregation.duration",
		Description: "Duration of population aggregation runs",
		Unit:        "s",
		Boundaries:  AggregationDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	pm.aggregationTotal, err = NewCounter(meter,
		"popstats.aggregation.total",
		"Total number of population aggregation runs",
		"{runs}",
	)
	if err != nil {
		return nil, err
	}

	pm.sourceFetchTotal, err = NewCounter(meter,
		"popstats.source.fetch",
		"Population source fetches by outcome",
		"{fetches}",
	)
	if err != nil {
		return nil, err
	}

	pm.cacheLookupTotal, err = NewCounter(meter,
		"popstats.cache.lookup",
		"Snapshot cache lookups by result",
		"{lookups}",
	)
	if err != nil {
		return nil, err
	}

	return pm, nil
}

// RecordAggregation records one TotalByCountry or DetailsByLocation run.
func (pm *PopulationMetrics) RecordAggregation(ctx context.Context, operation string, elapsed time.Duration, err error) {
	status := "ok"
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = "cancelled"
	case err != nil:
		status = "error"
	}

	pm.aggregationDuration.RecordDuration(ctx, elapsed, AttrOperation.String(operation), AttrStatus.String(status))
	pm.aggregationTotal.Inc(ctx, AttrOperation.String(operation), AttrStatus.String(status))
}

// RecordSourceFetch records the outcome of a source fetch.
func (pm *PopulationMetrics) RecordSourceFetch(ctx context.Context, source, outcome string) {
	pm.sourceFetchTotal.Inc(ctx, AttrSource.String(source), AttrOutcome.String(outcome))
}

// RecordCacheLookup records a snapshot cache hit, miss or error.
func (pm *PopulationMetrics) RecordCacheLookup(ctx context.Context, source, result string) {
	pm.cacheLookupTotal.Inc(ctx, AttrSource.String(source), AttrResult.String(result))
}
