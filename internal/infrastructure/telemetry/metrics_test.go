package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"

	"github.com/popstats/backend/internal/infrastructure/telemetry"
)

func TestMeterProvider_EnabledWithReader(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:     true,
		ServiceName: "popstats-test",
		Reader:      reader,
	}, zap.NewNop())
	require.NoError(t, err)
	defer mp.Shutdown(ctx)
	assert.True(t, mp.IsEnabled())

	meter := mp.Meter("popstats-test")
	counter, err := telemetry.NewCounter(meter, "popstats.test.runs", "runs", "{runs}")
	require.NoError(t, err)
	hist, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:       "popstats.test.duration",
		Unit:       "s",
		Boundaries: telemetry.AggregationDurationBuckets,
	})
	require.NoError(t, err)

	counter.Inc(ctx, telemetry.AttrOperation.String("total_by_country"))
	counter.Inc(ctx, telemetry.AttrOperation.String("total_by_country"))
	hist.RecordDuration(ctx, 250*time.Millisecond, telemetry.AttrOperation.String("total_by_country"))

	rm := collect(t, reader)
	assert.Equal(t, int64(2), sumFor(t, findMetric(t, rm, "popstats.test.runs"),
		telemetry.AttrOperation.String("total_by_country")))

	h, ok := findMetric(t, rm, "popstats.test.duration").Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, h.DataPoints, 1)
	assert.Equal(t, uint64(1), h.DataPoints[0].Count)
	assert.InDelta(t, 0.25, h.DataPoints[0].Sum, 1e-9)
	assert.Equal(t, telemetry.AggregationDurationBuckets, h.DataPoints[0].Bounds)
}
