package telemetry_test

import (
	"context"
	"runtime/pprof"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/popstats/backend/internal/infrastructure/config"
	"github.com/popstats/backend/internal/infrastructure/telemetry"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	ctx := context.Background()

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     1.0,
		ServiceName:       "test-service",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.EnableSpanProfiles())
	assert.False(t, tp.IsSpanProfilesEnabled())
	assert.NoError(t, tp.ForceFlush(ctx))
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestNewTracerProvider_Enabled(t *testing.T) {
	// Needs a collector on localhost:14317
	if testing.Short() {
		t.Skip("Skipping collector test in short mode")
	}

	ctx := context.Background()
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           true,
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     0.5,
		ServiceName:       "test-service",
		Insecure:          true,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.True(t, tp.IsEnabled())

	_, span := tp.Tracer("test").Start(ctx, "test-span")
	span.End()

	require.NoError(t, tp.EnableSpanProfiles())
	assert.True(t, tp.IsSpanProfilesEnabled())
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{ServiceName: "test"}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.ForceFlush(ctx))
	assert.NoError(t, mp.Shutdown(ctx))
}

func TestConfigFrom(t *testing.T) {
	tc := config.TelemetryConfig{
		Enabled:           true,
		CollectorEndpoint: "otel:4317",
		SamplingRatio:     0.25,
		ServiceName:       "popstats",
		Insecure:          true,
		ExportInterval:    30_000_000_000,
	}

	cfg := telemetry.ConfigFrom(tc)
	assert.Equal(t, telemetry.Config{
		Enabled:           true,
		CollectorEndpoint: "otel:4317",
		SamplingRatio:     0.25,
		ServiceName:       "popstats",
		Insecure:          true,
	}, cfg)

	mcfg := telemetry.MetricsConfigFrom(tc)
	assert.Equal(t, tc.ExportInterval, mcfg.ExportInterval)
	assert.Equal(t, "otel:4317", mcfg.CollectorEndpoint)
}

func TestNewProfiler(t *testing.T) {
	t.Run("disabled is a no-op", func(t *testing.T) {
		p, err := telemetry.NewProfiler(telemetry.ProfilerConfig{}, zap.NewNop())
		require.NoError(t, err)
		assert.False(t, p.IsEnabled())
		assert.NoError(t, p.Stop())
		assert.NoError(t, p.Stop())
	})

	t.Run("address required", func(t *testing.T) {
		_, err := telemetry.NewProfiler(telemetry.ProfilerConfig{Enabled: true, ApplicationName: "popstats"}, zap.NewNop())
		assert.ErrorContains(t, err, "server address is required")
	})

	t.Run("application name required", func(t *testing.T) {
		_, err := telemetry.NewProfiler(telemetry.ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040"}, zap.NewNop())
		assert.ErrorContains(t, err, "application name is required")
	})
}

func TestWithProfilingLabels(t *testing.T) {
	ctx := context.Background()

	t.Run("runs fn without labels", func(t *testing.T) {
		called := false
		telemetry.WithProfilingLabels(ctx, nil, func(context.Context) { called = true })
		assert.True(t, called)
	})

	t.Run("attaches sanitized labels", func(t *testing.T) {
		long := strings.Repeat("x", 300)
		var got map[string]string
		telemetry.WithProfilingLabels(ctx, map[string]string{
			telemetry.ProfilingLabelOperation: "total_by_country",
			telemetry.ProfilingLabelRoute:     long,
			"empty":                           "",
		}, func(c context.Context) {
			got = map[string]string{}
			pprof.ForLabels(c, func(k, v string) bool {
				got[k] = v
				return true
			})
		})
		assert.Equal(t, "total_by_country", got["operation"])
		assert.Len(t, got["route"], 128)
		assert.NotContains(t, got, "empty")
	})
}
