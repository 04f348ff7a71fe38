package telemetry_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/popstats/backend/internal/infrastructure/telemetry"
)

func TestNewDBPoolMetrics_Validation(t *testing.T) {
	_, err := telemetry.NewDBPoolMetrics(nil, &sql.DB{})
	assert.ErrorContains(t, err, "meter cannot be nil")

	_, err = telemetry.NewDBPoolMetrics(noop.NewMeterProvider().Meter("test"), nil)
	assert.ErrorContains(t, err, "db cannot be nil")
}

func TestDBPoolMetrics_Observe(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(3)
	require.NoError(t, db.Ping())

	reader, mp := newManualMeter(t)
	m, err := telemetry.NewDBPoolMetrics(mp.Meter("test"), db)
	require.NoError(t, err)

	rm := collect(t, reader)
	maxOpen := findMetric(t, rm, "popstats.db.pool.connections_max")
	gauge, ok := maxOpen.Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(3), gauge.DataPoints[0].Value)

	conns := findMetric(t, rm, "popstats.db.pool.connections")
	states, ok := conns.Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	assert.Len(t, states.DataPoints, 2)

	require.NoError(t, m.Stop())
}
