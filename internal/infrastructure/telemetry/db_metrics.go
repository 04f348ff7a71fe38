package telemetry

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// DBPoolMetrics exports connection pool statistics as observable gauges.
type DBPoolMetrics struct {
	registration metric.Registration
}

// NewDBPoolMetrics registers a callback that reads db.Stats() on every collection.
func NewDBPoolMetrics(meter metric.Meter, db *sql.DB) (*DBPoolMetrics, error) {
	if meter == nil {
		return nil, &MetricsError{Op: "NewDBPoolMetrics", Err: "meter cannot be nil"}
	}
	if db == nil {
		return nil, &MetricsError{Op: "NewDBPoolMetrics", Err: "db cannot be nil"}
	}

	connections, err := meter.Int64ObservableGauge("popstats.db.pool.connections",
		metric.WithDescription("Number of connections in the pool by state"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gauge popstats.db.pool.connections: %w", err)
	}

	maxOpen, err := meter.Int64ObservableGauge("popstats.db.pool.connections_max",
		metric.WithDescription("Maximum number of open connections"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gauge popstats.db.pool.connections_max: %w", err)
	}

	waits, err := meter.Int64ObservableCounter("popstats.db.pool.wait_count",
		metric.WithDescription("Total number of connections waited for"),
		metric.WithUnit("{wait}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter popstats.db.pool.wait_count: %w", err)
	}

	reg, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := db.Stats()
		o.ObserveInt64(connections, int64(stats.InUse), metric.WithAttributes(AttrDBState.String("in_use")))
		o.ObserveInt64(connections, int64(stats.Idle), metric.WithAttributes(AttrDBState.String("idle")))
		o.ObserveInt64(maxOpen, int64(stats.MaxOpenConnections))
		o.ObserveInt64(waits, stats.WaitCount)
		return nil
	}, connections, maxOpen, waits)
	if err != nil {
		return nil, fmt.Errorf("failed to register pool callback: %w", err)
	}

	return &DBPoolMetrics{registration: reg}, nil
}

// Stop unregisters the callback.
func (m *DBPoolMetrics) Stop() error {
	return m.registration.Unregister()
}
