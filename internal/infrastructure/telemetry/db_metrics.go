package telemetry

import (
	"context"
	"database/sql"
	"time"

	"go.opentelemetry.io/otel/metric"
	"gorm.io/gorm"
)

// DBMetrics records query counts, latency and connection pool state.
type DBMetrics struct {
	queryTotal     *Counter
	queryDuration  *Histogram
	slowQueryTotal *Counter
	slowThreshold  time.Duration
	registration   metric.Registration
}

// NewDBMetrics creates the query instruments and, when sqlDB is not nil,
// an observable gauge reading sqlDB.Stats on each collection.
func NewDBMetrics(meter metric.Meter, sqlDB *sql.DB, slowThreshold time.Duration) (*DBMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if slowThreshold <= 0 {
		slowThreshold = 200 * time.Millisecond
	}
	m := &DBMetrics{slowThreshold: slowThreshold}

	var err error
	if m.queryTotal, err = NewCounter(meter, "db_query_total", "Database statements by verb", "{query}"); err != nil {
		return nil, err
	}
	if m.queryDuration, err = NewHistogram(meter, "db_query_duration_seconds", "Database statement latency", DBDurationBuckets); err != nil {
		return nil, err
	}
	if m.slowQueryTotal, err = NewCounter(meter, "db_slow_query_total", "Statements slower than the threshold", "{query}"); err != nil {
		return nil, err
	}

	if sqlDB != nil {
		conns, err := meter.Int64ObservableGauge("db_pool_connections",
			metric.WithDescription("Pool connections by state"),
			metric.WithUnit("{connection}"))
		if err != nil {
			return nil, err
		}
		m.registration, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
			stats := sqlDB.Stats()
			o.ObserveInt64(conns, int64(stats.Idle), metric.WithAttributes(AttrDBState.String("idle")))
			o.ObserveInt64(conns, int64(stats.InUse), metric.WithAttributes(AttrDBState.String("in_use")))
			o.ObserveInt64(conns, int64(stats.OpenConnections), metric.WithAttributes(AttrDBState.String("open")))
			return nil
		}, conns)
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordQuery records one statement.
func (m *DBMetrics) RecordQuery(ctx context.Context, verb, table string, elapsed time.Duration) {
	m.queryTotal.Inc(ctx, AttrDBOperation.String(verb))
	m.queryDuration.RecordDuration(ctx, elapsed, AttrDBOperation.String(verb))
	if elapsed > m.slowThreshold {
		if table == "" {
			table = "unknown"
		}
		m.slowQueryTotal.Inc(ctx, AttrDBTable.String(table))
	}
}

// Register hooks the metrics into db's callbacks.
func (m *DBMetrics) Register(db *gorm.DB) error {
	return registerAround(db, "cuadre_metrics", markQueryStart, func(tx *gorm.DB, verb string) {
		elapsed, ok := queryElapsed(tx)
		if !ok {
			return
		}
		m.RecordQuery(tx.Statement.Context, verb, tx.Statement.Table, elapsed)
	})
}

// Stop unregisters the pool gauge callback.
func (m *DBMetrics) Stop() error {
	if m.registration == nil {
		return nil
	}
	return m.registration.Unregister()
}
