package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Domain holds the HR-specific collectors. A nil *Domain records nothing.
type Domain struct {
	reconcile   *prometheus.CounterVec
	bulkItems   *prometheus.CounterVec
	droppedRows *prometheus.CounterVec
	dbDuration  *prometheus.HistogramVec
}

// NewDomain registers the domain collectors on reg using prefix for metric names
func NewDomain(reg prometheus.Registerer, prefix string) *Domain {
	factory := promauto.With(reg)
	return &Domain{
		reconcile: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_attendance_reconcile_total",
				Help: "Attendance reconciliations by outcome",
			},
			[]string{"outcome"},
		),
		bulkItems: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_bulk_items_total",
				Help: "Items processed by bulk operations by entity and outcome",
			},
			[]string{"entity", "outcome"},
		),
		droppedRows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_import_rows_dropped_total",
				Help: "Import rows dropped before bulk creation",
			},
			[]string{"entity"},
		),
		dbDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_db_operation_duration_seconds",
				Help:    "Duration of database operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordReconcile counts one single-record reconciliation
func (d *Domain) RecordReconcile(outcome string) {
	if d == nil {
		return
	}
	d.reconcile.WithLabelValues(outcome).Inc()
}

// RecordBulk adds the tallies of one bulk call
func (d *Domain) RecordBulk(entity string, created, updated, failed int) {
	if d == nil {
		return
	}
	d.bulkItems.WithLabelValues(entity, "created").Add(float64(created))
	d.bulkItems.WithLabelValues(entity, "updated").Add(float64(updated))
	d.bulkItems.WithLabelValues(entity, "failed").Add(float64(failed))
}

// RecordDropped counts import rows that never became candidates
func (d *Domain) RecordDropped(entity string, n int) {
	if d == nil || n == 0 {
		return
	}
	d.droppedRows.WithLabelValues(entity).Add(float64(n))
}

// TrackDBOperation returns a function that records the duration of a database operation
func (d *Domain) TrackDBOperation(operation string) func() {
	if d == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		d.dbDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
