// Package metrics exposes the scheduler's Prometheus collectors.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// TicksSucceeded tracks successfully advanced worlds.
	TicksSucceeded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "daytick_ticks_succeeded_total",
		Help: "Total number of successful world day advances",
	})
	// TicksSkipped tracks worlds skipped because another worker held the lock.
	TicksSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "daytick_ticks_skipped_total",
		Help: "Total number of world ticks skipped due to held locks",
	})
	// TicksFailed tracks failed world advances.
	TicksFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "daytick_ticks_failed_total",
		Help: "Total number of failed world day advances",
	})
	// BatchesSubmitted tracks batches handed to the worker queue.
	BatchesSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "daytick_batches_submitted_total",
		Help: "Total number of batches submitted to the worker queue",
	})
	// CyclesSkipped tracks dispatch cycles skipped because a previous cycle
	// still held the all-worlds lock.
	CyclesSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "daytick_cycles_skipped_total",
		Help: "Total number of dispatch cycles skipped due to a held cycle lock",
	})
	// WorldsTotal reports the world count seen by the last dispatch cycle.
	WorldsTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "daytick_worlds",
		Help: "Number of worlds seen by the most recent dispatch cycle",
	})
	// DispatchDuration observes the wall time of one dispatch cycle.
	DispatchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "daytick_dispatch_duration_seconds",
		Help:    "Duration of one dispatch cycle",
		Buckets: prometheus.DefBuckets,
	})
)

// NewRegistry creates a new Prometheus registry.
func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// RegisterCoreMetrics registers the scheduler metrics on the provided registry.
func RegisterCoreMetrics(reg prometheus.Registerer) {
	reg.MustRegister(
		TicksSucceeded,
		TicksSkipped,
		TicksFailed,
		BatchesSubmitted,
		CyclesSkipped,
		WorldsTotal,
		DispatchDuration,
	)
}
