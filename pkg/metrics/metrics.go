// Package metrics exposes the core's operational gauges and counters on a
// caller-supplied prometheus registry. The host decides whether and where to
// serve them; the core only updates values from its tick.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector prometheus instruments for the lifecycle core
type Collector struct {
	PoolSize          prometheus.Gauge
	ReadySlots        *prometheus.GaugeVec
	OpenReservations  prometheus.Gauge
	PendingRequests   prometheus.Gauge
	FactoryQueueDepth prometheus.Gauge
	WarmingSlots      prometheus.Gauge

	Assignments    prometheus.Counter
	Expirations    prometheus.Counter
	WarmupFailures prometheus.Counter
	DriftRebuilds  prometheus.Counter
}

// NewCollector registers the core's instruments on reg. Pass
// prometheus.DefaultRegisterer for the process-wide registry or a fresh one
// in tests.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		PoolSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "botpool_slots_total",
			Help: "Live (non-empty) slots in the pool.",
		}),
		ReadySlots: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "botpool_ready_slots",
			Help: "Ready slots per role, faction and level bracket.",
		}, []string{"role", "faction", "bracket"}),
		OpenReservations: factory.NewGauge(prometheus.GaugeOpts{
			Name: "botpool_open_reservations",
			Help: "Reservations currently holding slots.",
		}),
		PendingRequests: factory.NewGauge(prometheus.GaugeOpts{
			Name: "botpool_pending_requests",
			Help: "Requests waiting on factory overflow.",
		}),
		FactoryQueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "botpool_factory_queue_depth",
			Help: "Fabrication requests accepted but not completed.",
		}),
		WarmingSlots: factory.NewGauge(prometheus.GaugeOpts{
			Name: "botpool_warming_slots",
			Help: "Slots between character creation and a live session.",
		}),
		Assignments: factory.NewCounter(prometheus.CounterOpts{
			Name: "botpool_assignments_total",
			Help: "Rosters shipped into content instances.",
		}),
		Expirations: factory.NewCounter(prometheus.CounterOpts{
			Name: "botpool_reservation_expirations_total",
			Help: "Reservations that hit their deadline unfulfilled.",
		}),
		WarmupFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "botpool_warmup_failures_total",
			Help: "Slots retired after exhausting the warmup retry budget.",
		}),
		DriftRebuilds: factory.NewCounter(prometheus.CounterOpts{
			Name: "botpool_index_rebuilds_total",
			Help: "Ready-index rebuilds triggered by integrity drift.",
		}),
	}
}
