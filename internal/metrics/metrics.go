// Package metrics defines the Prometheus instrumentation wired around
// the Transition Executor and Scheduler jobs (SPEC_FULL §1 ambient
// stack). Grounded on the CounterVec/HistogramVec struct-of-metrics
// shape used across the example corpus (e.g. the Metrics struct in
// api_gateway/src/monitor/monitor.go), adapted to a single Registry
// value passed explicitly through internal/app instead of a package
// singleton.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds every metric this module exports. One Registry is
// constructed during internal/app wiring and reaches the Executor and
// Scheduler through TransitionRecorder and SchedulerRecorder.
// PriceQuotesTotal, AvailabilityQueries, BusEventsPublished and
// BusEventsDropped are registered, but no component records to them.
type Registry struct {
	TransitionsTotal      *prometheus.CounterVec
	TransitionDuration    *prometheus.HistogramVec
	TransitionErrorsTotal *prometheus.CounterVec

	SchedulerJobRuns     *prometheus.CounterVec
	SchedulerJobDuration *prometheus.HistogramVec
	SchedulerJobFailures *prometheus.CounterVec

	PriceQuotesTotal   *prometheus.CounterVec
	AvailabilityQueries *prometheus.CounterVec

	BusEventsPublished *prometheus.CounterVec
	BusEventsDropped   *prometheus.CounterVec
}

// New registers every metric against reg and returns the Registry.
// Pass prometheus.NewRegistry() in production, or
// prometheus.NewPedanticRegistry() in tests that assert exact series.
func New(reg prometheus.Registerer) *Registry {
	m := &Registry{
		TransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hotel_reservation", Name: "transitions_total",
			Help: "Count of booking transitions applied, by target status and outcome.",
		}, []string{"target", "outcome"}),

		TransitionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hotel_reservation", Name: "transition_duration_seconds",
			Help:    "Time spent inside Executor.Apply, by target status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"target"}),

		TransitionErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hotel_reservation", Name: "transition_errors_total",
			Help: "Count of Executor.Apply failures, by error code.",
		}, []string{"code"}),

		SchedulerJobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hotel_reservation", Name: "scheduler_job_runs_total",
			Help: "Count of scheduler job executions, by job name.",
		}, []string{"job"}),

		SchedulerJobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hotel_reservation", Name: "scheduler_job_duration_seconds",
			Help:    "Wall-clock duration of each scheduler job run.",
			Buckets: prometheus.DefBuckets,
		}, []string{"job"}),

		SchedulerJobFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hotel_reservation", Name: "scheduler_job_failures_total",
			Help: "Count of scheduler job runs that returned an error.",
		}, []string{"job"}),

		PriceQuotesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hotel_reservation", Name: "price_quotes_total",
			Help: "Count of pricing.Engine.Quote calls, by recommended action.",
		}, []string{"action"}),

		AvailabilityQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hotel_reservation", Name: "availability_queries_total",
			Help: "Count of availability.Projector.Compute calls, by cache outcome.",
		}, []string{"cache"}),

		BusEventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hotel_reservation", Name: "bus_events_published_total",
			Help: "Count of events published to the Notification Bus, by kind.",
		}, []string{"kind"}),

		BusEventsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hotel_reservation", Name: "bus_events_dropped_total",
			Help: "Count of non-critical events dropped due to a full subscriber buffer, by kind.",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		m.TransitionsTotal, m.TransitionDuration, m.TransitionErrorsTotal,
		m.SchedulerJobRuns, m.SchedulerJobDuration, m.SchedulerJobFailures,
		m.PriceQuotesTotal, m.AvailabilityQueries,
		m.BusEventsPublished, m.BusEventsDropped,
	)
	return m
}
