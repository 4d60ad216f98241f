package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GroupsRegistered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bridge_groups_registered_total",
			Help: "Total number of groups created on first observation",
		},
	)

	ResolutionFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_resolution_failures_total",
			Help: "Total failed group resolutions by reason",
		},
		[]string{"reason"},
	)

	DuplicateRecoveries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bridge_duplicate_recoveries_total",
			Help: "Total creation races recovered by re-reading the winner's row",
		},
	)

	AmbiguousDefaults = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bridge_ambiguous_default_total",
			Help: "Times the lowest-id agency was picked among several candidates",
		},
	)

	EventsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_events_processed_total",
			Help: "Total group events consumed, by outcome",
		},
		[]string{"outcome"},
	)

	QueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bridge_queue_depth",
			Help: "Current depth of the group-events queue",
		},
	)
)

// Init registers metrics with Prometheus
func Init() {
	prometheus.MustRegister(GroupsRegistered)
	prometheus.MustRegister(ResolutionFailures)
	prometheus.MustRegister(DuplicateRecoveries)
	prometheus.MustRegister(AmbiguousDefaults)
	prometheus.MustRegister(EventsProcessed)
	prometheus.MustRegister(QueueDepth)
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
