// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Simulation metrics
	TrialsRun           *prometheus.CounterVec
	SimulationDuration  *prometheus.HistogramVec
	CandidatesEvaluated prometheus.Counter
	EmptyShortlists     prometheus.Counter

	// Scoring metrics
	RecommendationsServed prometheus.Counter

	// Learning metrics
	RatingsUpdated   prometheus.Counter
	OutcomesRecorded prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Live board metrics
	PickEventsReceived  prometheus.Counter
	LiveBoardReconnects prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "bestball_lab"
	}

	return &Metrics{
		// Simulation metrics
		TrialsRun: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "trials_run_total",
			Help:      "Total number of simulation trials run by mode",
		}, []string{"mode"}),
		SimulationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "duration_seconds",
			Help:      "Simulation run duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}, []string{"mode"}),
		CandidatesEvaluated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "candidates_evaluated_total",
			Help:      "Total number of shortlisted candidates evaluated",
		}),
		EmptyShortlists: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "empty_shortlists_total",
			Help:      "Total number of evaluations that produced no eligible candidates",
		}),

		// Scoring metrics
		RecommendationsServed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "recommendations_served_total",
			Help:      "Total number of single-pick recommendation calls served",
		}),

		// Learning metrics
		RatingsUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "learning",
			Name:      "ratings_updated_total",
			Help:      "Total number of per-player rating updates applied",
		}),
		OutcomesRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "learning",
			Name:      "outcomes_recorded_total",
			Help:      "Total number of draft outcomes recorded",
		}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Live board metrics
		PickEventsReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "liveboard",
			Name:      "pick_events_received_total",
			Help:      "Total number of pick events received from the draft feed",
		}),
		LiveBoardReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "liveboard",
			Name:      "reconnects_total",
			Help:      "Total number of draft feed reconnect attempts",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordTrials adds n trials for a mode.
func RecordTrials(mode string, n int) {
	DefaultMetrics.TrialsRun.WithLabelValues(mode).Add(float64(n))
}

// RecordRecommendation increments the recommendation counter.
func RecordRecommendation() {
	DefaultMetrics.RecommendationsServed.Inc()
}

// RecordRatingsUpdated adds n applied rating updates.
func RecordRatingsUpdated(n int) {
	DefaultMetrics.RatingsUpdated.Add(float64(n))
	DefaultMetrics.OutcomesRecorded.Inc()
}

// RecordPickEvent increments the pick event counter.
func RecordPickEvent() {
	DefaultMetrics.PickEventsReceived.Inc()
}
