package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics. Constructed against an explicit
// registerer so tests can use isolated registries.
type Metrics struct {
	// Carryforward metrics
	CarryforwardsCreated prometheus.Counter
	CarryforwardsSkipped *prometheus.CounterVec
	CarryforwardErrors   *prometheus.CounterVec
	CarryforwardDuration prometheus.Histogram

	// Categorization metrics
	CategorizationsApplied prometheus.Counter
	CategorizationsSkipped prometheus.Counter
	CategorizationErrors   prometheus.Counter
	RulesCreated           prometheus.Counter
	RulesDeleted           prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBErrors *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Carryforward metrics
		CarryforwardsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_carryforwards_created_total",
			Help: "Total number of balance carryforward pairs created",
		}),
		CarryforwardsSkipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_carryforwards_skipped_total",
				Help: "Total number of carryforward runs skipped by reason",
			},
			[]string{"reason"},
		),
		CarryforwardErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_carryforward_errors_total",
				Help: "Total number of carryforward failures by type",
			},
			[]string{"error_type"},
		),
		CarryforwardDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_carryforward_duration_seconds",
			Help:    "Duration of carryforward operations",
			Buckets: prometheus.DefBuckets,
		}),

		// Categorization metrics
		CategorizationsApplied: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_categorizations_applied_total",
			Help: "Total number of orders categorized by rules",
		}),
		CategorizationsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_categorizations_skipped_total",
			Help: "Total number of orders left uncategorized",
		}),
		CategorizationErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_categorization_errors_total",
			Help: "Total number of swallowed rule application errors",
		}),
		RulesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_category_rules_created_total",
			Help: "Total number of category rules created",
		}),
		RulesDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_category_rules_deleted_total",
			Help: "Total number of category rules deleted",
		}),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_http_requests_total",
				Help: "Total HTTP requests by method, path and status",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_http_request_duration_seconds",
				Help:    "HTTP request duration by method and path",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_db_errors_total",
				Help: "Total database errors by operation",
			},
			[]string{"operation"},
		),
	}
}
