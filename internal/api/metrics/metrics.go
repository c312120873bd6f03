// Package metrics defines the custom Prometheus metrics of the admin console.
// HTTP request metrics come from the echoprometheus middleware; this package
// covers what the middleware cannot see.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "admin_console"

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid", "throttled"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// DBQueryDuration measures repository calls against Postgres.
// Labels:
//   - repository: "categories", "resources", "users"
//   - operation: e.g. "find_paged", "insert"
var DBQueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "db_query_duration_seconds",
		Help:      "Duration of repository queries.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"repository", "operation"},
)

// SchemaEnsureTotal counts schema initialisation runs.
// Label:
//   - result: "ok" or "error"
var SchemaEnsureTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "schema_ensure_total",
		Help:      "Total number of schema initialisation runs, by result.",
	},
	[]string{"result"},
)

// UploadsTotal counts icon uploads.
// Label:
//   - result: "ok", "rejected", "error"
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "icon_uploads_total",
		Help:      "Total number of resource icon uploads, by result.",
	},
	[]string{"result"},
)

// ObserveQuery starts a timer for a repository call. Call the returned func
// when the call completes.
func ObserveQuery(repository, operation string) func() {
	timer := prometheus.NewTimer(DBQueryDuration.WithLabelValues(repository, operation))
	return func() { timer.ObserveDuration() }
}
