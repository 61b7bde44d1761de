package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// StoreFailures counts record store operations that degraded to an
// empty result or false.
// Labels: backend (sheets/db), operation (find_planned/upsert/list/delete/get)
var StoreFailures = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "reportbot_store_failures_total",
		Help: "Total number of failed record store operations by backend and operation",
	},
	[]string{"backend", "operation"},
)

// RecordStoreFailure records one degraded store operation.
func RecordStoreFailure(backend, operation string) {
	StoreFailures.WithLabelValues(backend, operation).Inc()
}
