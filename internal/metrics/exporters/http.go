// Package exporters moves controller state out of the process: the
// Prometheus scrape endpoint and the periodic status sample that feeds both
// the arm gauges and the /api/events stream.
package exporters

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPHandler serves every trafficnode_* collector registered through
// promauto in internal/metrics, plus the Go runtime collectors.
func HTTPHandler() http.Handler {
	return promhttp.Handler()
}
