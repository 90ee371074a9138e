package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewMetricsHandler serves gatherer in Prometheus exposition format.
// A nil gatherer yields 503.
func NewMetricsHandler(gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusServiceUnavailable, "Metrics not enabled", "")
		})
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
