package http

import (
	"net/http"

	apperrors "examstats/internal/errors"
)

// MetricsHandler exposes the Prometheus scrape endpoint
type MetricsHandler struct {
	exporter     http.Handler
	errorHandler *apperrors.ErrorHandler
}

// NewMetricsHandler wraps the Prometheus exporter handler; nil means metrics are disabled
func NewMetricsHandler(exporter http.Handler, errorHandler *apperrors.ErrorHandler) *MetricsHandler {
	return &MetricsHandler{exporter: exporter, errorHandler: errorHandler}
}

// ServeHTTP handles GET /metrics
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		h.errorHandler.HandleError(w, r,
			apperrors.New(http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Metrics exporter is disabled"))
		return
	}
	h.exporter.ServeHTTP(w, r)
}
