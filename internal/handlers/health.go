package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sony/gobreaker/v2"

	"weather-narrator/pkg/logging"
)

// BreakerReporter exposes the provider circuit breaker state.
type BreakerReporter interface {
	State() gobreaker.State
}

// HealthHandler serves GET /health
type HealthHandler struct {
	version  string
	provider BreakerReporter
	logger   *logging.StructuredLogger
}

// NewHealthHandler creates a health handler. provider may be nil.
func NewHealthHandler(version string, provider BreakerReporter, logger *logging.StructuredLogger) *HealthHandler {
	return &HealthHandler{version: version, provider: provider, logger: logger}
}

// HealthCheck handles GET /health. The service reports "degraded" while the
// provider breaker is open; it still answers 200.
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{
		"status":    "healthy",
		"version":   h.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if h.provider != nil {
		state := h.provider.State()
		status["provider"] = state.String()
		if state == gobreaker.StateOpen {
			status["status"] = "degraded"
		}
	}

	h.logger.Debug(r.Context(), "[HEALTH_CHECK] Health check requested", logging.Fields{})
	sendJSON(w, status, http.StatusOK)
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
}
