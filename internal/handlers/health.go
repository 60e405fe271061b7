package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/benvon/metric-tracker/internal/logger"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const healthCheckTimeout = 5 * time.Second

// Pinger is a dependency that can report its own reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker handles health check requests
type HealthChecker struct {
	checks map[string]Pinger
	logger *zap.Logger
}

// NewHealthChecker creates a health checker over the named dependencies
func NewHealthChecker(checks map[string]Pinger, log *zap.Logger) *HealthChecker {
	if log == nil {
		log = zap.NewNop()
	}
	return &HealthChecker{checks: checks, logger: log}
}

// RegisterRoutes registers the health route
func (h *HealthChecker) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthCheck handles the /healthz endpoint.
// ?mode=extended pings every dependency and answers 503 if any fails.
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if r.URL.Query().Get("mode") != "extended" {
		writeJSON(w, http.StatusOK, response)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	response.Checks = make(map[string]string, len(h.checks))
	for name, dep := range h.checks {
		if err := dep.Ping(ctx); err != nil {
			response.Status = "unhealthy"
			response.Checks[name] = "unhealthy: " + logger.SanitizeError(err)
			h.logger.Warn("health_check_failed",
				zap.String("check", name),
				zap.Error(err),
			)
			continue
		}
		response.Checks[name] = "healthy"
	}

	status := http.StatusOK
	if response.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, response)
}
