package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

const (
	healthCheckTimeout = 5 * time.Second

	statusHealthy       = "healthy"
	statusUnhealthy     = "unhealthy"
	statusNotConfigured = "not configured"
)

// Pinger is satisfied by *database.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// CheckFunc reports the health of an optional dependency
type CheckFunc func(ctx context.Context) error

type namedCheck struct {
	name  string
	check CheckFunc
}

// HealthChecker handles health check requests
type HealthChecker struct {
	db     Pinger
	checks []namedCheck
}

// HealthOption adds a dependency check to a HealthChecker
type HealthOption func(*HealthChecker)

// WithCheck registers a named dependency check. A nil check is reported as "not configured".
func WithCheck(name string, check CheckFunc) HealthOption {
	return func(h *HealthChecker) {
		h.checks = append(h.checks, namedCheck{name: name, check: check})
	}
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(db Pinger, opts ...HealthOption) *HealthChecker {
	h := &HealthChecker{db: db}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// RegisterRoutes registers /healthz
func (h *HealthChecker) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", h.HealthCheck).Methods(http.MethodGet)
}

// HealthCheck handles the /healthz endpoint
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    statusHealthy,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	// Basic mode - just report that the server is running
	if r.URL.Query().Get("mode") != "extended" {
		respondJSON(w, http.StatusOK, response)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string, len(h.checks)+1)
	checks["database"] = runCheck(ctx, h.db.PingContext)
	for _, c := range h.checks {
		if c.check == nil {
			checks[c.name] = statusNotConfigured
			continue
		}
		checks[c.name] = runCheck(ctx, c.check)
	}

	statusCode := http.StatusOK
	for _, result := range checks {
		if result != statusHealthy && result != statusNotConfigured {
			response.Status = statusUnhealthy
			statusCode = http.StatusServiceUnavailable
			break
		}
	}
	response.Checks = checks

	respondJSON(w, statusCode, response)
}

// runCheck never exposes the underlying error text
func runCheck(ctx context.Context, check CheckFunc) string {
	if err := check(ctx); err != nil {
		return statusUnhealthy
	}
	return statusHealthy
}

// VersionResponse is returned by /version
type VersionResponse struct {
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// Version serves minimal version info
func Version(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, VersionResponse{
			Version:   version,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}
