package handler

import (
	"context"
	"net/http"
	"time"
)

const readyTimeout = 5 * time.Second

// HealthChecker defines an interface for checking service health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	db       HealthChecker
	cache    HealthChecker
	upstream bool
}

// NewHealthHandler creates a new HealthHandler.
// A nil db or cache is reported as "not configured" and does not fail readiness.
// upstream reports whether Amadeus credentials are present.
func NewHealthHandler(db, cache HealthChecker, upstream bool) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, upstream: upstream}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz is the liveness probe. It never checks dependencies.
//
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz reports 503 if any configured store fails its ping.
// Missing Amadeus credentials are reported but do not fail readiness:
// search endpoints degrade on their own.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	checks := make(map[string]string, 3)
	healthy := ping(ctx, checks, "postgres", h.db)
	healthy = ping(ctx, checks, "redis", h.cache) && healthy

	if h.upstream {
		checks["amadeus"] = "configured"
	} else {
		checks["amadeus"] = "not configured"
	}

	resp := HealthResponse{Status: "ok", Checks: checks}
	status := http.StatusOK
	if !healthy {
		resp.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

func ping(ctx context.Context, checks map[string]string, name string, c HealthChecker) bool {
	if c == nil {
		checks[name] = "not configured"
		return true
	}
	if err := c.Ping(ctx); err != nil {
		checks[name] = "error: " + err.Error()
		return false
	}
	checks[name] = "ok"
	return true
}
