package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/legisai/legisai/internal/models"
)

const version = "1.0.0"

// HealthChecker is implemented by dependencies that can report connectivity
type HealthChecker interface {
	TestConnection(ctx context.Context) error
}

// HealthCheckFunc adapts a plain function, e.g. a Redis ping
type HealthCheckFunc func(ctx context.Context) error

func (f HealthCheckFunc) TestConnection(ctx context.Context) error { return f(ctx) }

// HealthHandler handles GET /health. A nil checker reports "disabled".
type HealthHandler struct {
	checks map[string]HealthChecker
	// checks whose failure only degrades the response
	optional map[string]bool
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{checks: map[string]HealthChecker{}, optional: map[string]bool{}}
}

// Require registers a dependency whose failure makes the service unhealthy
func (h *HealthHandler) Require(name string, c HealthChecker) *HealthHandler {
	h.checks[name] = c
	return h
}

// Optional registers a dependency reported as degraded when unreachable
func (h *HealthHandler) Optional(name string, c HealthChecker) *HealthHandler {
	h.checks[name] = c
	h.optional[name] = true
	return h
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"server": "ok"}
	overallStatus := "healthy"

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	for name, c := range h.checks {
		if c == nil {
			checks[name] = "disabled"
			continue
		}
		if err := c.TestConnection(ctx); err != nil {
			checks[name] = "unavailable: " + err.Error()
			if h.optional[name] {
				if overallStatus == "healthy" {
					overallStatus = "degraded"
				}
			} else {
				overallStatus = "unhealthy"
			}
			continue
		}
		checks[name] = "ok"
	}

	statusCode := http.StatusOK
	if overallStatus == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	models.WriteJSON(w, statusCode, models.HealthResponse{
		Status:  overallStatus,
		Version: version,
		Checks:  checks,
	})
}
