package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

var errNotConfigured = errors.New("not configured")

// Pinger is a dependency that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// RedisPinger wraps a go-redis client. A nil client yields a nil Pinger so
// the dependency is reported as disabled.
func RedisPinger(rdb *redis.Client) Pinger {
	if rdb == nil {
		return nil
	}
	return PingFunc(func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
}

// HealthHandler handles GET /api/health, the liveness probe.
type HealthHandler struct {
	now func() time.Time
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{now: time.Now}
}

type livenessResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Liveness returns 200 immediately.
//
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  livenessResponse
// @Router       /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	noCache(c)
	return c.JSON(http.StatusOK, livenessResponse{Status: "ok", Timestamp: h.now().UTC()})
}

// HealthDependenciesHandler handles GET /api/health/ready, the readiness
// probe. It pings Postgres and, when configured, Redis.
type HealthDependenciesHandler struct {
	postgres Pinger
	redis    Pinger
	settings map[string]bool
	timeout  time.Duration
	now      func() time.Time
}

// NewHealthDependenciesHandler builds the readiness handler. settings lists
// optional configuration entries reported as configured or missing; they do
// not affect the overall status.
func NewHealthDependenciesHandler(postgres, redis Pinger, settings map[string]bool) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{
		postgres: postgres,
		redis:    redis,
		settings: settings,
		timeout:  3 * time.Second,
		now:      time.Now,
	}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Timestamp    time.Time                   `json:"timestamp"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
	Settings     map[string]string           `json:"settings,omitempty"`
}

// Readiness reports 503 "degraded" when a configured dependency is down.
//
// @Summary      Readiness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  readinessResponse
// @Failure      503  {object}  readinessResponse
// @Router       /health/ready [get]
func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	healthy := true

	// --- Postgres ping ---
	if err := ping(ctx, h.postgres); err != nil {
		deps["postgres"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		deps["postgres"] = dependencyStatus{Status: "ok"}
	}

	// --- Redis ping ---
	switch {
	case h.redis == nil:
		deps["redis"] = dependencyStatus{Status: "disabled"}
	default:
		if err := h.redis.Ping(ctx); err != nil {
			deps["redis"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
		} else {
			deps["redis"] = dependencyStatus{Status: "ok"}
		}
	}

	var settings map[string]string
	if len(h.settings) > 0 {
		settings = make(map[string]string, len(h.settings))
		for name, ok := range h.settings {
			settings[name] = "missing"
			if ok {
				settings[name] = "configured"
			}
		}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	noCache(c)
	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Timestamp:    h.now().UTC(),
		Dependencies: deps,
		Settings:     settings,
	})
}

func ping(ctx context.Context, p Pinger) error {
	if p == nil {
		return errNotConfigured
	}
	return p.Ping(ctx)
}

func noCache(c echo.Context) {
	c.Response().Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
}
