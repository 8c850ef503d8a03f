// Package handler provides HTTP handlers for the MealMeter API.
package handler

import (
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sony/gobreaker/v2"

	"github.com/mealmeter/mealmeter/internal/api/models"
	"github.com/mealmeter/mealmeter/internal/api/response"
	"github.com/mealmeter/mealmeter/internal/provider/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	startedAt time.Time
	pool      *pgxpool.Pool
	registry  *resilience.Registry
}

// NewOpsHandler creates a new OpsHandler. The pool may be nil when the
// service runs without a database.
func NewOpsHandler(version string, pool *pgxpool.Pool, registry *resilience.Registry) *OpsHandler {
	return &OpsHandler{
		version:   version,
		startedAt: time.Now(),
		pool:      pool,
		registry:  registry,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.Health{
		Status:  models.HealthStatusOK,
		Version: h.version,
	})
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
// Fails when the database cannot be reached.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	readiness := models.Readiness{Status: models.HealthStatusOK}

	dbCheck := models.Check{Name: "database", Status: models.HealthStatusOK}
	if h.pool != nil {
		if err := h.pool.Ping(r.Context()); err != nil {
			dbCheck.Status = models.HealthStatusFail
			dbCheck.Detail = err.Error()
			readiness.Status = models.HealthStatusFail
		}
	} else {
		dbCheck.Detail = "in-memory storage"
	}
	readiness.Checks = append(readiness.Checks, dbCheck)

	status := http.StatusOK
	if readiness.Status != models.HealthStatusOK {
		status = http.StatusServiceUnavailable
	}
	response.JSON(w, r, status, readiness)
}

// SystemStatus handles GET /v1/ops/status - provider and subsystem status.
// Requires authentication.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	status := models.SystemStatus{
		Status:  models.HealthStatusOK,
		Version: h.version,
		Uptime:  time.Since(h.startedAt).Round(time.Second).String(),
		Checks:  map[string]string{},
	}

	if h.pool != nil {
		status.Checks["database"] = "ok"
		if err := h.pool.Ping(r.Context()); err != nil {
			status.Checks["database"] = err.Error()
			status.Status = models.HealthStatusDegraded
		}
	} else {
		status.Checks["database"] = "in-memory"
	}

	for _, ph := range h.registry.GetAllHealth() {
		ps := models.ProviderStatus{
			Name:         ph.Name,
			Status:       providerHealthStatus(ph),
			CircuitState: ph.CircuitState.String(),
			Failures:     ph.Counts.TotalFailures,
		}
		if ps.Status == models.HealthStatusFail {
			status.Status = models.HealthStatusDegraded
		}
		status.Providers = append(status.Providers, ps)
	}

	response.JSON(w, r, http.StatusOK, status)
}

// providerHealthStatus maps a circuit-breaker snapshot to a health status.
func providerHealthStatus(ph *resilience.ProviderHealth) models.HealthStatus {
	switch ph.CircuitState {
	case gobreaker.StateOpen:
		return models.HealthStatusFail
	case gobreaker.StateHalfOpen:
		return models.HealthStatusDegraded
	default:
		return models.HealthStatusOK
	}
}
