package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/vitaltrack-proxy/internal/circuitbreaker"
)

// HealthChecker defines the interface for health check operations.
type HealthChecker interface {
	Check() error
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	checkers        map[string]HealthChecker
	circuitBreakers map[string]*circuitbreaker.CircuitBreaker
	// informational breakers are reported but never fail readiness: an
	// unreachable upstream is exactly when the proxy has to keep serving.
	informational map[string]*circuitbreaker.CircuitBreaker
	statuses      map[string]func() string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		checkers:        make(map[string]HealthChecker),
		circuitBreakers: make(map[string]*circuitbreaker.CircuitBreaker),
		informational:   make(map[string]*circuitbreaker.CircuitBreaker),
		statuses:        make(map[string]func() string),
	}
}

// RegisterChecker registers a dependency whose failure makes the service not ready.
func (h *HealthHandler) RegisterChecker(name string, checker HealthChecker) {
	h.checkers[name] = checker
}

// RegisterCircuitBreaker registers a circuit breaker whose open state makes
// the service not ready.
func (h *HealthHandler) RegisterCircuitBreaker(name string, cb *circuitbreaker.CircuitBreaker) {
	h.circuitBreakers[name] = cb
}

// RegisterInformationalBreaker registers a circuit breaker that is reported
// without affecting readiness.
func (h *HealthHandler) RegisterInformationalBreaker(name string, cb *circuitbreaker.CircuitBreaker) {
	h.informational[name] = cb
}

// RegisterStatus adds a named value to the readiness report.
func (h *HealthHandler) RegisterStatus(name string, fn func() string) {
	h.statuses[name] = fn
}

// Register registers health endpoints on the router.
func (h *HealthHandler) Register(router *gin.Engine) {
	router.GET("/healthz", h.Liveness)
	router.GET("/readyz", h.Readiness)
}

// Liveness handles the liveness probe endpoint.
// @Summary     Liveness probe
// @Description Returns OK if the process is running.
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]string "Service is alive"
// @Router      /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles the readiness probe endpoint.
// @Summary     Readiness probe
// @Description Returns OK if the cache store is reachable. Upstream circuit state and the worker lifecycle state are reported but do not fail the probe.
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]interface{} "Service is ready"
// @Failure     503 {object} map[string]interface{} "Service is not ready"
// @Router      /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	status := http.StatusOK
	checks := make(map[string]interface{})

	for name, checker := range h.checkers {
		if err := checker.Check(); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			checks[name] = "ok"
		}
	}

	for name, cb := range h.circuitBreakers {
		stats := cb.GetStats()
		checks[name+"_circuit"] = stats.State
		if !stats.IsHealthy {
			status = http.StatusServiceUnavailable
		}
	}

	for name, cb := range h.informational {
		checks[name+"_circuit"] = cb.GetStats().State
	}

	for name, fn := range h.statuses {
		checks[name] = fn()
	}

	if len(checks) == 0 {
		checks["service"] = "ok"
	}

	c.JSON(status, gin.H{
		"status": map[bool]string{true: "ok", false: "degraded"}[status == http.StatusOK],
		"checks": checks,
	})
}
