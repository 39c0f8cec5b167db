package endpoint

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/lingolink/component"
)

// HealthChecker returns health status for registered components.
type HealthChecker func(ctx context.Context) []component.Health

// HealthResponse is the body of /health.
type HealthResponse struct {
	Status     component.HealthStatus `json:"status"`
	Service    string                 `json:"service"`
	Timestamp  string                 `json:"timestamp"`
	Components []component.Health     `json:"components"`
}

// Overall folds component statuses: one unhealthy component makes the
// service unhealthy, otherwise any degraded one makes it degraded.
func Overall(components []component.Health) component.HealthStatus {
	status := component.StatusHealthy
	for _, h := range components {
		switch h.Status {
		case component.StatusUnhealthy:
			return component.StatusUnhealthy
		case component.StatusDegraded:
			status = component.StatusDegraded
		}
	}
	return status
}

// Health serves the aggregated component health, with 503 when unhealthy.
func Health(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := HealthResponse{Service: serviceName, Timestamp: now(), Components: []component.Health{}}
		if checker != nil {
			resp.Components = checker(c.Request.Context())
		}
		resp.Status = Overall(resp.Components)

		code := http.StatusOK
		if resp.Status == component.StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, resp)
	}
}
