package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/F-AI-SAL/exbuy/internal/core/ports"

	"github.com/gin-gonic/gin"
)

// HealthCheck returns a handler that pings every dependency. Any failing
// dependency flips the overall status and the response code to 503.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		status := "healthy"
		deps := make(map[string]string, len(checkers))
		for _, checker := range checkers {
			if err := checker.Ping(ctx); err != nil {
				deps[checker.Name()] = "unhealthy"
				status = "unhealthy"
				continue
			}
			deps[checker.Name()] = "healthy"
		}

		code := http.StatusOK
		if status != "healthy" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "dependencies": deps})
	}
}
