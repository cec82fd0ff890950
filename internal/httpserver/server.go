package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/reactagent/calendar-service/internal/handlers"
	"github.com/reactagent/calendar-service/internal/pipeline"
)

// Readiness reports whether the durable store is reachable.
type Readiness interface {
	Ping(ctx context.Context) error
}

// NewRouter wires public endpoints and the API surface.
// Public: /health, /ready
// API: /api/process-query, /api/events/:email, /api/logs/:email
func NewRouter(p *pipeline.Pipeline, st handlers.EventReader, ready Readiness) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	// The browser UI is served from a different origin.
	r.Use(cors.Default())

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the DB dependency is reachable. The stream is
	// deliberately excluded; the service runs degraded without it.
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := ready.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	handlers.RegisterQueryRoutes(r, p)
	handlers.RegisterReadRoutes(r, st)

	return r
}
