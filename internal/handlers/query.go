package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reactagent/calendar-service/internal/models"
	"github.com/reactagent/calendar-service/internal/pipeline"
)

// RegisterQueryRoutes registers the pipeline endpoint.
//
// POST /api/process-query
// - Body: {email, query}, both required
// - Runs the think/act/observe pipeline and returns its full result
// - Storage/stream failures never surface here; only validation does
func RegisterQueryRoutes(r gin.IRoutes, p *pipeline.Pipeline) {
	r.POST("/api/process-query", func(c *gin.Context) {
		var req models.ProcessQueryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}

		result, err := p.Process(c.Request.Context(), req.Email, req.Query)
		if err != nil {
			if errors.Is(err, pipeline.ErrMissingInput) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Email and query are required"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, result)
	})
}
