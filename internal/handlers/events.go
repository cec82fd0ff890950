package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reactagent/calendar-service/internal/models"
)

// EventReader is the read side of the two append-only stores.
type EventReader interface {
	ListEventsByEmail(ctx context.Context, email string) ([]models.CalendarEvent, error)
	ListTracesByEmail(ctx context.Context, email string) ([]models.ReasoningTrace, error)
}

// RegisterReadRoutes registers the read-side listing endpoints.
//
// GET /api/events/:email — the identity's calendar events, newest date first
// GET /api/logs/:email   — the identity's last ten reasoning traces
func RegisterReadRoutes(r gin.IRoutes, st EventReader) {
	r.GET("/api/events/:email", func(c *gin.Context) {
		email := c.Param("email")

		events, err := st.ListEventsByEmail(c.Request.Context(), email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"events": events})
	})

	r.GET("/api/logs/:email", func(c *gin.Context) {
		email := c.Param("email")

		logs, err := st.ListTracesByEmail(c.Request.Context(), email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"logs": logs})
	})
}
