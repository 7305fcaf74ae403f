package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skymarket/backend/internal/service"
)

// InsightHandler handles insight HTTP requests
type InsightHandler struct {
	insightService service.InsightService
}

// NewInsightHandler creates a new insight handler
func NewInsightHandler(insightService service.InsightService) *InsightHandler {
	return &InsightHandler{insightService: insightService}
}

// ListInsights handles GET /api/v1/insights
func (h *InsightHandler) ListInsights(c *gin.Context) {
	limit, offset := parsePagination(c, 50, 200)

	insights, err := h.insightService.ListInsights(c.Request.Context(), limit, offset)
	if err != nil {
		writeServiceError(c, err, "failed to list insights")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"insights": insights,
		"count":    len(insights),
		"limit":    limit,
		"offset":   offset,
	})
}

// GenerateInsights handles POST /api/v1/insights/generate
func (h *InsightHandler) GenerateInsights(c *gin.Context) {
	insights, err := h.insightService.GenerateInsights(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, "insight generation failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "insight generation complete",
		"insights": insights,
		"count":    len(insights),
	})
}
