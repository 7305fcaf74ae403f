package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skymarket/backend/internal/apierror"
	"github.com/skymarket/backend/internal/logger"
	"github.com/skymarket/backend/internal/service"
)

// AnalyticsHandler handles analytics HTTP requests
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
	exportService    service.ExportService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(
	analyticsService service.AnalyticsService,
	exportService service.ExportService,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		exportService:    exportService,
	}
}

// GetAnalytics handles GET /api/v1/analytics. An optional route_id query
// parameter scopes the summary to one route.
func (h *AnalyticsHandler) GetAnalytics(c *gin.Context) {
	routeID := c.Query("route_id")
	if routeID != "" {
		if _, err := uuid.Parse(routeID); err != nil {
			apierror.WriteProblem(c, apierror.NewInvalidUUIDError(apierror.GetRequestID(c), "route_id", routeID))
			return
		}
	}

	analytics, err := h.analyticsService.GetRouteAnalytics(c.Request.Context(), routeID)
	if err != nil {
		writeServiceError(c, err, "analytics computation failed")
		return
	}

	c.JSON(http.StatusOK, analytics)
}

// ExportCSV handles GET /api/v1/analytics/export, streaming all stored
// observations as a CSV attachment.
func (h *AnalyticsHandler) ExportCSV(c *gin.Context) {
	filename := fmt.Sprintf("flight_data_%s.csv", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if _, err := h.exportService.ExportObservationsCSV(c.Request.Context(), c.Writer); err != nil {
		// part of the stream may already be written, so no problem body
		logger.Ctx(c.Request.Context()).Error("csv export failed", logger.Err(err))
		c.Abort()
		return
	}
}
