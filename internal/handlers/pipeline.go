package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skymarket/backend/internal/apierror"
	"github.com/skymarket/backend/internal/config"
	"github.com/skymarket/backend/internal/logger"
	"github.com/skymarket/backend/internal/service"
)

// PipelineHandler exposes the batch pipeline stages over HTTP
type PipelineHandler struct {
	ingestService      service.IngestService // nil when no provider credentials
	aggregationService service.AggregationService
	cfg                config.AnalysisConfig
}

// NewPipelineHandler creates a new pipeline handler. ingestService may be
// nil when the flight-data provider is not configured.
func NewPipelineHandler(
	ingestService service.IngestService,
	aggregationService service.AggregationService,
	cfg config.AnalysisConfig,
) *PipelineHandler {
	return &PipelineHandler{
		ingestService:      ingestService,
		aggregationService: aggregationService,
		cfg:                cfg,
	}
}

// Scrape handles POST /api/v1/scrape, pulling fresh route and demand data
// from the flight-data provider.
func (h *PipelineHandler) Scrape(c *gin.Context) {
	requestID := apierror.GetRequestID(c)

	if h.ingestService == nil {
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID,
			"flight data provider is not configured",
			"Data ingestion is not available"))
		return
	}

	ctx := logger.WithRunID(c.Request.Context())
	result, err := h.ingestService.IngestProviderData(ctx)
	if err != nil {
		if service.IsStoreError(err) {
			writeServiceError(c, err, "provider ingestion failed")
			return
		}
		logger.Ctx(ctx).Error("provider ingestion failed", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewUpstreamError(requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "provider ingestion complete",
		"result":  result,
	})
}

// Aggregate handles POST /api/v1/aggregate, deriving market demand records
// from recent observations.
func (h *PipelineHandler) Aggregate(c *gin.Context) {
	ctx := logger.WithRunID(c.Request.Context())
	since := time.Now().AddDate(0, 0, -h.cfg.AggregationWindowDays)

	result, err := h.aggregationService.RunAggregation(ctx, since)
	if err != nil {
		writeServiceError(c, err, "demand aggregation failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "demand aggregation complete",
		"result":  result,
	})
}
