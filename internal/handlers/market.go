package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skymarket/backend/internal/service"
)

// MarketHandler handles route and market demand HTTP requests
type MarketHandler struct {
	marketService service.MarketDataService
}

// NewMarketHandler creates a new market data handler
func NewMarketHandler(marketService service.MarketDataService) *MarketHandler {
	return &MarketHandler{marketService: marketService}
}

// ListRoutes handles GET /api/v1/routes
func (h *MarketHandler) ListRoutes(c *gin.Context) {
	routes, err := h.marketService.ListRoutes(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, "failed to list routes")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"routes": routes,
		"count":  len(routes),
	})
}

// ListMarketDemand handles GET /api/v1/market-demand
func (h *MarketHandler) ListMarketDemand(c *gin.Context) {
	limit, offset := parsePagination(c, 50, 500)

	records, err := h.marketService.ListDemand(c.Request.Context(), limit, offset)
	if err != nil {
		writeServiceError(c, err, "failed to list market demand")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"market_demand": records,
		"count":         len(records),
		"limit":         limit,
		"offset":        offset,
	})
}
