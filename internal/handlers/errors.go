package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/skymarket/backend/internal/apierror"
	"github.com/skymarket/backend/internal/logger"
	"github.com/skymarket/backend/internal/service"
)

// writeServiceError maps service-layer failures onto problem responses.
// Store failures get a retryable 503; everything else is an opaque 500.
func writeServiceError(c *gin.Context, err error, msg string) {
	log := logger.Ctx(c.Request.Context())
	log.Error(msg, logger.Err(err))

	requestID := apierror.GetRequestID(c)
	if service.IsStoreError(err) {
		apierror.WriteProblem(c, apierror.NewStoreError(requestID, 30))
		return
	}
	apierror.WriteProblem(c, apierror.NewInternalError(requestID))
}

// parsePagination reads limit/offset query parameters with bounds applied
func parsePagination(c *gin.Context, defaultLimit, maxLimit int) (limit, offset int) {
	limit = defaultLimit
	if v, err := atoiQuery(c, "limit"); err == nil && v > 0 {
		limit = v
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if v, err := atoiQuery(c, "offset"); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}
