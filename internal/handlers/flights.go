package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skymarket/backend/internal/apierror"
	"github.com/skymarket/backend/internal/models"
	"github.com/skymarket/backend/internal/service"
)

// FlightHandler handles flight observation HTTP requests
type FlightHandler struct {
	obsService service.ObservationService
}

// NewFlightHandler creates a new flight handler
func NewFlightHandler(obsService service.ObservationService) *FlightHandler {
	return &FlightHandler{obsService: obsService}
}

func atoiQuery(c *gin.Context, key string) (int, error) {
	v := c.Query(key)
	if v == "" {
		return 0, errors.New("missing")
	}
	return strconv.Atoi(v)
}

// ListFlights handles GET /api/v1/flights
func (h *FlightHandler) ListFlights(c *gin.Context) {
	limit, offset := parsePagination(c, 50, 500)

	observations, err := h.obsService.List(c.Request.Context(), limit, offset)
	if err != nil {
		writeServiceError(c, err, "failed to list observations")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"flights": observations,
		"count":   len(observations),
		"limit":   limit,
		"offset":  offset,
	})
}

// CreateFlight handles POST /api/v1/flights
func (h *FlightHandler) CreateFlight(c *gin.Context) {
	requestID := apierror.GetRequestID(c)

	var req models.CreateObservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid request body"))
		return
	}

	if _, err := uuid.Parse(req.RouteID); err != nil {
		apierror.WriteProblem(c, apierror.NewInvalidUUIDError(requestID, "route_id", req.RouteID))
		return
	}

	var fieldErrors []apierror.FieldError
	if req.Price <= 0 {
		fieldErrors = append(fieldErrors, apierror.FieldError{
			Field:   "price",
			Message: "must be positive",
			Code:    "invalid_value",
		})
	}
	if !req.ArrivalTime.After(req.DepartureTime) {
		fieldErrors = append(fieldErrors, apierror.FieldError{
			Field:   "arrival_time",
			Message: "must be after departure_time",
			Code:    "invalid_value",
		})
	}
	if req.BookingClass != "" {
		switch req.BookingClass {
		case models.BookingClassEconomy, models.BookingClassPremiumEconomy,
			models.BookingClassBusiness, models.BookingClassFirst:
		default:
			fieldErrors = append(fieldErrors, apierror.FieldError{
				Field:   "booking_class",
				Message: "must be one of E, P, B, F",
				Code:    "invalid_value",
			})
		}
	}
	if len(fieldErrors) > 0 {
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, fieldErrors))
		return
	}

	obs, err := h.obsService.Create(c.Request.Context(), &req)
	if err != nil {
		if service.IsStoreError(err) {
			writeServiceError(c, err, "failed to create observation")
			return
		}
		// remaining create failures are caller mistakes (unknown route)
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Could not create observation"))
		return
	}

	c.JSON(http.StatusCreated, obs)
}
