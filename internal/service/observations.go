package service

import (
	"context"
	"fmt"
	"time"

	"github.com/skymarket/backend/internal/models"
	"github.com/skymarket/backend/internal/repository"
)

type observationService struct {
	obsRepo   repository.ObservationRepository
	routeRepo repository.RouteRepository
}

// NewObservationService creates a new observation ingestion service
func NewObservationService(
	obsRepo repository.ObservationRepository,
	routeRepo repository.RouteRepository,
) ObservationService {
	return &observationService{
		obsRepo:   obsRepo,
		routeRepo: routeRepo,
	}
}

// Create validates and stores one incoming observation. The referenced
// route must already exist; observations never create routes implicitly.
func (s *observationService) Create(ctx context.Context, req *models.CreateObservationRequest) (*models.FlightObservation, error) {
	if req.Price <= 0 {
		return nil, fmt.Errorf("price must be positive, got %.2f", req.Price)
	}
	if !req.ArrivalTime.After(req.DepartureTime) {
		return nil, fmt.Errorf("arrival time must be after departure time")
	}

	route, err := s.routeRepo.GetByID(ctx, req.RouteID)
	if err != nil {
		return nil, storeFailure("route lookup", err)
	}
	if route == nil {
		return nil, fmt.Errorf("route %s does not exist", req.RouteID)
	}

	obs := &models.FlightObservation{
		RouteID:       req.RouteID,
		FlightNumber:  req.FlightNumber,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		Price:         req.Price,
		Currency:      req.Currency,
		Availability:  req.Availability,
		BookingClass:  req.BookingClass,
		Source:        req.Source,
		ScrapedAt:     time.Now().UTC(),
	}
	if obs.Currency == "" {
		obs.Currency = "AUD"
	}
	if obs.BookingClass == "" {
		obs.BookingClass = models.BookingClassEconomy
	}

	created, err := s.obsRepo.Create(ctx, obs)
	if err != nil {
		return nil, storeFailure("observation insert", err)
	}
	return created, nil
}

func (s *observationService) List(ctx context.Context, limit, offset int) ([]models.FlightObservation, error) {
	observations, err := s.obsRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, storeFailure("observation query", err)
	}
	return observations, nil
}
