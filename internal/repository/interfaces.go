package repository

import (
	"context"
	"time"

	"github.com/skymarket/backend/internal/models"
)

// ObservationRepository defines the interface for flight observation access.
// Observations are read-only to the analysis pipeline; writes happen on the
// ingestion side only.
type ObservationRepository interface {
	Create(ctx context.Context, obs *models.FlightObservation) (*models.FlightObservation, error)
	CreateBatch(ctx context.Context, obs []models.FlightObservation) ([]models.FlightObservation, error)
	List(ctx context.Context, limit, offset int) ([]models.FlightObservation, error)
	// GetByDepartureRange returns observations whose departure falls in
	// [start, end). Order is not guaranteed.
	GetByDepartureRange(ctx context.Context, start, end time.Time) ([]models.FlightObservation, error)
	// GetByScrapedSince returns observations captured at or after the cutoff
	GetByScrapedSince(ctx context.Context, since time.Time) ([]models.FlightObservation, error)
	GetByRouteID(ctx context.Context, routeID string) ([]models.FlightObservation, error)
	GetAll(ctx context.Context) ([]models.FlightObservation, error)
}

// RouteRepository defines the interface for route data access
type RouteRepository interface {
	GetByID(ctx context.Context, id string) (*models.Route, error)
	GetAll(ctx context.Context) ([]models.Route, error)
	// GetOrCreate resolves a route by its (origin, destination, airline)
	// natural key, creating it when absent.
	GetOrCreate(ctx context.Context, originID, destinationID, airlineID string) (*models.Route, error)
}

// AirportRepository defines the interface for airport data access
type AirportRepository interface {
	GetByIATA(ctx context.Context, iata string) (*models.Airport, error)
	GetOrCreate(ctx context.Context, airport *models.Airport) (*models.Airport, error)
}

// AirlineRepository defines the interface for airline data access
type AirlineRepository interface {
	GetByIATA(ctx context.Context, iata string) (*models.Airline, error)
	GetOrCreate(ctx context.Context, airline *models.Airline) (*models.Airline, error)
}

// MarketDemandRepository defines the interface for derived demand records.
// Upsert is keyed by (route_id, date) with last-writer-wins semantics.
type MarketDemandRepository interface {
	Upsert(ctx context.Context, demand *models.MarketDemand) (*models.MarketDemand, error)
	// GetLatestBefore returns the most recent record for a route with
	// since <= date < before, or nil when no such record exists.
	GetLatestBefore(ctx context.Context, routeID string, before, since time.Time) (*models.MarketDemand, error)
	List(ctx context.Context, limit, offset int) ([]models.MarketDemand, error)
	GetAll(ctx context.Context) ([]models.MarketDemand, error)
}

// InsightRepository defines the interface for insight persistence.
// Title is the uniqueness key; Insert is first-writer-wins.
type InsightRepository interface {
	Exists(ctx context.Context, title string) (bool, error)
	// Insert stores the insight unless its title already exists. The bool
	// result reports whether a row was actually written.
	Insert(ctx context.Context, insight *models.Insight) (*models.Insight, bool, error)
	List(ctx context.Context, limit, offset int) ([]models.Insight, error)
}
