package service

import (
	"context"
	"io"
	"time"

	"github.com/skymarket/backend/internal/models"
)

// AggregationService derives per-route/per-day market demand records from
// observations captured since the given cutoff.
type AggregationService interface {
	RunAggregation(ctx context.Context, since time.Time) (*models.AggregationResult, error)
}

// InsightService produces, deduplicates and persists insight records.
type InsightService interface {
	GenerateInsights(ctx context.Context) ([]models.SerializedInsight, error)
	ListInsights(ctx context.Context, limit, offset int) ([]models.SerializedInsight, error)
}

// Synthesizer turns a statistical summary into free-text insight candidates.
// Implementations must never fail the overall run: on any upstream problem
// they return an error the engine logs and ignores.
type Synthesizer interface {
	Synthesize(ctx context.Context, summary models.StatisticalSummary) ([]models.InsightCandidate, error)
}

// TextGenerator is the injected text-generation capability. Calls must be
// timeout-bounded by the implementation.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ObservationService validates and stores incoming flight observations.
type ObservationService interface {
	Create(ctx context.Context, req *models.CreateObservationRequest) (*models.FlightObservation, error)
	List(ctx context.Context, limit, offset int) ([]models.FlightObservation, error)
}

// MarketDataService exposes stored routes and derived demand records.
type MarketDataService interface {
	ListRoutes(ctx context.Context) ([]models.Route, error)
	ListDemand(ctx context.Context, limit, offset int) ([]models.MarketDemand, error)
}

// AnalyticsService computes read-only analytics over stored observations
// and demand records.
type AnalyticsService interface {
	GetRouteAnalytics(ctx context.Context, routeID string) (*models.RouteAnalytics, error)
}

// ExportService writes stored observations to a CSV stream.
type ExportService interface {
	ExportObservationsCSV(ctx context.Context, w io.Writer) (int, error)
}

// IngestService pulls route/demand data from the flight-data provider.
type IngestService interface {
	IngestProviderData(ctx context.Context) (*models.IngestResult, error)
}
