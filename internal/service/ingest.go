package service

import (
	"context"
	"time"

	"github.com/skymarket/backend/internal/logger"
	"github.com/skymarket/backend/internal/models"
	"github.com/skymarket/backend/internal/repository"
	"github.com/skymarket/backend/pkg/amadeus"
)

// originCities are the origin markets polled on each ingestion run
var originCities = []string{"SYD", "MEL", "BNE", "PER"}

// knownCities maps IATA city codes to display names for airports created
// from provider data, which carries codes only.
var knownCities = map[string]string{
	"SYD": "Sydney",
	"MEL": "Melbourne",
	"BNE": "Brisbane",
	"PER": "Perth",
	"ADL": "Adelaide",
	"CBR": "Canberra",
	"OOL": "Gold Coast",
	"CNS": "Cairns",
	"HBA": "Hobart",
	"DRW": "Darwin",
	"AKL": "Auckland",
	"SIN": "Singapore",
	"DPS": "Denpasar",
	"LAX": "Los Angeles",
	"LHR": "London",
	"HND": "Tokyo",
	"HKG": "Hong Kong",
	"NAN": "Nadi",
}

// TrafficProvider is the slice of the provider client the ingest service uses.
type TrafficProvider interface {
	MostTraveledDestinations(ctx context.Context, originCityCode string) ([]amadeus.Destination, error)
	MostBookedDestinations(ctx context.Context, originCityCode string) ([]amadeus.Destination, error)
}

type ingestService struct {
	provider    TrafficProvider
	airportRepo repository.AirportRepository
	airlineRepo repository.AirlineRepository
	routeRepo   repository.RouteRepository
	demandRepo  repository.MarketDemandRepository
	log         logger.Logger
}

// NewIngestService creates a new provider ingestion service
func NewIngestService(
	provider TrafficProvider,
	airportRepo repository.AirportRepository,
	airlineRepo repository.AirlineRepository,
	routeRepo repository.RouteRepository,
	demandRepo repository.MarketDemandRepository,
	log logger.Logger,
) IngestService {
	return &ingestService{
		provider:    provider,
		airportRepo: airportRepo,
		airlineRepo: airlineRepo,
		routeRepo:   routeRepo,
		demandRepo:  demandRepo,
		log:         log,
	}
}

// IngestProviderData pulls destination traffic rankings for each origin city
// and materializes them as routes plus provider-sourced demand records.
// A failing origin city is counted and skipped; the run continues.
func (s *ingestService) IngestProviderData(ctx context.Context) (*models.IngestResult, error) {
	result := &models.IngestResult{}

	airline, err := s.defaultAirline(ctx)
	if err != nil {
		return nil, storeFailure("airline upsert", err)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)

	for _, origin := range originCities {
		destinations, err := s.fetchDestinations(ctx, origin)
		if err != nil {
			s.log.WithContext(ctx).Warn("provider query failed for origin city",
				logger.String("origin", origin),
				logger.Err(err))
			result.CitiesFailed++
			continue
		}

		originAirport, err := s.upsertAirport(ctx, origin)
		if err != nil {
			return result, storeFailure("airport upsert", err)
		}

		for _, dest := range destinations {
			if dest.IATACode == "" || dest.IATACode == origin {
				continue
			}

			destAirport, err := s.upsertAirport(ctx, dest.IATACode)
			if err != nil {
				return result, storeFailure("airport upsert", err)
			}

			route, err := s.routeRepo.GetOrCreate(ctx, originAirport.ID, destAirport.ID, airline.ID)
			if err != nil {
				return result, storeFailure("route upsert", err)
			}
			result.RoutesAnalyzed++

			demand := &models.MarketDemand{
				RouteID:      route.ID,
				Date:         today,
				SearchVolume: int(dest.Score * 100),
				PriceTrend:   models.PriceTrendStable,
				DemandLevel:  scoreDemandLevel(dest.Score),
			}
			if _, err := s.demandRepo.Upsert(ctx, demand); err != nil {
				return result, storeFailure("market demand upsert", err)
			}
			result.MarketDataAdded++
		}
	}

	s.log.WithContext(ctx).Info("provider ingestion complete",
		logger.Int("routes_analyzed", result.RoutesAnalyzed),
		logger.Int("market_data_added", result.MarketDataAdded),
		logger.Int("cities_failed", result.CitiesFailed))

	return result, nil
}

// fetchDestinations merges traveled and booked rankings, keeping the higher
// score when a destination appears in both.
func (s *ingestService) fetchDestinations(ctx context.Context, origin string) ([]amadeus.Destination, error) {
	traveled, err := s.provider.MostTraveledDestinations(ctx, origin)
	if err != nil {
		return nil, err
	}

	booked, err := s.provider.MostBookedDestinations(ctx, origin)
	if err != nil {
		// traveled data alone is still usable
		s.log.WithContext(ctx).Warn("booked destinations query failed",
			logger.String("origin", origin),
			logger.Err(err))
		return traveled, nil
	}

	seen := make(map[string]int, len(traveled))
	merged := make([]amadeus.Destination, 0, len(traveled)+len(booked))
	for _, d := range traveled {
		seen[d.IATACode] = len(merged)
		merged = append(merged, d)
	}
	for _, d := range booked {
		if idx, ok := seen[d.IATACode]; ok {
			if d.Score > merged[idx].Score {
				merged[idx].Score = d.Score
			}
			continue
		}
		merged = append(merged, d)
	}
	return merged, nil
}

func (s *ingestService) upsertAirport(ctx context.Context, iata string) (*models.Airport, error) {
	city := knownCities[iata]
	if city == "" {
		city = iata
	}
	return s.airportRepo.GetOrCreate(ctx, &models.Airport{
		Name:     city + " Airport",
		City:     city,
		Country:  "Unknown",
		IATACode: iata,
	})
}

// defaultAirline is the carrier placeholder for provider routes, which do
// not name an operating airline.
func (s *ingestService) defaultAirline(ctx context.Context) (*models.Airline, error) {
	return s.airlineRepo.GetOrCreate(ctx, &models.Airline{
		Name:     "Multiple Airlines",
		IATACode: "XX",
		Country:  "Unknown",
	})
}

// scoreDemandLevel buckets a provider traffic score into a demand level.
// Provider scores are 0-100 percentile-style values, unlike observation
// counts, so the cutoffs differ from aggregation.
func scoreDemandLevel(score float64) models.DemandLevel {
	switch {
	case score >= 30:
		return models.DemandLevelVeryHigh
	case score >= 20:
		return models.DemandLevelHigh
	case score >= 10:
		return models.DemandLevelMedium
	default:
		return models.DemandLevelLow
	}
}
