package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/skymarket/backend/internal/config"
	"github.com/skymarket/backend/internal/logger"
	"github.com/skymarket/backend/internal/models"
	"github.com/skymarket/backend/internal/repository"
)

type aggregationService struct {
	obsRepo    repository.ObservationRepository
	demandRepo repository.MarketDemandRepository
	cfg        config.AnalysisConfig
}

// NewAggregationService creates a new demand aggregation service
func NewAggregationService(
	obsRepo repository.ObservationRepository,
	demandRepo repository.MarketDemandRepository,
	cfg config.AnalysisConfig,
) AggregationService {
	return &aggregationService{
		obsRepo:    obsRepo,
		demandRepo: demandRepo,
		cfg:        cfg,
	}
}

// demandGroup accumulates one (route, departure day) bucket
type demandGroup struct {
	routeID  string
	date     time.Time
	count    int
	priceSum float64
}

// RunAggregation groups observations captured since the cutoff by
// (route, departure day), derives volume, average price, price trend and
// demand level for each group, and upserts one MarketDemand record per group.
// Rerunning over the same observation set yields identical records.
func (s *aggregationService) RunAggregation(ctx context.Context, since time.Time) (*models.AggregationResult, error) {
	log := logger.Ctx(ctx)

	observations, err := s.obsRepo.GetByScrapedSince(ctx, since)
	if err != nil {
		return nil, storeFailure("observation query", err)
	}

	result := &models.AggregationResult{WindowEnd: time.Now().UTC()}

	if len(observations) == 0 {
		log.Warn("no recent observations to aggregate")
		return result, nil
	}

	groups, skipped := groupObservations(observations)
	result.Skipped = skipped

	// Groups must be processed in non-decreasing date order per route so
	// that trend classification never reads a not-yet-computed future day
	// as history.
	byRoute := make(map[string][]*demandGroup)
	for _, g := range groups {
		byRoute[g.routeID] = append(byRoute[g.routeID], g)
	}
	for _, routeGroups := range byRoute {
		sort.Slice(routeGroups, func(i, j int) bool {
			return routeGroups[i].date.Before(routeGroups[j].date)
		})
	}

	routeIDs := make([]string, 0, len(byRoute))
	for id := range byRoute {
		routeIDs = append(routeIDs, id)
	}
	sort.Strings(routeIDs)

	for _, routeID := range routeIDs {
		for _, g := range byRoute[routeID] {
			avgPrice := roundPrice(g.priceSum / float64(g.count))

			trend, err := s.classifyPriceTrend(ctx, g.routeID, g.date, avgPrice)
			if err != nil {
				return result, err
			}

			demand := &models.MarketDemand{
				RouteID:      g.routeID,
				Date:         g.date,
				SearchVolume: g.count,
				AveragePrice: avgPrice,
				PriceTrend:   trend,
				DemandLevel:  s.classifyDemandLevel(g.count),
			}

			if _, err := s.demandRepo.Upsert(ctx, demand); err != nil {
				return result, storeFailure("market demand upsert", err)
			}

			result.Processed++
		}
	}

	result.Routes = len(byRoute)

	log.Info("aggregation run complete",
		logger.Int("processed", result.Processed),
		logger.Int("skipped", result.Skipped),
		logger.Int("routes", result.Routes))

	return result, nil
}

// groupObservations buckets observations by (route, departure day).
// Observations without a usable price are skipped and counted, not fatal.
func groupObservations(observations []models.FlightObservation) ([]*demandGroup, int) {
	groups := make(map[string]*demandGroup)
	order := make([]string, 0)
	skipped := 0

	for i := range observations {
		obs := &observations[i]
		if obs.Price <= 0 {
			skipped++
			continue
		}

		date := obs.DepartureDate()
		key := obs.RouteID + "|" + date.Format("2006-01-02")

		g, exists := groups[key]
		if !exists {
			g = &demandGroup{routeID: obs.RouteID, date: date}
			groups[key] = g
			order = append(order, key)
		}
		g.count++
		g.priceSum += obs.Price
	}

	out := make([]*demandGroup, 0, len(order))
	for _, key := range order {
		out = append(out, groups[key])
	}
	return out, skipped
}

// classifyPriceTrend compares the new average against the most recent stored
// demand record for the route within the trend lookback window, strictly
// before the current date. With no history the trend is stable.
func (s *aggregationService) classifyPriceTrend(ctx context.Context, routeID string, date time.Time, avgPrice float64) (models.PriceTrend, error) {
	since := date.AddDate(0, 0, -s.cfg.TrendLookbackDays)

	prior, err := s.demandRepo.GetLatestBefore(ctx, routeID, date, since)
	if err != nil {
		return "", storeFailure("prior demand query", err)
	}
	if prior == nil || prior.AveragePrice == 0 {
		return models.PriceTrendStable, nil
	}

	change := (avgPrice - prior.AveragePrice) / prior.AveragePrice

	switch {
	case change > s.cfg.TrendChangeThreshold:
		return models.PriceTrendIncreasing, nil
	case change < -s.cfg.TrendChangeThreshold:
		return models.PriceTrendDecreasing, nil
	default:
		return models.PriceTrendStable, nil
	}
}

// classifyDemandLevel is a pure function of observation volume against the
// configured thresholds.
func (s *aggregationService) classifyDemandLevel(volume int) models.DemandLevel {
	switch {
	case volume >= s.cfg.VeryHighDemandVolume:
		return models.DemandLevelVeryHigh
	case volume >= s.cfg.HighDemandVolume:
		return models.DemandLevelHigh
	case volume >= s.cfg.MediumDemandVolume:
		return models.DemandLevelMedium
	default:
		return models.DemandLevelLow
	}
}

func roundPrice(p float64) float64 {
	return math.Round(p*100) / 100
}
