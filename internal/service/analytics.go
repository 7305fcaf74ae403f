package service

import (
	"context"
	"sort"

	"github.com/skymarket/backend/internal/models"
	"github.com/skymarket/backend/internal/repository"
)

type analyticsService struct {
	obsRepo    repository.ObservationRepository
	demandRepo repository.MarketDemandRepository
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(
	obsRepo repository.ObservationRepository,
	demandRepo repository.MarketDemandRepository,
) AnalyticsService {
	return &analyticsService{
		obsRepo:    obsRepo,
		demandRepo: demandRepo,
	}
}

// GetRouteAnalytics computes the analytics summary for one route, or across
// all routes when routeID is empty.
func (s *analyticsService) GetRouteAnalytics(ctx context.Context, routeID string) (*models.RouteAnalytics, error) {
	var observations []models.FlightObservation
	var err error

	if routeID != "" {
		observations, err = s.obsRepo.GetByRouteID(ctx, routeID)
	} else {
		observations, err = s.obsRepo.GetAll(ctx)
	}
	if err != nil {
		return nil, storeFailure("observation query", err)
	}

	analytics := &models.RouteAnalytics{
		TotalFlights:  len(observations),
		PopularRoutes: popularRoutes(observations),
		PriceTrends:   dailyPriceTrends(observations),
	}

	var sum float64
	for i := range observations {
		obs := &observations[i]
		sum += obs.Price
		if i == 0 || obs.Price < analytics.PriceRange.Min {
			analytics.PriceRange.Min = obs.Price
		}
		if obs.Price > analytics.PriceRange.Max {
			analytics.PriceRange.Max = obs.Price
		}
	}
	if len(observations) > 0 {
		analytics.AveragePrice = roundPrice(sum / float64(len(observations)))
	}

	patterns, err := s.demandPatterns(ctx)
	if err != nil {
		return nil, err
	}
	analytics.DemandPatterns = patterns

	return analytics, nil
}

// popularRoutes ranks routes by observation count, top 10
func popularRoutes(observations []models.FlightObservation) []models.PopularRoute {
	type agg struct {
		routeID string
		label   string
		count   int
		sum     float64
	}

	byRoute := make(map[string]*agg)
	order := make([]string, 0)

	for i := range observations {
		obs := &observations[i]
		a, exists := byRoute[obs.RouteID]
		if !exists {
			a = &agg{routeID: obs.RouteID, label: routeIATALabel(obs)}
			byRoute[obs.RouteID] = a
			order = append(order, obs.RouteID)
		}
		a.count++
		a.sum += obs.Price
	}

	ranked := make([]*agg, 0, len(order))
	for _, id := range order {
		ranked = append(ranked, byRoute[id])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].count > ranked[j].count
	})

	if len(ranked) > 10 {
		ranked = ranked[:10]
	}

	out := make([]models.PopularRoute, 0, len(ranked))
	for _, a := range ranked {
		out = append(out, models.PopularRoute{
			RouteID:     a.routeID,
			Label:       a.label,
			FlightCount: a.count,
			AvgPrice:    roundPrice(a.sum / float64(a.count)),
		})
	}
	return out
}

// dailyPriceTrends averages prices per departure day, sorted by date
func dailyPriceTrends(observations []models.FlightObservation) []models.DailyPrice {
	type agg struct {
		count int
		sum   float64
	}

	byDay := make(map[string]*agg)
	for i := range observations {
		obs := &observations[i]
		day := obs.DepartureDate().Format("2006-01-02")
		a, exists := byDay[day]
		if !exists {
			a = &agg{}
			byDay[day] = a
		}
		a.count++
		a.sum += obs.Price
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	out := make([]models.DailyPrice, 0, len(days))
	for _, day := range days {
		a := byDay[day]
		out = append(out, models.DailyPrice{
			Date:        day,
			AvgPrice:    roundPrice(a.sum / float64(a.count)),
			FlightCount: a.count,
		})
	}
	return out
}

// demandPatterns summarizes stored demand records per demand level
func (s *analyticsService) demandPatterns(ctx context.Context) ([]models.DemandPattern, error) {
	records, err := s.demandRepo.GetAll(ctx)
	if err != nil {
		return nil, storeFailure("market demand query", err)
	}

	type agg struct {
		count     int
		priceSum  float64
		volumeSum int
	}

	byLevel := make(map[models.DemandLevel]*agg)
	for i := range records {
		r := &records[i]
		a, exists := byLevel[r.DemandLevel]
		if !exists {
			a = &agg{}
			byLevel[r.DemandLevel] = a
		}
		a.count++
		a.priceSum += r.AveragePrice
		a.volumeSum += r.SearchVolume
	}

	levels := []models.DemandLevel{
		models.DemandLevelLow,
		models.DemandLevelMedium,
		models.DemandLevelHigh,
		models.DemandLevelVeryHigh,
	}

	out := make([]models.DemandPattern, 0, len(byLevel))
	for _, level := range levels {
		a, exists := byLevel[level]
		if !exists {
			continue
		}
		out = append(out, models.DemandPattern{
			DemandLevel:     level,
			Count:           a.count,
			AvgPrice:        roundPrice(a.priceSum / float64(a.count)),
			AvgSearchVolume: float64(a.volumeSum) / float64(a.count),
		})
	}
	return out, nil
}
