package service

import (
	"context"

	"github.com/skymarket/backend/internal/models"
	"github.com/skymarket/backend/internal/repository"
)

type marketDataService struct {
	routeRepo  repository.RouteRepository
	demandRepo repository.MarketDemandRepository
}

// NewMarketDataService creates a new market data read service
func NewMarketDataService(
	routeRepo repository.RouteRepository,
	demandRepo repository.MarketDemandRepository,
) MarketDataService {
	return &marketDataService{
		routeRepo:  routeRepo,
		demandRepo: demandRepo,
	}
}

func (s *marketDataService) ListRoutes(ctx context.Context) ([]models.Route, error) {
	routes, err := s.routeRepo.GetAll(ctx)
	if err != nil {
		return nil, storeFailure("route query", err)
	}
	return routes, nil
}

func (s *marketDataService) ListDemand(ctx context.Context, limit, offset int) ([]models.MarketDemand, error) {
	records, err := s.demandRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, storeFailure("market demand query", err)
	}
	return records, nil
}
