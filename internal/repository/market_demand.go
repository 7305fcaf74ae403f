package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/skymarket/backend/internal/models"
	"github.com/skymarket/backend/pkg/postgrest"
)

type marketDemandRepository struct {
	client *postgrest.Client
}

// NewMarketDemandRepository creates a new market demand repository
func NewMarketDemandRepository(client *postgrest.Client) MarketDemandRepository {
	return &marketDemandRepository{client: client}
}

// Upsert replaces-or-inserts the record keyed by (route_id, date).
// Rerunning aggregation over the same observations converges on the same row.
func (r *marketDemandRepository) Upsert(ctx context.Context, demand *models.MarketDemand) (*models.MarketDemand, error) {
	data := map[string]interface{}{
		"route_id":      demand.RouteID,
		"date":          demand.Date.UTC().Format(time.RFC3339),
		"search_volume": demand.SearchVolume,
		"average_price": demand.AveragePrice,
		"price_trend":   demand.PriceTrend,
		"demand_level":  demand.DemandLevel,
	}

	body, err := r.client.Upsert("market_demand", data, "route_id,date")
	if err != nil {
		return nil, fmt.Errorf("failed to upsert market demand: %w", err)
	}

	var records []models.MarketDemand
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("no market demand record returned")
	}

	return &records[0], nil
}

func (r *marketDemandRepository) GetLatestBefore(ctx context.Context, routeID string, before, since time.Time) (*models.MarketDemand, error) {
	query := map[string]interface{}{
		"route_id": fmt.Sprintf("eq.%s", routeID),
		"and": fmt.Sprintf("(date.gte.%s,date.lt.%s)",
			since.UTC().Format(time.RFC3339), before.UTC().Format(time.RFC3339)),
		"select": "*",
		"order":  "date.desc",
		"limit":  1,
	}

	body, err := r.client.Query("market_demand", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get prior market demand: %w", err)
	}

	var records []models.MarketDemand
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	return &records[0], nil
}

func (r *marketDemandRepository) List(ctx context.Context, limit, offset int) ([]models.MarketDemand, error) {
	query := map[string]interface{}{
		"select": "*," + routeEmbed,
		"order":  "date.desc",
		"limit":  limit,
		"offset": offset,
	}

	return r.query(query)
}

func (r *marketDemandRepository) GetAll(ctx context.Context) ([]models.MarketDemand, error) {
	query := map[string]interface{}{
		"select": "*",
	}

	return r.query(query)
}

func (r *marketDemandRepository) query(query map[string]interface{}) ([]models.MarketDemand, error) {
	body, err := r.client.Query("market_demand", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get market demand records: %w", err)
	}

	var records []models.MarketDemand
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return records, nil
}
