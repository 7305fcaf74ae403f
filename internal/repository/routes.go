package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/skymarket/backend/internal/models"
	"github.com/skymarket/backend/pkg/postgrest"
)

const routeSelect = "*,origin:airports!routes_origin_id_fkey(*),destination:airports!routes_destination_id_fkey(*),airline:airlines(*)"

type routeRepository struct {
	client *postgrest.Client
}

// NewRouteRepository creates a new route repository
func NewRouteRepository(client *postgrest.Client) RouteRepository {
	return &routeRepository{client: client}
}

func (r *routeRepository) GetByID(ctx context.Context, id string) (*models.Route, error) {
	query := map[string]interface{}{
		"id":     fmt.Sprintf("eq.%s", id),
		"select": routeSelect,
	}

	body, err := r.client.Query("routes", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get route: %w", err)
	}

	var routes []models.Route
	if err := json.Unmarshal(body, &routes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(routes) == 0 {
		return nil, nil
	}

	return &routes[0], nil
}

func (r *routeRepository) GetAll(ctx context.Context) ([]models.Route, error) {
	query := map[string]interface{}{
		"select": routeSelect,
	}

	body, err := r.client.Query("routes", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get routes: %w", err)
	}

	var routes []models.Route
	if err := json.Unmarshal(body, &routes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return routes, nil
}

// GetOrCreate upserts on the (origin_id, destination_id, airline_id) natural
// key. The merge resolution makes a lost race return the winner's row, so
// concurrent callers converge on one route.
func (r *routeRepository) GetOrCreate(ctx context.Context, originID, destinationID, airlineID string) (*models.Route, error) {
	data := map[string]interface{}{
		"origin_id":      originID,
		"destination_id": destinationID,
		"airline_id":     airlineID,
	}

	body, err := r.client.Upsert("routes", data, "origin_id,destination_id,airline_id")
	if err != nil {
		return nil, fmt.Errorf("failed to get or create route: %w", err)
	}

	var routes []models.Route
	if err := json.Unmarshal(body, &routes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(routes) == 0 {
		return nil, fmt.Errorf("no route returned")
	}

	return &routes[0], nil
}
