package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/skymarket/backend/internal/models"
	"github.com/skymarket/backend/pkg/postgrest"
)

// routeEmbed expands the route with its airports and airline in one select.
// The airports table is referenced twice, so the FK names disambiguate.
const routeEmbed = "route:routes(*,origin:airports!routes_origin_id_fkey(*),destination:airports!routes_destination_id_fkey(*),airline:airlines(*))"

type observationRepository struct {
	client *postgrest.Client
}

// NewObservationRepository creates a new observation repository
func NewObservationRepository(client *postgrest.Client) ObservationRepository {
	return &observationRepository{client: client}
}

func (r *observationRepository) Create(ctx context.Context, obs *models.FlightObservation) (*models.FlightObservation, error) {
	body, err := r.client.Insert("flight_observations", observationRow(obs))
	if err != nil {
		return nil, fmt.Errorf("failed to create observation: %w", err)
	}

	var created []models.FlightObservation
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(created) == 0 {
		return nil, fmt.Errorf("no observation returned")
	}

	return &created[0], nil
}

func (r *observationRepository) CreateBatch(ctx context.Context, obs []models.FlightObservation) ([]models.FlightObservation, error) {
	if len(obs) == 0 {
		return nil, nil
	}

	rows := make([]map[string]interface{}, len(obs))
	for i := range obs {
		rows[i] = observationRow(&obs[i])
	}

	body, err := r.client.Insert("flight_observations", rows)
	if err != nil {
		return nil, fmt.Errorf("failed to batch create observations: %w", err)
	}

	var created []models.FlightObservation
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return created, nil
}

func (r *observationRepository) List(ctx context.Context, limit, offset int) ([]models.FlightObservation, error) {
	query := map[string]interface{}{
		"select": "*," + routeEmbed,
		"order":  "scraped_at.desc",
		"limit":  limit,
		"offset": offset,
	}

	return r.query(query)
}

func (r *observationRepository) GetByDepartureRange(ctx context.Context, start, end time.Time) ([]models.FlightObservation, error) {
	query := map[string]interface{}{
		"select": "*," + routeEmbed,
		"and": fmt.Sprintf("(departure_time.gte.%s,departure_time.lt.%s)",
			start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339)),
	}

	return r.query(query)
}

func (r *observationRepository) GetByScrapedSince(ctx context.Context, since time.Time) ([]models.FlightObservation, error) {
	query := map[string]interface{}{
		"select":     "*," + routeEmbed,
		"scraped_at": fmt.Sprintf("gte.%s", since.UTC().Format(time.RFC3339)),
	}

	return r.query(query)
}

func (r *observationRepository) GetByRouteID(ctx context.Context, routeID string) ([]models.FlightObservation, error) {
	query := map[string]interface{}{
		"select":   "*," + routeEmbed,
		"route_id": fmt.Sprintf("eq.%s", routeID),
	}

	return r.query(query)
}

func (r *observationRepository) GetAll(ctx context.Context) ([]models.FlightObservation, error) {
	query := map[string]interface{}{
		"select": "*," + routeEmbed,
	}

	return r.query(query)
}

func (r *observationRepository) query(query map[string]interface{}) ([]models.FlightObservation, error) {
	body, err := r.client.Query("flight_observations", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get observations: %w", err)
	}

	var obs []models.FlightObservation
	if err := json.Unmarshal(body, &obs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return obs, nil
}

func observationRow(obs *models.FlightObservation) map[string]interface{} {
	return map[string]interface{}{
		"route_id":       obs.RouteID,
		"flight_number":  obs.FlightNumber,
		"departure_time": obs.DepartureTime.UTC().Format(time.RFC3339),
		"arrival_time":   obs.ArrivalTime.UTC().Format(time.RFC3339),
		"price":          obs.Price,
		"currency":       obs.Currency,
		"availability":   obs.Availability,
		"booking_class":  obs.BookingClass,
		"source":         obs.Source,
	}
}
