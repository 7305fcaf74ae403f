package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/skymarket/backend/internal/models"
	"github.com/skymarket/backend/pkg/postgrest"
)

type airportRepository struct {
	client *postgrest.Client
}

// NewAirportRepository creates a new airport repository
func NewAirportRepository(client *postgrest.Client) AirportRepository {
	return &airportRepository{client: client}
}

func (r *airportRepository) GetByIATA(ctx context.Context, iata string) (*models.Airport, error) {
	query := map[string]interface{}{
		"iata_code": fmt.Sprintf("eq.%s", iata),
		"select":    "*",
	}

	body, err := r.client.Query("airports", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get airport: %w", err)
	}

	var airports []models.Airport
	if err := json.Unmarshal(body, &airports); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(airports) == 0 {
		return nil, nil
	}

	return &airports[0], nil
}

func (r *airportRepository) GetOrCreate(ctx context.Context, airport *models.Airport) (*models.Airport, error) {
	data := map[string]interface{}{
		"name":      airport.Name,
		"city":      airport.City,
		"country":   airport.Country,
		"iata_code": airport.IATACode,
		"icao_code": airport.ICAOCode,
	}

	body, err := r.client.Upsert("airports", data, "iata_code")
	if err != nil {
		return nil, fmt.Errorf("failed to get or create airport: %w", err)
	}

	var airports []models.Airport
	if err := json.Unmarshal(body, &airports); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(airports) == 0 {
		return nil, fmt.Errorf("no airport returned")
	}

	return &airports[0], nil
}

type airlineRepository struct {
	client *postgrest.Client
}

// NewAirlineRepository creates a new airline repository
func NewAirlineRepository(client *postgrest.Client) AirlineRepository {
	return &airlineRepository{client: client}
}

func (r *airlineRepository) GetByIATA(ctx context.Context, iata string) (*models.Airline, error) {
	query := map[string]interface{}{
		"iata_code": fmt.Sprintf("eq.%s", iata),
		"select":    "*",
	}

	body, err := r.client.Query("airlines", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get airline: %w", err)
	}

	var airlines []models.Airline
	if err := json.Unmarshal(body, &airlines); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(airlines) == 0 {
		return nil, nil
	}

	return &airlines[0], nil
}

func (r *airlineRepository) GetOrCreate(ctx context.Context, airline *models.Airline) (*models.Airline, error) {
	data := map[string]interface{}{
		"name":      airline.Name,
		"iata_code": airline.IATACode,
		"icao_code": airline.ICAOCode,
		"country":   airline.Country,
	}

	body, err := r.client.Upsert("airlines", data, "iata_code")
	if err != nil {
		return nil, fmt.Errorf("failed to get or create airline: %w", err)
	}

	var airlines []models.Airline
	if err := json.Unmarshal(body, &airlines); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(airlines) == 0 {
		return nil, fmt.Errorf("no airline returned")
	}

	return &airlines[0], nil
}
