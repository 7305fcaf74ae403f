package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/skymarket/backend/internal/logger"
	"github.com/skymarket/backend/internal/models"
	"github.com/skymarket/backend/pkg/amadeus"
)

// mockAirportRepo assigns IDs by IATA code
type mockAirportRepo struct {
	airports map[string]*models.Airport
}

func newMockAirportRepo() *mockAirportRepo {
	return &mockAirportRepo{airports: make(map[string]*models.Airport)}
}

func (m *mockAirportRepo) GetByIATA(ctx context.Context, iata string) (*models.Airport, error) {
	return m.airports[iata], nil
}

func (m *mockAirportRepo) GetOrCreate(ctx context.Context, airport *models.Airport) (*models.Airport, error) {
	if a, ok := m.airports[airport.IATACode]; ok {
		return a, nil
	}
	created := *airport
	created.ID = "apt-" + airport.IATACode
	m.airports[airport.IATACode] = &created
	return &created, nil
}

type mockAirlineRepo struct {
	airlines map[string]*models.Airline
}

func newMockAirlineRepo() *mockAirlineRepo {
	return &mockAirlineRepo{airlines: make(map[string]*models.Airline)}
}

func (m *mockAirlineRepo) GetByIATA(ctx context.Context, iata string) (*models.Airline, error) {
	return m.airlines[iata], nil
}

func (m *mockAirlineRepo) GetOrCreate(ctx context.Context, airline *models.Airline) (*models.Airline, error) {
	if a, ok := m.airlines[airline.IATACode]; ok {
		return a, nil
	}
	created := *airline
	created.ID = "al-" + airline.IATACode
	m.airlines[airline.IATACode] = &created
	return &created, nil
}

// mockProvider serves per-origin destination lists and errors
type mockProvider struct {
	traveled    map[string][]amadeus.Destination
	booked      map[string][]amadeus.Destination
	traveledErr map[string]error
	bookedErr   map[string]error
}

func (m *mockProvider) MostTraveledDestinations(ctx context.Context, origin string) ([]amadeus.Destination, error) {
	if err := m.traveledErr[origin]; err != nil {
		return nil, err
	}
	return m.traveled[origin], nil
}

func (m *mockProvider) MostBookedDestinations(ctx context.Context, origin string) ([]amadeus.Destination, error) {
	if err := m.bookedErr[origin]; err != nil {
		return nil, err
	}
	return m.booked[origin], nil
}

func newTestIngestService(provider TrafficProvider, demandRepo *mockDemandRepo) IngestService {
	return NewIngestService(provider, newMockAirportRepo(), newMockAirlineRepo(),
		newMockRouteRepo(), demandRepo, logger.Default())
}

func TestIngestProviderData(t *testing.T) {
	provider := &mockProvider{
		traveled: map[string][]amadeus.Destination{
			"SYD": {{IATACode: "MEL", Score: 35}, {IATACode: "BNE", Score: 12}},
		},
		booked: map[string][]amadeus.Destination{
			"SYD": {{IATACode: "MEL", Score: 28}, {IATACode: "OOL", Score: 8}},
		},
		traveledErr: map[string]error{
			"MEL": errors.New("provider down"),
			"BNE": errors.New("provider down"),
			"PER": errors.New("provider down"),
		},
	}
	demandRepo := newMockDemandRepo()

	s := newTestIngestService(provider, demandRepo)
	result, err := s.IngestProviderData(context.Background())
	if err != nil {
		t.Fatalf("IngestProviderData: %v", err)
	}

	// SYD yields MEL, BNE, OOL; the other three origins fail
	if result.RoutesAnalyzed != 3 {
		t.Errorf("RoutesAnalyzed = %d, want 3", result.RoutesAnalyzed)
	}
	if result.MarketDataAdded != 3 {
		t.Errorf("MarketDataAdded = %d, want 3", result.MarketDataAdded)
	}
	if result.CitiesFailed != 3 {
		t.Errorf("CitiesFailed = %d, want 3", result.CitiesFailed)
	}

	records := demandRepo.all()
	byVolume := make(map[int]models.MarketDemand)
	for _, r := range records {
		byVolume[r.SearchVolume] = r
	}

	// MEL keeps the higher of its traveled and booked scores
	mel, ok := byVolume[3500]
	if !ok {
		t.Fatalf("no record with volume 3500, got %+v", records)
	}
	if mel.DemandLevel != models.DemandLevelVeryHigh {
		t.Errorf("MEL demand level = %q, want very_high", mel.DemandLevel)
	}
	if mel.PriceTrend != models.PriceTrendStable {
		t.Errorf("provider record trend = %q, want stable", mel.PriceTrend)
	}

	if bne, ok := byVolume[1200]; !ok || bne.DemandLevel != models.DemandLevelMedium {
		t.Errorf("BNE record = %+v, want medium at volume 1200", bne)
	}
	if ool, ok := byVolume[800]; !ok || ool.DemandLevel != models.DemandLevelLow {
		t.Errorf("OOL record = %+v, want low at volume 800", ool)
	}
}

func TestIngestSurvivesBookedFailure(t *testing.T) {
	provider := &mockProvider{
		traveled: map[string][]amadeus.Destination{
			"SYD": {{IATACode: "MEL", Score: 25}},
		},
		bookedErr: map[string]error{"SYD": errors.New("quota exceeded")},
		traveledErr: map[string]error{
			"MEL": errors.New("provider down"),
			"BNE": errors.New("provider down"),
			"PER": errors.New("provider down"),
		},
	}

	s := newTestIngestService(provider, newMockDemandRepo())
	result, err := s.IngestProviderData(context.Background())
	if err != nil {
		t.Fatalf("IngestProviderData: %v", err)
	}
	if result.MarketDataAdded != 1 {
		t.Errorf("MarketDataAdded = %d, want 1 from traveled data alone", result.MarketDataAdded)
	}
	if result.CitiesFailed != 3 {
		t.Errorf("CitiesFailed = %d, want 3", result.CitiesFailed)
	}
}

func TestIngestAllOriginsFailing(t *testing.T) {
	provider := &mockProvider{traveledErr: map[string]error{}}
	for _, origin := range originCities {
		provider.traveledErr[origin] = fmt.Errorf("no data for %s", origin)
	}

	s := newTestIngestService(provider, newMockDemandRepo())
	result, err := s.IngestProviderData(context.Background())
	if err != nil {
		t.Fatalf("IngestProviderData: %v", err)
	}
	if result.CitiesFailed != len(originCities) {
		t.Errorf("CitiesFailed = %d, want %d", result.CitiesFailed, len(originCities))
	}
	if result.RoutesAnalyzed != 0 || result.MarketDataAdded != 0 {
		t.Errorf("failing run produced data: %+v", result)
	}
}

func TestScoreDemandLevel(t *testing.T) {
	tests := []struct {
		score float64
		want  models.DemandLevel
	}{
		{35, models.DemandLevelVeryHigh},
		{30, models.DemandLevelVeryHigh},
		{25, models.DemandLevelHigh},
		{20, models.DemandLevelHigh},
		{15, models.DemandLevelMedium},
		{10, models.DemandLevelMedium},
		{5, models.DemandLevelLow},
		{0, models.DemandLevelLow},
	}
	for _, tt := range tests {
		if got := scoreDemandLevel(tt.score); got != tt.want {
			t.Errorf("scoreDemandLevel(%.0f) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
