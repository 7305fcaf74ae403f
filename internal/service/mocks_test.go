package service

import (
	"context"
	"fmt"
	"time"

	"github.com/skymarket/backend/internal/config"
	"github.com/skymarket/backend/internal/models"
)

func testAnalysisConfig() config.AnalysisConfig {
	return config.AnalysisConfig{
		AggregationWindowDays:   30,
		InsightWindowDays:       7,
		SeasonalWindowDays:      10,
		TrendLookbackDays:       7,
		TrendChangeThreshold:    0.10,
		VeryHighDemandVolume:    20,
		HighDemandVolume:        10,
		MediumDemandVolume:      5,
		MinObservationsPerRoute: 3,
		VolatilityThreshold:     0.5,
		BudgetPriceThreshold:    200.0,
		WeekendPremiumFactor:    1.1,
		TopRouteCount:           3,
		SummaryRouteCount:       5,
	}
}

// mockObservationRepo serves canned observations
type mockObservationRepo struct {
	observations []models.FlightObservation
	rangeObs     []models.FlightObservation // served by GetByDepartureRange
	err          error
	rangeErr     error
}

func (m *mockObservationRepo) Create(ctx context.Context, obs *models.FlightObservation) (*models.FlightObservation, error) {
	if m.err != nil {
		return nil, m.err
	}
	created := *obs
	created.ID = fmt.Sprintf("obs-%d", len(m.observations)+1)
	m.observations = append(m.observations, created)
	return &created, nil
}

func (m *mockObservationRepo) CreateBatch(ctx context.Context, obs []models.FlightObservation) ([]models.FlightObservation, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.observations = append(m.observations, obs...)
	return obs, nil
}

func (m *mockObservationRepo) List(ctx context.Context, limit, offset int) ([]models.FlightObservation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.observations, nil
}

func (m *mockObservationRepo) GetByDepartureRange(ctx context.Context, start, end time.Time) ([]models.FlightObservation, error) {
	if m.rangeErr != nil {
		return nil, m.rangeErr
	}
	return m.rangeObs, nil
}

func (m *mockObservationRepo) GetByScrapedSince(ctx context.Context, since time.Time) ([]models.FlightObservation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.observations, nil
}

func (m *mockObservationRepo) GetByRouteID(ctx context.Context, routeID string) ([]models.FlightObservation, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.FlightObservation
	for _, o := range m.observations {
		if o.RouteID == routeID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockObservationRepo) GetAll(ctx context.Context) ([]models.FlightObservation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.observations, nil
}

// mockDemandRepo stores demand records keyed (route_id, date)
type mockDemandRepo struct {
	records    map[string]*models.MarketDemand
	upserts    int
	upsertErr  error
	latestErr  error
}

func newMockDemandRepo() *mockDemandRepo {
	return &mockDemandRepo{records: make(map[string]*models.MarketDemand)}
}

func demandKey(routeID string, date time.Time) string {
	return routeID + "|" + date.Format("2006-01-02")
}

func (m *mockDemandRepo) Upsert(ctx context.Context, demand *models.MarketDemand) (*models.MarketDemand, error) {
	if m.upsertErr != nil {
		return nil, m.upsertErr
	}
	m.upserts++
	stored := *demand
	if existing, ok := m.records[demandKey(demand.RouteID, demand.Date)]; ok {
		stored.ID = existing.ID
	} else {
		stored.ID = fmt.Sprintf("md-%d", len(m.records)+1)
	}
	m.records[demandKey(demand.RouteID, demand.Date)] = &stored
	return &stored, nil
}

func (m *mockDemandRepo) GetLatestBefore(ctx context.Context, routeID string, before, since time.Time) (*models.MarketDemand, error) {
	if m.latestErr != nil {
		return nil, m.latestErr
	}
	var latest *models.MarketDemand
	for _, r := range m.records {
		if r.RouteID != routeID {
			continue
		}
		if r.Date.Before(since) || !r.Date.Before(before) {
			continue
		}
		if latest == nil || r.Date.After(latest.Date) {
			latest = r
		}
	}
	return latest, nil
}

func (m *mockDemandRepo) List(ctx context.Context, limit, offset int) ([]models.MarketDemand, error) {
	return m.all(), nil
}

func (m *mockDemandRepo) GetAll(ctx context.Context) ([]models.MarketDemand, error) {
	return m.all(), nil
}

func (m *mockDemandRepo) all() []models.MarketDemand {
	out := make([]models.MarketDemand, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, *r)
	}
	return out
}

// mockInsightRepo stores insights with title uniqueness
type mockInsightRepo struct {
	byTitle map[string]*models.Insight
	order   []string
}

func newMockInsightRepo() *mockInsightRepo {
	return &mockInsightRepo{byTitle: make(map[string]*models.Insight)}
}

func (m *mockInsightRepo) Exists(ctx context.Context, title string) (bool, error) {
	_, ok := m.byTitle[title]
	return ok, nil
}

func (m *mockInsightRepo) Insert(ctx context.Context, insight *models.Insight) (*models.Insight, bool, error) {
	if _, ok := m.byTitle[insight.Title]; ok {
		return nil, false, nil
	}
	stored := *insight
	stored.ID = fmt.Sprintf("ins-%d", len(m.byTitle)+1)
	stored.CreatedAt = time.Now().UTC()
	m.byTitle[insight.Title] = &stored
	m.order = append(m.order, insight.Title)
	return &stored, true, nil
}

func (m *mockInsightRepo) List(ctx context.Context, limit, offset int) ([]models.Insight, error) {
	out := make([]models.Insight, 0, len(m.order))
	for _, title := range m.order {
		out = append(out, *m.byTitle[title])
	}
	return out, nil
}

// mockRouteRepo serves canned routes
type mockRouteRepo struct {
	routes map[string]*models.Route
}

func newMockRouteRepo() *mockRouteRepo {
	return &mockRouteRepo{routes: make(map[string]*models.Route)}
}

func (m *mockRouteRepo) GetByID(ctx context.Context, id string) (*models.Route, error) {
	for _, r := range m.routes {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (m *mockRouteRepo) GetAll(ctx context.Context) ([]models.Route, error) {
	out := make([]models.Route, 0, len(m.routes))
	for _, r := range m.routes {
		out = append(out, *r)
	}
	return out, nil
}

func (m *mockRouteRepo) GetOrCreate(ctx context.Context, originID, destinationID, airlineID string) (*models.Route, error) {
	key := originID + "|" + destinationID + "|" + airlineID
	if r, ok := m.routes[key]; ok {
		return r, nil
	}
	r := &models.Route{
		ID:            fmt.Sprintf("route-%d", len(m.routes)+1),
		OriginID:      originID,
		DestinationID: destinationID,
		AirlineID:     airlineID,
	}
	m.routes[key] = r
	return r, nil
}

// mockSynthesizer returns canned candidates or an error
type mockSynthesizer struct {
	candidates []models.InsightCandidate
	err        error
	called     bool
}

func (m *mockSynthesizer) Synthesize(ctx context.Context, summary models.StatisticalSummary) ([]models.InsightCandidate, error) {
	m.called = true
	if m.err != nil {
		return nil, m.err
	}
	return m.candidates, nil
}

// test data helpers

func testRoute(id, originIATA, originCity, destIATA, destCity string) *models.Route {
	return &models.Route{
		ID: id,
		Origin: &models.Airport{
			IATACode: originIATA,
			City:     originCity,
		},
		Destination: &models.Airport{
			IATACode: destIATA,
			City:     destCity,
		},
	}
}

func testObservation(route *models.Route, departure time.Time, price float64) models.FlightObservation {
	return models.FlightObservation{
		RouteID:       route.ID,
		Route:         route,
		FlightNumber:  "QF400",
		DepartureTime: departure,
		ArrivalTime:   departure.Add(90 * time.Minute),
		Price:         price,
		Currency:      "AUD",
		BookingClass:  models.BookingClassEconomy,
		Source:        "test",
		ScrapedAt:     time.Now().UTC(),
	}
}
