package models

import "time"

// InsightType represents the kind of analytical statement an insight makes
type InsightType string

const (
	InsightTypePriceTrend      InsightType = "price_trend"
	InsightTypePopularRoute    InsightType = "popular_route"
	InsightTypeSeasonalPattern InsightType = "seasonal_pattern"
	InsightTypeDemandForecast  InsightType = "demand_forecast"
)

// ValidInsightType reports whether s is one of the known insight types.
func ValidInsightType(s string) bool {
	switch InsightType(s) {
	case InsightTypePriceTrend, InsightTypePopularRoute,
		InsightTypeSeasonalPattern, InsightTypeDemandForecast:
		return true
	}
	return false
}

// Generator tags recorded in generated_by so consumers can tell data-derived
// insights apart from synthetic ones.
const (
	GeneratorPriceVolatility = "price_volatility_analyzer"
	GeneratorPopularity      = "popularity_analyzer"
	GeneratorSeasonal        = "seasonal_analyzer"
	GeneratorNarrative       = "narrative_synthesizer"
	GeneratorMock            = "mock_generator"
)

// Insight is a titled, deduplicated analytical statement. Title is the dedup
// identity: a second insight with the same title is never stored. Insights
// are immutable after creation.
type Insight struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	InsightType     InsightType `json:"insight_type"`
	ConfidenceScore float64     `json:"confidence_score"`
	GeneratedBy     string      `json:"generated_by"`
	CreatedAt       time.Time   `json:"created_at"`
}

// InsightCandidate is an analyzer's proposed insight before dedup and storage
type InsightCandidate struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Type        InsightType `json:"type"`
	Confidence  float64     `json:"confidence"`
}

// SerializedInsight is the outward-facing insight representation
type SerializedInsight struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Confidence  float64 `json:"confidence"`
	GeneratedBy string  `json:"generated_by"`
	CreatedAt   string  `json:"created_at"` // ISO-8601
}

// Serialize converts a stored insight to its API representation.
func (i *Insight) Serialize() SerializedInsight {
	return SerializedInsight{
		ID:          i.ID,
		Title:       i.Title,
		Description: i.Description,
		Type:        string(i.InsightType),
		Confidence:  i.ConfidenceScore,
		GeneratedBy: i.GeneratedBy,
		CreatedAt:   i.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// RouteSummary is one row of the per-route aggregate table sent to the
// narrative synthesizer.
type RouteSummary struct {
	Label    string  `json:"label"`
	Count    int     `json:"count"`
	AvgPrice float64 `json:"avg_price"`
}

// StatisticalSummary is the compact summary handed to the text-generation
// capability. Raw observations are never sent; this bounds request size.
type StatisticalSummary struct {
	TotalObservations int            `json:"total_observations"`
	AveragePrice      float64        `json:"average_price"`
	MinPrice          float64        `json:"min_price"`
	MaxPrice          float64        `json:"max_price"`
	UniqueRoutes      int            `json:"unique_routes"`
	TopRoutes         []RouteSummary `json:"top_routes"`
}

// PopularRoute is one entry of the route analytics popularity table
type PopularRoute struct {
	RouteID     string  `json:"route_id"`
	Label       string  `json:"label"`
	FlightCount int     `json:"flight_count"`
	AvgPrice    float64 `json:"avg_price"`
}

// DailyPrice is one point of the daily average price series
type DailyPrice struct {
	Date        string  `json:"date"`
	AvgPrice    float64 `json:"avg_price"`
	FlightCount int     `json:"flight_count"`
}

// DemandPattern summarizes stored market demand records per demand level
type DemandPattern struct {
	DemandLevel     DemandLevel `json:"demand_level"`
	Count           int         `json:"count"`
	AvgPrice        float64     `json:"avg_price"`
	AvgSearchVolume float64     `json:"avg_search_volume"`
}

// PriceRange is the observed min/max price pair
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// RouteAnalytics is the analytics summary for one route or all routes
type RouteAnalytics struct {
	TotalFlights   int             `json:"total_flights"`
	AveragePrice   float64         `json:"average_price"`
	PriceRange     PriceRange      `json:"price_range"`
	PopularRoutes  []PopularRoute  `json:"popular_routes"`
	PriceTrends    []DailyPrice    `json:"price_trends"`
	DemandPatterns []DemandPattern `json:"demand_patterns"`
}
