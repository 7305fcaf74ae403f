package models

import "time"

// PriceTrend is the direction of week-over-week average price change
type PriceTrend string

const (
	PriceTrendIncreasing PriceTrend = "increasing"
	PriceTrendDecreasing PriceTrend = "decreasing"
	PriceTrendStable     PriceTrend = "stable"
)

// DemandLevel is the coarse demand bucket derived from observation volume
type DemandLevel string

const (
	DemandLevelLow      DemandLevel = "low"
	DemandLevelMedium   DemandLevel = "medium"
	DemandLevelHigh     DemandLevel = "high"
	DemandLevelVeryHigh DemandLevel = "very_high"
)

// MarketDemand is one derived demand record per (route, calendar day).
// Records are upserted: recomputing the same key replaces prior values.
type MarketDemand struct {
	ID           string      `json:"id"`
	RouteID      string      `json:"route_id"`
	Date         time.Time   `json:"date"`
	SearchVolume int         `json:"search_volume"`
	AveragePrice float64     `json:"average_price"`
	PriceTrend   PriceTrend  `json:"price_trend"`
	DemandLevel  DemandLevel `json:"demand_level"`
	CreatedAt    time.Time   `json:"created_at"`
	// Expanded relation (populated on fetch)
	Route *Route `json:"route,omitempty"`
}

// IngestResult summarizes one provider ingestion run
type IngestResult struct {
	RoutesAnalyzed  int `json:"routes_analyzed"`
	MarketDataAdded int `json:"market_data_added"`
	CitiesFailed    int `json:"cities_failed"`
}

// AggregationResult summarizes one demand-aggregation run
type AggregationResult struct {
	Processed int       `json:"processed"`
	Skipped   int       `json:"skipped"`
	Routes    int       `json:"routes"`
	WindowEnd time.Time `json:"window_end"`
}
