package models

import (
	"fmt"
	"time"
)

// Airport represents an airport referenced by routes
type Airport struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	Country   string    `json:"country"`
	IATACode  string    `json:"iata_code"`
	ICAOCode  string    `json:"icao_code,omitempty"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Airline represents an operating carrier
type Airline struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IATACode  string    `json:"iata_code"`
	ICAOCode  string    `json:"icao_code,omitempty"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"created_at"`
}

// Route represents a directed origin-destination pair operated by an airline.
// Identity is the (origin, destination, airline) triple.
type Route struct {
	ID            string    `json:"id"`
	OriginID      string    `json:"origin_id"`
	DestinationID string    `json:"destination_id"`
	AirlineID     string    `json:"airline_id"`
	DistanceKM    *int      `json:"distance_km,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	// Expanded relations (populated on fetch)
	Origin      *Airport `json:"origin,omitempty"`
	Destination *Airport `json:"destination,omitempty"`
	Airline     *Airline `json:"airline,omitempty"`
}

// IATAPair returns the "SYD-MEL" style route label, or the route ID when
// relations are not expanded.
func (r *Route) IATAPair() string {
	if r.Origin != nil && r.Destination != nil {
		return fmt.Sprintf("%s-%s", r.Origin.IATACode, r.Destination.IATACode)
	}
	return r.ID
}

// CityPair returns the "Sydney to Melbourne" style route label.
func (r *Route) CityPair() string {
	if r.Origin != nil && r.Destination != nil {
		return fmt.Sprintf("%s to %s", r.Origin.City, r.Destination.City)
	}
	return r.ID
}

// BookingClass is the cabin class of an observed fare
type BookingClass string

const (
	BookingClassEconomy        BookingClass = "E"
	BookingClassPremiumEconomy BookingClass = "P"
	BookingClassBusiness       BookingClass = "B"
	BookingClassFirst          BookingClass = "F"
)

// FlightObservation is one ingested flight price record. Observations are
// immutable once created; the analysis pipeline only reads them.
type FlightObservation struct {
	ID            string       `json:"id"`
	RouteID       string       `json:"route_id"`
	FlightNumber  string       `json:"flight_number"`
	DepartureTime time.Time    `json:"departure_time"`
	ArrivalTime   time.Time    `json:"arrival_time"`
	Price         float64      `json:"price"`
	Currency      string       `json:"currency"`
	Availability  int          `json:"availability"`
	BookingClass  BookingClass `json:"booking_class"`
	Source        string       `json:"source"`
	ScrapedAt     time.Time    `json:"scraped_at"`
	// Expanded relation (populated on fetch)
	Route *Route `json:"route,omitempty"`
}

// DepartureDate returns the calendar day of departure, the grouping key
// used by demand aggregation.
func (o *FlightObservation) DepartureDate() time.Time {
	y, m, d := o.DepartureTime.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CreateObservationRequest represents an ingested observation before storage
type CreateObservationRequest struct {
	RouteID       string       `json:"route_id" binding:"required"`
	FlightNumber  string       `json:"flight_number" binding:"required"`
	DepartureTime time.Time    `json:"departure_time" binding:"required"`
	ArrivalTime   time.Time    `json:"arrival_time" binding:"required"`
	Price         float64      `json:"price"`
	Currency      string       `json:"currency"`
	Availability  int          `json:"availability"`
	BookingClass  BookingClass `json:"booking_class"`
	Source        string       `json:"source" binding:"required"`
}
