package service

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/skymarket/backend/internal/models"
	"github.com/skymarket/backend/internal/repository"
)

var exportHeader = []string{
	"flight_number",
	"origin_code",
	"origin_city",
	"destination_code",
	"destination_city",
	"airline",
	"departure_time",
	"arrival_time",
	"price",
	"currency",
	"booking_class",
	"availability",
	"scraped_at",
}

type exportService struct {
	obsRepo repository.ObservationRepository
}

// NewExportService creates a new export service
func NewExportService(obsRepo repository.ObservationRepository) ExportService {
	return &exportService{obsRepo: obsRepo}
}

// ExportObservationsCSV writes every stored observation to w as CSV and
// returns the number of data rows written.
func (s *exportService) ExportObservationsCSV(ctx context.Context, w io.Writer) (int, error) {
	observations, err := s.obsRepo.GetAll(ctx)
	if err != nil {
		return 0, storeFailure("observation query", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return 0, err
	}

	written := 0
	for i := range observations {
		if err := cw.Write(exportRow(&observations[i])); err != nil {
			return written, err
		}
		written++
	}

	cw.Flush()
	return written, cw.Error()
}

func exportRow(obs *models.FlightObservation) []string {
	row := []string{
		obs.FlightNumber,
		"", "", "", "", "",
		obs.DepartureTime.UTC().Format(time.RFC3339),
		obs.ArrivalTime.UTC().Format(time.RFC3339),
		strconv.FormatFloat(obs.Price, 'f', 2, 64),
		obs.Currency,
		string(obs.BookingClass),
		strconv.Itoa(obs.Availability),
		obs.ScrapedAt.UTC().Format(time.RFC3339),
	}
	if obs.Route != nil {
		if obs.Route.Origin != nil {
			row[1] = obs.Route.Origin.IATACode
			row[2] = obs.Route.Origin.City
		}
		if obs.Route.Destination != nil {
			row[3] = obs.Route.Destination.IATACode
			row[4] = obs.Route.Destination.City
		}
		if obs.Route.Airline != nil {
			row[5] = obs.Route.Airline.Name
		}
	}
	return row
}
