package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skymarket/backend/internal/models"
)

type stubObservationService struct {
	created *models.FlightObservation
	err     error
}

func (s *stubObservationService) Create(ctx context.Context, req *models.CreateObservationRequest) (*models.FlightObservation, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = &models.FlightObservation{
		ID:            "obs-1",
		RouteID:       req.RouteID,
		FlightNumber:  req.FlightNumber,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		Price:         req.Price,
	}
	return s.created, nil
}

func (s *stubObservationService) List(ctx context.Context, limit, offset int) ([]models.FlightObservation, error) {
	return nil, s.err
}

func newFlightRouter(svc *stubObservationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewFlightHandler(svc)
	r.GET("/flights", h.ListFlights)
	r.POST("/flights", h.CreateFlight)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateFlightValidation(t *testing.T) {
	departure := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	validUUID := "3f1d9a52-7e1b-4f7e-9c3b-2a8a1d1d2e3f"

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
	}{
		{
			name: "invalid route uuid",
			body: map[string]any{
				"route_id": "not-a-uuid", "flight_number": "QF400",
				"departure_time": departure, "arrival_time": departure.Add(time.Hour),
				"price": 100, "source": "manual",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "non-positive price",
			body: map[string]any{
				"route_id": validUUID, "flight_number": "QF400",
				"departure_time": departure, "arrival_time": departure.Add(time.Hour),
				"price": -5, "source": "manual",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "arrival before departure",
			body: map[string]any{
				"route_id": validUUID, "flight_number": "QF400",
				"departure_time": departure, "arrival_time": departure.Add(-time.Hour),
				"price": 100, "source": "manual",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "unknown booking class",
			body: map[string]any{
				"route_id": validUUID, "flight_number": "QF400",
				"departure_time": departure, "arrival_time": departure.Add(time.Hour),
				"price": 100, "source": "manual", "booking_class": "Z",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "valid request",
			body: map[string]any{
				"route_id": validUUID, "flight_number": "QF400",
				"departure_time": departure, "arrival_time": departure.Add(time.Hour),
				"price": 100, "source": "manual", "booking_class": "E",
			},
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newFlightRouter(&stubObservationService{})
			raw, err := json.Marshal(tt.body)
			if err != nil {
				t.Fatalf("marshal body: %v", err)
			}

			w := postJSON(t, r, "/flights", string(raw))
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}

			if tt.wantStatus == http.StatusBadRequest {
				if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/problem+json") {
					t.Errorf("Content-Type = %q, want problem+json", ct)
				}
			}
		})
	}
}

func TestCreateFlightRejectsMalformedJSON(t *testing.T) {
	r := newFlightRouter(&stubObservationService{})
	w := postJSON(t, r, "/flights", "{not json")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
