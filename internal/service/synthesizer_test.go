package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/skymarket/backend/internal/genai"
	"github.com/skymarket/backend/internal/models"
)

// mockGenerator returns a canned completion
type mockGenerator struct {
	reply  string
	err    error
	prompt string
}

func (m *mockGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	m.prompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func testSummary() models.StatisticalSummary {
	return models.StatisticalSummary{
		TotalObservations: 42,
		AveragePrice:      215.5,
		MinPrice:          99,
		MaxPrice:          410,
		UniqueRoutes:      4,
		TopRoutes: []models.RouteSummary{
			{Label: "Sydney to Melbourne", Count: 18, AvgPrice: 189.9},
		},
	}
}

func TestSynthesizeParsesFencedReply(t *testing.T) {
	gen := &mockGenerator{reply: "```json\n[{\"title\": \"Demand Building on East Coast\", \"description\": \"Bookings are accelerating.\", \"type\": \"demand_forecast\", \"confidence\": 0.75}]\n```"}
	s := NewNarrativeSynthesizer(gen)

	candidates, err := s.Synthesize(context.Background(), testSummary())
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(candidates))
	}
	c := candidates[0]
	if c.Title != "Demand Building on East Coast" {
		t.Errorf("title = %q", c.Title)
	}
	if c.Type != models.InsightTypeDemandForecast {
		t.Errorf("type = %q", c.Type)
	}
	if c.Confidence != 0.75 {
		t.Errorf("confidence = %v", c.Confidence)
	}
}

func TestSynthesizePromptContainsSummaryNotObservations(t *testing.T) {
	gen := &mockGenerator{reply: "[]"}
	s := NewNarrativeSynthesizer(gen)

	if _, err := s.Synthesize(context.Background(), testSummary()); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	for _, want := range []string{
		"Total flights analyzed: 42",
		"Average price: $215.50",
		"Sydney to Melbourne: 18 flights",
	} {
		if !strings.Contains(gen.prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestSynthesizeNonJSONReplyFails(t *testing.T) {
	gen := &mockGenerator{reply: "I think demand looks strong this quarter overall."}
	s := NewNarrativeSynthesizer(gen)

	if _, err := s.Synthesize(context.Background(), testSummary()); err == nil {
		t.Fatal("expected error for prose reply")
	}
}

func TestSynthesizeGeneratorFailurePropagates(t *testing.T) {
	gen := &mockGenerator{err: errors.New("timeout")}
	s := NewNarrativeSynthesizer(gen)

	if _, err := s.Synthesize(context.Background(), testSummary()); err == nil {
		t.Fatal("expected error from failing generator")
	}
}

func TestRepairCandidate(t *testing.T) {
	tests := []struct {
		name   string
		item   genai.InsightItem
		wantOK bool
		check  func(t *testing.T, c models.InsightCandidate)
	}{
		{
			name:   "missing title is unusable",
			item:   genai.InsightItem{Description: "d", Type: "price_trend", Confidence: 0.5},
			wantOK: false,
		},
		{
			name:   "missing description is unusable",
			item:   genai.InsightItem{Title: "t", Type: "price_trend", Confidence: 0.5},
			wantOK: false,
		},
		{
			name:   "unknown type maps to demand_forecast",
			item:   genai.InsightItem{Title: "t", Description: "d", Type: "market_magic", Confidence: 0.5},
			wantOK: true,
			check: func(t *testing.T, c models.InsightCandidate) {
				if c.Type != models.InsightTypeDemandForecast {
					t.Errorf("type = %q", c.Type)
				}
			},
		},
		{
			name:   "confidence above one is clamped",
			item:   genai.InsightItem{Title: "t", Description: "d", Type: "price_trend", Confidence: 3},
			wantOK: true,
			check: func(t *testing.T, c models.InsightCandidate) {
				if c.Confidence != 1 {
					t.Errorf("confidence = %v", c.Confidence)
				}
			},
		},
		{
			name:   "missing confidence defaults",
			item:   genai.InsightItem{Title: "t", Description: "d", Type: "price_trend"},
			wantOK: true,
			check: func(t *testing.T, c models.InsightCandidate) {
				if c.Confidence != 0.8 {
					t.Errorf("confidence = %v", c.Confidence)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := repairCandidate(tt.item)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if tt.check != nil {
				tt.check(t, c)
			}
		})
	}
}
