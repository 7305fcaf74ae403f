package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/skymarket/backend/internal/genai"
	"github.com/skymarket/backend/internal/logger"
	"github.com/skymarket/backend/internal/models"
)

type narrativeSynthesizer struct {
	generator TextGenerator
}

// NewNarrativeSynthesizer creates a synthesizer over an injected
// text-generation capability.
func NewNarrativeSynthesizer(generator TextGenerator) Synthesizer {
	return &narrativeSynthesizer{generator: generator}
}

const synthesisPromptTemplate = `As an airline industry analyst, analyze the following flight booking data and provide actionable insights:

%s

Please provide 2-3 key insights in JSON format with the following structure:
[
    {
        "title": "Insight Title",
        "description": "Detailed description of the insight",
        "type": "demand_forecast",
        "confidence": 0.85
    }
]

Focus on practical insights that would help a hostel business understand travel patterns. Make sure the JSON is valid.`

// Synthesize asks the text-generation capability for 2-3 insights derived
// from the statistical summary. Any upstream failure (call error, malformed
// reply) yields zero candidates; it never propagates past this boundary
// as a run-level failure.
func (s *narrativeSynthesizer) Synthesize(ctx context.Context, summary models.StatisticalSummary) ([]models.InsightCandidate, error) {
	prompt := fmt.Sprintf(synthesisPromptTemplate, formatSummary(summary))

	reply, err := s.generator.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("text generation: %w", err)
	}

	items, err := genai.DecodeInsightList(reply)
	if err != nil {
		return nil, fmt.Errorf("decode reply: %w", err)
	}

	log := logger.Ctx(ctx)
	candidates := make([]models.InsightCandidate, 0, len(items))
	for _, item := range items {
		candidate, ok := repairCandidate(item)
		if !ok {
			log.Warn("discarding malformed synthesized insight", logger.String("title", item.Title))
			continue
		}
		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

// repairCandidate validates a decoded item and normalizes what can be
// normalized: confidence clamped to [0,1], unknown types mapped to
// demand_forecast. Items without a title or description are unusable.
func repairCandidate(item genai.InsightItem) (models.InsightCandidate, bool) {
	title := strings.TrimSpace(item.Title)
	description := strings.TrimSpace(item.Description)
	if title == "" || description == "" {
		return models.InsightCandidate{}, false
	}

	insightType := models.InsightType(item.Type)
	if !models.ValidInsightType(item.Type) {
		insightType = models.InsightTypeDemandForecast
	}

	confidence := item.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	if confidence == 0 {
		confidence = 0.8
	}

	return models.InsightCandidate{
		Title:       title,
		Description: description,
		Type:        insightType,
		Confidence:  confidence,
	}, true
}

// formatSummary renders the statistical summary as the compact text block
// embedded in the prompt. Raw observations are never included.
func formatSummary(summary models.StatisticalSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Flight Data Summary:\n")
	fmt.Fprintf(&b, "- Total flights analyzed: %d\n", summary.TotalObservations)
	fmt.Fprintf(&b, "- Average price: $%.2f\n", summary.AveragePrice)
	fmt.Fprintf(&b, "- Price range: $%.2f - $%.2f\n", summary.MinPrice, summary.MaxPrice)
	fmt.Fprintf(&b, "- Number of unique routes: %d\n\n", summary.UniqueRoutes)
	fmt.Fprintf(&b, "Top Routes by Frequency:\n")
	for _, route := range summary.TopRoutes {
		fmt.Fprintf(&b, "- %s: %d flights, avg $%.2f\n", route.Label, route.Count, route.AvgPrice)
	}

	return b.String()
}
