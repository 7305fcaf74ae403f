package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/skymarket/backend/internal/models"
	"github.com/skymarket/backend/pkg/postgrest"
)

type insightRepository struct {
	client *postgrest.Client
}

// NewInsightRepository creates a new insight repository
func NewInsightRepository(client *postgrest.Client) InsightRepository {
	return &insightRepository{client: client}
}

func (r *insightRepository) Exists(ctx context.Context, title string) (bool, error) {
	query := map[string]interface{}{
		"title":  fmt.Sprintf("eq.%s", title),
		"select": "id",
		"limit":  1,
	}

	body, err := r.client.Query("insights", query)
	if err != nil {
		return false, fmt.Errorf("failed to check insight title: %w", err)
	}

	var rows []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		return false, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return len(rows) > 0, nil
}

// Insert writes the insight unless its title is already taken. Duplicate
// titles are ignored at the store, which makes concurrent generation runs
// first-writer-wins rather than an error.
func (r *insightRepository) Insert(ctx context.Context, insight *models.Insight) (*models.Insight, bool, error) {
	data := map[string]interface{}{
		"title":            insight.Title,
		"description":      insight.Description,
		"insight_type":     insight.InsightType,
		"confidence_score": insight.ConfidenceScore,
		"generated_by":     insight.GeneratedBy,
	}

	body, err := r.client.InsertIgnoreDuplicates("insights", data, "title")
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert insight: %w", err)
	}

	var insights []models.Insight
	if err := json.Unmarshal(body, &insights); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	// Empty representation means the title already existed
	if len(insights) == 0 {
		return nil, false, nil
	}

	return &insights[0], true, nil
}

func (r *insightRepository) List(ctx context.Context, limit, offset int) ([]models.Insight, error) {
	query := map[string]interface{}{
		"select": "*",
		"order":  "created_at.desc",
		"limit":  limit,
		"offset": offset,
	}

	body, err := r.client.Query("insights", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get insights: %w", err)
	}

	var insights []models.Insight
	if err := json.Unmarshal(body, &insights); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return insights, nil
}
