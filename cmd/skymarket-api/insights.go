package main

import (
	"context"
	"fmt"

	"github.com/skymarket/backend/internal/logger"
	"github.com/spf13/cobra"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Generate and store insights from recent observations",
	RunE:  runInsights,
}

func runInsights(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}

	ctx := logger.WithRunID(context.Background())
	insights, err := d.insightService.GenerateInsights(ctx)
	if err != nil {
		return fmt.Errorf("insight generation failed: %w", err)
	}

	for _, in := range insights {
		fmt.Printf("[%s] %s (confidence %.2f)\n", in.Type, in.Title, in.Confidence)
	}
	fmt.Printf("stored %d new insights\n", len(insights))
	return nil
}
