package main

import (
	"context"
	"fmt"
	"time"

	"github.com/skymarket/backend/internal/logger"
	"github.com/spf13/cobra"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Derive market demand records from recent observations",
	RunE:  runAggregate,
}

var aggregateWindowDays int

func init() {
	aggregateCmd.Flags().IntVar(&aggregateWindowDays, "window-days", 0,
		"Observation window in days (overrides config)")
}

func runAggregate(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}

	windowDays := d.cfg.Analysis.AggregationWindowDays
	if aggregateWindowDays > 0 {
		windowDays = aggregateWindowDays
	}

	ctx := logger.WithRunID(context.Background())
	since := time.Now().AddDate(0, 0, -windowDays)

	result, err := d.aggregationService.RunAggregation(ctx, since)
	if err != nil {
		return fmt.Errorf("demand aggregation failed: %w", err)
	}

	fmt.Printf("processed: %d\nskipped: %d\nroutes: %d\n",
		result.Processed, result.Skipped, result.Routes)
	return nil
}
