package main

import (
	"context"
	"fmt"

	"github.com/skymarket/backend/internal/logger"
	"github.com/spf13/cobra"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Pull route and demand data from the flight data provider",
	RunE:  runScrape,
}

func runScrape(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	if d.ingestService == nil {
		return fmt.Errorf("AMADEUS_CLIENT_ID and AMADEUS_CLIENT_SECRET are required for scraping")
	}

	ctx := logger.WithRunID(context.Background())
	result, err := d.ingestService.IngestProviderData(ctx)
	if err != nil {
		return fmt.Errorf("provider ingestion failed: %w", err)
	}

	fmt.Printf("routes analyzed: %d\nmarket data added: %d\ncities failed: %d\n",
		result.RoutesAnalyzed, result.MarketDataAdded, result.CitiesFailed)
	return nil
}
