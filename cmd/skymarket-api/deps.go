package main

import (
	"fmt"

	"github.com/skymarket/backend/internal/config"
	"github.com/skymarket/backend/internal/genai"
	"github.com/skymarket/backend/internal/logger"
	"github.com/skymarket/backend/internal/repository"
	"github.com/skymarket/backend/internal/service"
	"github.com/skymarket/backend/pkg/amadeus"
	"github.com/skymarket/backend/pkg/postgrest"
)

// deps bundles the wired application components shared by the serve and
// batch commands.
type deps struct {
	cfg *config.Config

	obsRepo     repository.ObservationRepository
	routeRepo   repository.RouteRepository
	airportRepo repository.AirportRepository
	airlineRepo repository.AirlineRepository
	demandRepo  repository.MarketDemandRepository
	insightRepo repository.InsightRepository

	obsService         service.ObservationService
	marketService      service.MarketDataService
	aggregationService service.AggregationService
	insightService     service.InsightService
	analyticsService   service.AnalyticsService
	exportService      service.ExportService
	ingestService      service.IngestService // nil without provider credentials
}

// buildDeps loads configuration, installs the default logger and wires the
// storage client, repositories and services.
func buildDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = logger.ParseLevel(cfg.Server.LogLevel)
	if cfg.Server.Env == "development" {
		logCfg.Format = "text"
	}
	logger.SetDefault(logger.NewSlogLogger(logCfg))

	client := postgrest.NewClient(cfg.Storage.URL, cfg.Storage.ServiceKey)

	d := &deps{
		cfg:         cfg,
		obsRepo:     repository.NewObservationRepository(client),
		routeRepo:   repository.NewRouteRepository(client),
		airportRepo: repository.NewAirportRepository(client),
		airlineRepo: repository.NewAirlineRepository(client),
		demandRepo:  repository.NewMarketDemandRepository(client),
		insightRepo: repository.NewInsightRepository(client),
	}

	var synthesizer service.Synthesizer
	if cfg.GenAI.Enabled() {
		generator, err := genai.NewClient(genai.Config{
			Endpoint: cfg.GenAI.Endpoint,
			Model:    cfg.GenAI.Model,
			APIKey:   cfg.GenAI.APIKey,
			Timeout:  cfg.GenAI.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create text-generation client: %w", err)
		}
		synthesizer = service.NewNarrativeSynthesizer(generator)
	} else {
		logger.Info("text generation not configured, narrative synthesis disabled")
	}

	d.obsService = service.NewObservationService(d.obsRepo, d.routeRepo)
	d.marketService = service.NewMarketDataService(d.routeRepo, d.demandRepo)
	d.aggregationService = service.NewAggregationService(d.obsRepo, d.demandRepo, cfg.Analysis)
	d.insightService = service.NewInsightService(d.obsRepo, d.insightRepo, synthesizer, cfg.Analysis)
	d.analyticsService = service.NewAnalyticsService(d.obsRepo, d.demandRepo)
	d.exportService = service.NewExportService(d.obsRepo)

	if cfg.Amadeus.Enabled() {
		provider := amadeus.NewClient(cfg.Amadeus.BaseURL, cfg.Amadeus.ClientID, cfg.Amadeus.ClientSecret)
		d.ingestService = service.NewIngestService(
			provider, d.airportRepo, d.airlineRepo, d.routeRepo, d.demandRepo, logger.Default())
	} else {
		logger.Info("provider credentials not configured, ingestion disabled")
	}

	return d, nil
}
