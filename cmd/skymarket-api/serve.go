package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/skymarket/backend/internal/handlers"
	"github.com/skymarket/backend/internal/logger"
	"github.com/skymarket/backend/internal/middleware"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Start the HTTP API server and listen for requests.`,
	RunE:  runServe,
}

var (
	port string
)

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	cfg := d.cfg

	// Override port from flag if provided
	if port != "" {
		cfg.Server.Port = port
	}

	logger.Info("starting skymarket API server",
		logger.String("env", cfg.Server.Env),
		logger.String("port", cfg.Server.Port))

	// Initialize handlers
	flightHandler := handlers.NewFlightHandler(d.obsService)
	marketHandler := handlers.NewMarketHandler(d.marketService)
	insightHandler := handlers.NewInsightHandler(d.insightService)
	analyticsHandler := handlers.NewAnalyticsHandler(d.analyticsService, d.exportService)
	pipelineHandler := handlers.NewPipelineHandler(d.ingestService, d.aggregationService, cfg.Analysis)

	// Set Gin mode based on environment
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())

	// Middleware
	router.Use(middleware.CORS(cfg.Server.CORSOrigins()))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"env":    cfg.Server.Env,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimit())
	{
		v1.GET("/flights", flightHandler.ListFlights)
		v1.POST("/flights", flightHandler.CreateFlight)

		v1.GET("/routes", marketHandler.ListRoutes)
		v1.GET("/market-demand", marketHandler.ListMarketDemand)

		v1.GET("/insights", insightHandler.ListInsights)

		v1.GET("/analytics", analyticsHandler.GetAnalytics)
		v1.GET("/analytics/export", analyticsHandler.ExportCSV)

		// Pipeline triggers kick off provider calls and store writes,
		// so they get a tighter limiter.
		pipeline := v1.Group("")
		pipeline.Use(middleware.RateLimitPipeline())
		{
			pipeline.POST("/scrape", pipelineHandler.Scrape)
			pipeline.POST("/aggregate", pipelineHandler.Aggregate)
			pipeline.POST("/insights/generate", insightHandler.GenerateInsights)
		}
	}

	logger.Info("server listening", logger.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
