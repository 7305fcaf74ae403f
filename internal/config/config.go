package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	GenAI    GenAIConfig    `mapstructure:"genai"`
	Amadeus  AmadeusConfig  `mapstructure:"amadeus"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
	// CORSAllowedOrigins is a comma-separated origin list; empty allows all
	CORSAllowedOrigins string `mapstructure:"cors_allowed_origins"`
	LogLevel           string `mapstructure:"log_level"`
}

// CORSOrigins returns the parsed allowed-origin list
func (s ServerConfig) CORSOrigins() []string {
	if s.CORSAllowedOrigins == "" {
		return nil
	}
	parts := strings.Split(s.CORSAllowedOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// StorageConfig holds PostgREST storage configuration
type StorageConfig struct {
	URL        string `mapstructure:"url"`
	ServiceKey string `mapstructure:"service_key"`
}

// AnalysisConfig names every window and threshold the pipeline uses.
// The aggregation, insight and seasonal analyzers deliberately run over
// different trailing windows; each is its own parameter.
type AnalysisConfig struct {
	// AggregationWindowDays scopes observations for demand aggregation
	AggregationWindowDays int `mapstructure:"aggregation_window_days"`
	// InsightWindowDays scopes observations for the rule-based analyzers
	InsightWindowDays int `mapstructure:"insight_window_days"`
	// SeasonalWindowDays scopes the weekday/weekend pricing analyzer
	SeasonalWindowDays int `mapstructure:"seasonal_window_days"`
	// TrendLookbackDays bounds how far back prior demand records count
	// as history for price-trend classification
	TrendLookbackDays int `mapstructure:"trend_lookback_days"`
	// TrendChangeThreshold is the relative price change beyond which the
	// trend is classified as increasing/decreasing (0.10 = 10%)
	TrendChangeThreshold float64 `mapstructure:"trend_change_threshold"`

	// Demand level volume thresholds
	VeryHighDemandVolume int `mapstructure:"very_high_demand_volume"`
	HighDemandVolume     int `mapstructure:"high_demand_volume"`
	MediumDemandVolume   int `mapstructure:"medium_demand_volume"`

	// Analyzer thresholds
	MinObservationsPerRoute int     `mapstructure:"min_observations_per_route"`
	VolatilityThreshold     float64 `mapstructure:"volatility_threshold"`
	BudgetPriceThreshold    float64 `mapstructure:"budget_price_threshold"`
	WeekendPremiumFactor    float64 `mapstructure:"weekend_premium_factor"`
	TopRouteCount           int     `mapstructure:"top_route_count"`
	SummaryRouteCount       int     `mapstructure:"summary_route_count"`
}

// GenAIConfig holds the optional text-generation capability configuration.
// An empty APIKey disables the narrative synthesizer; that is not an error.
type GenAIConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Model    string        `mapstructure:"model"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Enabled reports whether the text-generation capability is configured.
func (g GenAIConfig) Enabled() bool {
	return g.APIKey != ""
}

// AmadeusConfig holds flight-data provider credentials
type AmadeusConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
}

// Enabled reports whether the provider client is configured.
func (a AmadeusConfig) Enabled() bool {
	return a.ClientID != "" && a.ClientSecret != ""
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.log_level", "info")

	v.SetDefault("analysis.aggregation_window_days", 30)
	v.SetDefault("analysis.insight_window_days", 7)
	v.SetDefault("analysis.seasonal_window_days", 10)
	v.SetDefault("analysis.trend_lookback_days", 7)
	v.SetDefault("analysis.trend_change_threshold", 0.10)
	v.SetDefault("analysis.very_high_demand_volume", 20)
	v.SetDefault("analysis.high_demand_volume", 10)
	v.SetDefault("analysis.medium_demand_volume", 5)
	v.SetDefault("analysis.min_observations_per_route", 3)
	v.SetDefault("analysis.volatility_threshold", 0.5)
	v.SetDefault("analysis.budget_price_threshold", 200.0)
	v.SetDefault("analysis.weekend_premium_factor", 1.1)
	v.SetDefault("analysis.top_route_count", 3)
	v.SetDefault("analysis.summary_route_count", 5)

	v.SetDefault("genai.endpoint", "https://api.openai.com/v1")
	v.SetDefault("genai.model", "gpt-4o-mini")
	v.SetDefault("genai.timeout", 30*time.Second)

	v.SetDefault("amadeus.base_url", "https://test.api.amadeus.com")

	// Read from environment variables
	v.SetEnvPrefix("SKYMARKET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Also bind to non-prefixed environment variables for backward compatibility
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.cors_allowed_origins", "CORS_ALLOWED_ORIGINS")
	v.BindEnv("server.log_level", "LOG_LEVEL")
	v.BindEnv("storage.url", "SUPABASE_URL")
	v.BindEnv("storage.service_key", "SUPABASE_SERVICE_KEY")
	v.BindEnv("genai.api_key", "GENAI_API_KEY")
	v.BindEnv("amadeus.client_id", "AMADEUS_CLIENT_ID")
	v.BindEnv("amadeus.client_secret", "AMADEUS_CLIENT_SECRET")

	// Read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// It's okay if config file doesn't exist
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks that all required configuration values are present
func (c *Config) Validate() error {
	if c.Storage.URL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.Storage.ServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
	}
	if c.Analysis.MediumDemandVolume > c.Analysis.HighDemandVolume ||
		c.Analysis.HighDemandVolume > c.Analysis.VeryHighDemandVolume {
		return fmt.Errorf("demand volume thresholds must be non-decreasing")
	}
	if c.Analysis.TrendChangeThreshold <= 0 {
		return fmt.Errorf("analysis.trend_change_threshold must be positive")
	}
	return nil
}
