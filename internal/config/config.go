// Package config loads settings from STOCKDASH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"stockAnalysis/internal/analytics"
	"stockAnalysis/internal/dashboard"
)

const Prefix = "STOCKDASH"

const (
	SourceCSV    = "csv"
	SourceSQLite = "sqlite"
)

type Config struct {
	TelegramToken    string `envconfig:"TELEGRAM_BOT_TOKEN"`
	WebhookPublicURL string `envconfig:"WEBHOOK_PUBLIC_URL"`
	OpenAIKey        string `envconfig:"OPENAI_API_KEY"`
	Port             string `envconfig:"PORT" default:"9095"`

	DBPath    string `envconfig:"DB_PATH" default:"data/stocks.db"`
	RawDir    string `envconfig:"RAW_DIR" default:"data/raw"`
	CSVDir    string `envconfig:"CSV_DIR" default:"data/csv"`
	SectorCSV string `envconfig:"SECTOR_CSV" default:"data/sectors.csv"`
	// Source selects where prices are read from: csv or sqlite.
	Source    string `envconfig:"SOURCE" default:"csv"`
	TickerKey string `envconfig:"TICKER_KEY" default:"Ticker"`

	SectorSuffix string  `envconfig:"SECTOR_SUFFIX" default:".NS"`
	SectorRPS    float64 `envconfig:"SECTOR_RPS" default:"2"`

	TopN           int           `envconfig:"TOP_N" default:"10"`
	VolatilityTopK int           `envconfig:"VOLATILITY_TOP_K" default:"10"`
	CumulativeTop  int           `envconfig:"CUMULATIVE_TOP" default:"5"`
	PopulationStd  bool          `envconfig:"POPULATION_STD"`
	CacheTTL       time.Duration `envconfig:"CACHE_TTL" default:"10m"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty bool   `envconfig:"LOG_PRETTY"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config from env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Source {
	case SourceCSV, SourceSQLite:
	default:
		return fmt.Errorf("config: SOURCE must be %q or %q, got %q", SourceCSV, SourceSQLite, c.Source)
	}
	if c.TopN < 0 || c.VolatilityTopK < 0 || c.CumulativeTop < 0 {
		return errors.New("config: TOP_N, VOLATILITY_TOP_K and CUMULATIVE_TOP must not be negative")
	}
	if c.SectorRPS <= 0 {
		return fmt.Errorf("config: SECTOR_RPS must be positive, got %v", c.SectorRPS)
	}
	return nil
}

// RequireBot checks the settings only the bot needs.
func (c Config) RequireBot() error {
	var missing []string
	if c.TelegramToken == "" {
		missing = append(missing, Prefix+"_TELEGRAM_BOT_TOKEN")
	}
	if c.WebhookPublicURL == "" {
		missing = append(missing, Prefix+"_WEBHOOK_PUBLIC_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing env %v", missing)
	}
	return nil
}

func (c Config) DashboardOptions() dashboard.Options {
	std := analytics.SampleStd
	if c.PopulationStd {
		std = analytics.PopulationStd
	}
	return dashboard.Options{
		TopN:           c.TopN,
		VolatilityTopK: c.VolatilityTopK,
		CumulativeTop:  c.CumulativeTop,
		Std:            std,
		CacheTTL:       c.CacheTTL,
	}
}
