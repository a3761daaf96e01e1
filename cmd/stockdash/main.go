package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"stockAnalysis/internal/config"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "stockdash",
	Short: "Stock market analytics dashboard",
	Long: `stockdash loads daily stock prices and computes the market dashboard:
breadth, yearly gainers and losers, volatility, cumulative returns, sector
performance, correlation and monthly movers.

Typical flow:
  stockdash convert        # raw YAML dumps -> one CSV per ticker
  stockdash load           # CSVs -> SQLite (optional)
  stockdash sectors        # fetch and cache the sector of every ticker
  stockdash report         # print the dashboard
  stockdash serve          # HTTP charts and Telegram bot`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		applyFlagOverrides(cmd)
		return setupLogging(cfg.LogLevel, cfg.LogPretty)
	},
}

var (
	flagCSVDir    string
	flagRawDir    string
	flagSectorCSV string
	flagSource    string
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagCSVDir, "csv-dir", "", "Directory of per-ticker CSV files (overrides STOCKDASH_CSV_DIR)")
	pf.StringVar(&flagRawDir, "raw-dir", "", "Directory of raw YAML dumps (overrides STOCKDASH_RAW_DIR)")
	pf.StringVar(&flagSectorCSV, "sector-csv", "", "Sector cache file (overrides STOCKDASH_SECTOR_CSV)")
	pf.StringVar(&flagSource, "source", "", "Price source: csv or sqlite (overrides STOCKDASH_SOURCE)")
}

func applyFlagOverrides(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("csv-dir") {
		cfg.CSVDir = flagCSVDir
	}
	if flags.Changed("raw-dir") {
		cfg.RawDir = flagRawDir
	}
	if flags.Changed("sector-csv") {
		cfg.SectorCSV = flagSectorCSV
	}
	if flags.Changed("source") {
		cfg.Source = flagSource
	}
}

func setupLogging(level string, pretty bool) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339
	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
