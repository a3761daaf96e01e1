package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"stockAnalysis/internal/ingest"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert raw YAML price dumps into one CSV per ticker",
	Long: `Walk the raw directory for .yaml/.yml files, group the records by their
ticker field and write <TICKER>.csv files into the CSV directory.`,
	RunE: runConvert,
}

var convertTickerKey string

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVar(&convertTickerKey, "ticker-key", "", "Record field holding the ticker (default from STOCKDASH_TICKER_KEY)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	key := cfg.TickerKey
	if convertTickerKey != "" {
		key = convertTickerKey
	}
	n, err := ingest.ConvertYAMLToCSV(cfg.RawDir, cfg.CSVDir, key)
	if err != nil {
		return err
	}
	log.Info().Int("tickers", n).Str("csv_dir", cfg.CSVDir).Msg("convert: done")
	return nil
}
