package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"stockAnalysis/internal/ingest"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Bulk load the per-ticker CSVs into SQLite",
	Long: `Read every CSV in the CSV directory and upsert its rows into the
stock_prices table. Loading the same files twice leaves the table unchanged.`,
	RunE: runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	series, err := ingest.Dir{Path: cfg.CSVDir}.LoadSeries()
	if err != nil {
		return err
	}
	store, db, err := openStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	total := 0
	for _, s := range series {
		n, err := store.InsertPrices(s)
		if err != nil {
			return err
		}
		total += n
	}
	rows, err := store.CountRows()
	if err != nil {
		return err
	}
	log.Info().Int("tickers", len(series)).Int("inserted", total).Int("rows", rows).Msg("load: done")
	return nil
}
