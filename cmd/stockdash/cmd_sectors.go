package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"stockAnalysis/internal/finance"
	"stockAnalysis/internal/ingest"
)

var sectorsCmd = &cobra.Command{
	Use:   "sectors",
	Short: "Fetch the sector of every ticker and cache it as CSV",
	Long: `Look up each ticker's sector on Yahoo Finance and write the sector CSV.
Tickers that cannot be resolved get the sector "Unknown". An existing sector
file is reused unless --refresh is given.`,
	RunE: runSectors,
}

var sectorsRefresh bool

func init() {
	rootCmd.AddCommand(sectorsCmd)
	sectorsCmd.Flags().BoolVar(&sectorsRefresh, "refresh", false, "Refetch even if the sector file exists")
}

func runSectors(cmd *cobra.Command, args []string) error {
	if sectorsRefresh {
		if err := removeIfExists(cfg.SectorCSV); err != nil {
			return err
		}
	}
	provider := finance.NewSectorProvider(cfg.SectorSuffix, cfg.SectorRPS)
	table, err := ingest.FetchSectors(cmd.Context(), ingest.Dir{Path: cfg.CSVDir}, cfg.SectorCSV, provider)
	if err != nil {
		return err
	}
	log.Info().Int("tickers", len(table.Rows)).Str("path", cfg.SectorCSV).Msg("sectors: done")
	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
