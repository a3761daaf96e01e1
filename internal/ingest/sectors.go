package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"stockAnalysis/internal/analytics"
)

// UnknownSector is the label recorded for tickers the provider cannot
// classify.
const UnknownSector = "Unknown"

// SectorLookup resolves the sector label of a ticker.
type SectorLookup interface {
	Sector(ctx context.Context, ticker string) (string, error)
}

// ReadSectors parses a sector CSV. Column names are kept as written apart
// from surrounding spaces; validation happens when the table is used.
func ReadSectors(r io.Reader) (analytics.SectorTable, error) {
	var t analytics.SectorTable
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return t, nil
	}
	if err != nil {
		return t, err
	}
	for _, h := range header {
		t.Columns = append(t.Columns, strings.TrimSpace(h))
	}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return t, nil
		}
		if err != nil {
			return t, err
		}
		t.Rows = append(t.Rows, row)
	}
}

// ReadSectorFile opens and parses a sector CSV.
func ReadSectorFile(path string) (analytics.SectorTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return analytics.SectorTable{}, err
	}
	defer f.Close()
	t, err := ReadSectors(f)
	if err != nil {
		return t, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// WriteSectorFile writes a ticker,sector CSV.
func WriteSectorFile(path string, t analytics.SectorTable) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return err
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// FetchSectors returns the sector table for the tickers of dir. An existing
// file at sectorPath is reused as is; otherwise every ticker is looked up,
// failures are recorded as UnknownSector and the table is saved to
// sectorPath.
func FetchSectors(ctx context.Context, dir Dir, sectorPath string, lookup SectorLookup) (analytics.SectorTable, error) {
	if _, err := os.Stat(sectorPath); err == nil {
		log.Info().Str("path", sectorPath).Msg("sectors: using cached table")
		return ReadSectorFile(sectorPath)
	}

	tickers, err := dir.Tickers()
	if err != nil {
		return analytics.SectorTable{}, err
	}
	t := analytics.SectorTable{Columns: []string{analytics.TickerColumn, analytics.SectorColumn}}
	for _, ticker := range tickers {
		sector, err := lookup.Sector(ctx, ticker)
		if ctx.Err() != nil {
			return analytics.SectorTable{}, ctx.Err()
		}
		if err != nil || strings.TrimSpace(sector) == "" {
			log.Warn().Err(err).Str("ticker", ticker).Msg("sectors: lookup failed, using placeholder")
			sector = UnknownSector
		}
		t.Rows = append(t.Rows, []string{ticker, sector})
	}
	if err := WriteSectorFile(sectorPath, t); err != nil {
		return t, err
	}
	log.Info().Str("path", sectorPath).Int("tickers", len(t.Rows)).Msg("sectors: saved table")
	return t, nil
}
