package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"stockAnalysis/internal/analytics"
	"stockAnalysis/internal/config"
	"stockAnalysis/internal/dashboard"
	"stockAnalysis/internal/ingest"
	"stockAnalysis/internal/storage"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openStore opens the SQLite database and makes sure the schema exists.
func openStore(path string) (*storage.Store, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	db, err := storage.OpenSQLite("file:" + path + "?_fk=1")
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite: %w", err)
	}
	log.Info().Str("path", path).Msg("db: opened sqlite")
	if err := storage.InitSchema(db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return storage.NewStore(db), db, nil
}

// openSource returns the configured price source.
func openSource(c config.Config) (dashboard.Source, io.Closer, error) {
	if c.Source == config.SourceSQLite {
		return openStore(c.DBPath)
	}
	return ingest.Dir{Path: c.CSVDir}, nopCloser{}, nil
}

func readSectors(c config.Config) func() (analytics.SectorTable, error) {
	return func() (analytics.SectorTable, error) {
		t, err := ingest.ReadSectorFile(c.SectorCSV)
		if err != nil {
			return analytics.SectorTable{}, fmt.Errorf("%w (run `stockdash sectors` first)", err)
		}
		return t, nil
	}
}

// loadDataset reads prices and sectors once.
func loadDataset(c config.Config) (*dashboard.Dataset, error) {
	src, closer, err := openSource(c)
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	sectors, err := readSectors(c)()
	if err != nil {
		return nil, err
	}
	return dashboard.Load(src, sectors)
}
