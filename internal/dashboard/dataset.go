package dashboard

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog/log"

	"stockAnalysis/internal/analytics"
)

// Source yields the price series of every ticker.
type Source interface {
	LoadSeries() ([]analytics.TimeSeries, error)
}

// Dataset is the immutable input of the dashboard. Its key is a content hash
// of the prices and sector table, so two datasets with the same content share
// cache entries.
type Dataset struct {
	Prices  []analytics.TimeSeries
	Sectors analytics.SectorTable
	key     string
}

func NewDataset(prices []analytics.TimeSeries, sectors analytics.SectorTable) *Dataset {
	return &Dataset{Prices: prices, Sectors: sectors, key: contentKey(prices, sectors)}
}

// Load reads the prices of src into a dataset.
func Load(src Source, sectors analytics.SectorTable) (*Dataset, error) {
	prices, err := src.LoadSeries()
	if err != nil {
		return nil, fmt.Errorf("load prices: %w", err)
	}
	return NewDataset(prices, sectors), nil
}

func (d *Dataset) Key() string { return d.key }

func contentKey(prices []analytics.TimeSeries, sectors analytics.SectorTable) string {
	h := xxhash.New()
	buf := make([]byte, 0, 16)
	for _, s := range prices {
		h.WriteString(s.Ticker)
		h.Write([]byte{0})
		for _, p := range s.Points {
			buf = binary.LittleEndian.AppendUint64(buf[:0], uint64(p.Date.Unix()))
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(p.Close))
			h.Write(buf)
		}
		h.Write([]byte{1})
	}
	for _, c := range sectors.Columns {
		h.WriteString(c)
		h.Write([]byte{0})
	}
	for _, row := range sectors.Rows {
		for _, cell := range row {
			h.WriteString(cell)
			h.Write([]byte{0})
		}
		h.Write([]byte{1})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// Loader rereads the dataset from its source at most once per TTL, so a
// long-running server picks up newly loaded prices.
type Loader struct {
	mu       sync.Mutex
	src      Source
	sectors  func() (analytics.SectorTable, error)
	ttl      time.Duration
	now      func() time.Time
	ds       *Dataset
	loadedAt time.Time
}

func NewLoader(src Source, sectors func() (analytics.SectorTable, error), ttl time.Duration) *Loader {
	return &Loader{src: src, sectors: sectors, ttl: ttl, now: time.Now}
}

// Dataset returns the current dataset. A failed reload keeps serving the
// previous one when there is one.
func (l *Loader) Dataset() (*Dataset, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ds != nil && (l.ttl <= 0 || l.now().Before(l.loadedAt.Add(l.ttl))) {
		return l.ds, nil
	}
	ds, err := l.load()
	if err != nil {
		if l.ds != nil {
			log.Warn().Err(err).Msg("dashboard: reload failed, serving previous dataset")
			return l.ds, nil
		}
		return nil, err
	}
	if l.ds == nil || l.ds.Key() != ds.Key() {
		log.Info().Int("tickers", len(ds.Prices)).Str("key", ds.Key()).Msg("dashboard: dataset loaded")
	}
	l.ds, l.loadedAt = ds, l.now()
	return ds, nil
}

func (l *Loader) load() (*Dataset, error) {
	sectors, err := l.sectors()
	if err != nil {
		return nil, fmt.Errorf("load sectors: %w", err)
	}
	return Load(l.src, sectors)
}
