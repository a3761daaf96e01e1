package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"stockAnalysis/internal/analytics"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ReadPrices parses a price CSV for one ticker. The header must contain
// date and close (any case); open, high, low and volume are optional. Dates
// are truncated to the calendar day and the series is returned sorted
// ascending. Repeated dates are rejected.
func ReadPrices(r io.Reader, ticker string) (analytics.TimeSeries, error) {
	series := analytics.TimeSeries{Ticker: ticker}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return series, &analytics.SchemaError{Column: "date"}
	}
	if err != nil {
		return series, err
	}
	cols := columnIndex(header)
	dateCol, ok := cols["date"]
	if !ok {
		return series, &analytics.SchemaError{Column: "date", Columns: header}
	}
	closeCol, ok := cols["close"]
	if !ok {
		return series, &analytics.SchemaError{Column: "close", Columns: header}
	}

	seen := map[time.Time]int{}
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return series, err
		}
		p, err := parsePoint(row, cols, dateCol, closeCol)
		if err != nil {
			return series, fmt.Errorf("line %d: %w", line, err)
		}
		p.Ticker = ticker
		if prev, dup := seen[p.Date]; dup {
			return series, fmt.Errorf("line %d: date %s already seen on line %d", line, p.Date.Format("2006-01-02"), prev)
		}
		seen[p.Date] = line
		series.Points = append(series.Points, p)
	}

	slices.SortFunc(series.Points, func(a, b analytics.PricePoint) int { return a.Date.Compare(b.Date) })
	return series, nil
}

func parsePoint(row []string, cols map[string]int, dateCol, closeCol int) (analytics.PricePoint, error) {
	var p analytics.PricePoint
	if dateCol >= len(row) || closeCol >= len(row) {
		return p, fmt.Errorf("short row with %d fields", len(row))
	}
	date, err := parseDate(row[dateCol])
	if err != nil {
		return p, err
	}
	p.Date = date
	if p.Close, err = strconv.ParseFloat(strings.TrimSpace(row[closeCol]), 64); err != nil {
		return p, fmt.Errorf("close: %w", err)
	}

	optional := func(name string) (string, bool) {
		i, ok := cols[name]
		if !ok || i >= len(row) || strings.TrimSpace(row[i]) == "" {
			return "", false
		}
		return strings.TrimSpace(row[i]), true
	}
	for name, dst := range map[string]*float64{"open": &p.Open, "high": &p.High, "low": &p.Low} {
		if v, ok := optional(name); ok {
			if *dst, err = strconv.ParseFloat(v, 64); err != nil {
				return p, fmt.Errorf("%s: %w", name, err)
			}
		}
	}
	if v, ok := optional("volume"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return p, fmt.Errorf("volume: %w", err)
		}
		p.Volume = int64(f)
	}
	return p, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	return cols
}

// Dir loads price series from a directory holding one <TICKER>.csv per
// ticker.
type Dir struct {
	Path string
}

// Tickers lists the tickers of the directory in name order.
func (d Dir) Tickers() ([]string, error) {
	entries, err := os.ReadDir(d.Path)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".csv" {
			continue
		}
		out = append(out, strings.TrimSuffix(e.Name(), ".csv"))
	}
	return out, nil
}

// LoadSeries reads every ticker file of the directory.
func (d Dir) LoadSeries() ([]analytics.TimeSeries, error) {
	tickers, err := d.Tickers()
	if err != nil {
		return nil, err
	}
	out := make([]analytics.TimeSeries, 0, len(tickers))
	for _, t := range tickers {
		s, err := d.load(t)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (d Dir) load(ticker string) (analytics.TimeSeries, error) {
	path := filepath.Join(d.Path, ticker+".csv")
	f, err := os.Open(path)
	if err != nil {
		return analytics.TimeSeries{}, err
	}
	defer f.Close()
	s, err := ReadPrices(f, ticker)
	if err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
