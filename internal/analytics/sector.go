package analytics

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Column names of the sector table.
const (
	TickerColumn = "ticker"
	SectorColumn = "sector"
)

// SectorTable is the raw ticker to sector table as read from an external
// source.
type SectorTable struct {
	Columns []string
	Rows    [][]string
}

// SectorMap maps a ticker to its sector label.
type SectorMap map[string]string

// Map validates the table and indexes it by ticker. Rows with an empty
// ticker or label are skipped; for a repeated ticker the first label wins.
func (t SectorTable) Map() (SectorMap, error) {
	ti := slices.Index(t.Columns, TickerColumn)
	if ti < 0 {
		return nil, &SchemaError{Column: TickerColumn, Columns: t.Columns}
	}
	si := slices.Index(t.Columns, SectorColumn)
	if si < 0 {
		return nil, &SchemaError{Column: SectorColumn, Columns: t.Columns}
	}
	m := make(SectorMap, len(t.Rows))
	for _, row := range t.Rows {
		if ti >= len(row) || si >= len(row) {
			continue
		}
		ticker, label := strings.TrimSpace(row[ti]), strings.TrimSpace(row[si])
		if ticker == "" || label == "" {
			continue
		}
		if _, dup := m[ticker]; !dup {
			m[ticker] = label
		}
	}
	return m, nil
}

// AggregateBySector joins yearly returns with sector labels and averages
// them per sector, ordered by descending mean. Tickers without a label or
// with a NaN return are dropped, so a sector with no contributing ticker
// does not appear.
func AggregateBySector(yearly []YearlyReturn, table SectorTable) ([]SectorPerformance, error) {
	labels, err := table.Map()
	if err != nil {
		return nil, fmt.Errorf("aggregate by sector: %w", err)
	}

	type acc struct {
		sum float64
		n   int
	}
	groups := make(map[string]*acc)
	for _, y := range yearly {
		if math.IsNaN(y.Return) {
			continue
		}
		label, ok := labels[y.Ticker]
		if !ok {
			continue
		}
		a := groups[label]
		if a == nil {
			a = &acc{}
			groups[label] = a
		}
		a.sum += y.Return
		a.n++
	}

	sectors := make([]string, 0, len(groups))
	for s := range groups {
		sectors = append(sectors, s)
	}
	slices.Sort(sectors)

	out := make([]SectorPerformance, 0, len(sectors))
	for _, s := range sectors {
		a := groups[s]
		out = append(out, SectorPerformance{Sector: s, MeanReturn: a.sum / float64(a.n), MemberCount: a.n})
	}
	slices.SortStableFunc(out, func(a, b SectorPerformance) int {
		return compareMetric(a.MeanReturn, b.MeanReturn, Descending)
	})
	return out, nil
}
