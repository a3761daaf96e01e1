// Package plot renders dashboard tables as PNG charts.
package plot

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/vicanso/go-charts/v2"

	"stockAnalysis/internal/analytics"
)

// ErrNoData is returned for a chart without rows.
var ErrNoData = errors.New("no data")

// ReturnsBar renders ranked yearly returns, in percent.
func ReturnsBar(title string, rows []analytics.YearlyReturn) ([]byte, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	labels := make([]string, len(rows))
	values := make([]float64, len(rows))
	for i, r := range rows {
		labels[i] = r.Ticker
		values[i] = r.Return * 100
	}
	return bar(title, "yearly return %", labels, [][]float64{values}, nil)
}

// VolatilityBar renders volatility scores (std of daily returns, percent).
func VolatilityBar(scores []analytics.VolatilityScore) ([]byte, error) {
	if len(scores) == 0 {
		return nil, ErrNoData
	}
	labels := make([]string, len(scores))
	values := make([]float64, len(scores))
	for i, s := range scores {
		labels[i] = s.Ticker
		values[i] = s.Score * 100
	}
	return bar(fmt.Sprintf("Top %d most volatile", len(scores)), "std of daily returns %", labels, [][]float64{values}, nil)
}

// MonthlyMovers renders the gainers and losers of one month side by side.
// Non-finite returns are left out of the chart.
func MonthlyMovers(month analytics.MonthPeriod, gainers, losers []analytics.MonthlyReturn) ([]byte, error) {
	var labels []string
	var up, down []float64
	add := func(rows []analytics.MonthlyReturn, gain bool) {
		for _, r := range rows {
			if math.IsNaN(r.Return) || math.IsInf(r.Return, 0) {
				continue
			}
			labels = append(labels, r.Ticker)
			if gain {
				up, down = append(up, r.Return), append(down, 0)
			} else {
				up, down = append(up, 0), append(down, r.Return)
			}
		}
	}
	add(gainers, true)
	add(losers, false)
	if len(labels) == 0 {
		return nil, ErrNoData
	}
	return bar("Monthly gainers & losers • "+month.String(), "monthly return %", labels, [][]float64{up, down}, []string{"Gainers", "Losers"})
}

func bar(title, subtitle string, labels []string, values [][]float64, legend []string) ([]byte, error) {
	opts := []charts.OptionFunc{
		charts.TitleTextOptionFunc(title, subtitle),
		charts.XAxisDataOptionFunc(labels),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(widthFor(len(labels))),
	}
	if len(legend) > 0 {
		opts = append(opts, charts.LegendOptionFunc(charts.LegendOption{Data: legend, Left: charts.PositionRight}))
	}
	p, err := charts.BarRender(values, opts...)
	if err != nil {
		return nil, err
	}
	return p.Bytes()
}

// SectorBars renders mean yearly return per sector as horizontal bars.
func SectorBars(perf []analytics.SectorPerformance) ([]byte, error) {
	if len(perf) == 0 {
		return nil, ErrNoData
	}
	// The y axis is drawn bottom up; reverse so the best sector is on top.
	labels := make([]string, len(perf))
	values := make([]float64, len(perf))
	for i, s := range perf {
		j := len(perf) - 1 - i
		labels[j] = s.Sector
		values[j] = s.MeanReturn * 100
	}
	p, err := charts.HorizontalBarRender([][]float64{values},
		charts.TitleTextOptionFunc("Sector-wise performance", "mean yearly return %"),
		charts.YAxisDataOptionFunc(labels),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.HeightOptionFunc(max(400, 40*len(perf)+120)),
	)
	if err != nil {
		return nil, err
	}
	return p.Bytes()
}

// CumulativeLines renders the trajectories of the given tickers on the dates
// they all share.
func CumulativeLines(paths map[string][]analytics.CumulativePoint, order []string) ([]byte, error) {
	if len(order) == 0 {
		return nil, ErrNoData
	}

	// intersect dates across all trajectories
	count := map[time.Time]int{}
	for _, t := range order {
		for _, p := range paths[t] {
			count[p.Date]++
		}
	}
	common := make([]time.Time, 0, len(count))
	for d, c := range count {
		if c == len(order) {
			common = append(common, d)
		}
	}
	if len(common) < 2 {
		return nil, fmt.Errorf("not enough overlapping dates: %w", ErrNoData)
	}
	slices.SortFunc(common, time.Time.Compare)

	xLabels := make([]string, len(common))
	for i, d := range common {
		xLabels[i] = d.Format("Jan 02 '06")
	}
	values := make([][]float64, 0, len(order))
	for _, t := range order {
		byDate := make(map[time.Time]float64, len(paths[t]))
		for _, p := range paths[t] {
			byDate[p.Date] = p.Value
		}
		aligned := make([]float64, len(common))
		for i, d := range common {
			aligned[i] = byDate[d]
		}
		values = append(values, aligned)
	}

	split := 10
	if len(common) < split {
		split = len(common)
	}
	p, err := charts.LineRender(values,
		charts.TitleTextOptionFunc("Cumulative return", strings.Join(order, ", ")),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: xLabels, BoundaryGap: charts.FalseFlag(), SplitNumber: split}),
		charts.LegendOptionFunc(charts.LegendOption{Data: order, Left: charts.PositionRight}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(900),
	)
	if err != nil {
		return nil, err
	}
	return p.Bytes()
}

// CorrelationTable renders the matrix as a table with two decimals.
func CorrelationTable(m *analytics.CorrelationMatrix) ([]byte, error) {
	if m == nil || len(m.Tickers) == 0 {
		return nil, ErrNoData
	}
	header := append([]string{""}, m.Tickers...)
	rows := make([][]string, len(m.Tickers))
	for i, t := range m.Tickers {
		row := make([]string, 0, len(m.Tickers)+1)
		row = append(row, t)
		for _, v := range m.Values[i] {
			if math.IsNaN(v) {
				row = append(row, "-")
				continue
			}
			row = append(row, fmt.Sprintf("%.2f", v))
		}
		rows[i] = row
	}
	p, err := charts.TableRender(header, rows)
	if err != nil {
		return nil, err
	}
	return p.Bytes()
}

// BreadthPie renders the green and red ticker counts.
func BreadthPie(b analytics.MarketBreadth) ([]byte, error) {
	if b.Total == 0 {
		return nil, ErrNoData
	}
	p, err := charts.PieRender(
		[]float64{float64(b.Green), float64(b.Red)},
		charts.TitleTextOptionFunc(fmt.Sprintf("Market breadth (%d stocks)", b.Total)),
		charts.LegendOptionFunc(charts.LegendOption{
			Data: []string{fmt.Sprintf("Green (%d)", b.Green), fmt.Sprintf("Red (%d)", b.Red)},
			Top:  charts.PositionBottom,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(600),
		charts.HeightOptionFunc(450),
	)
	if err != nil {
		return nil, err
	}
	return p.Bytes()
}

func widthFor(bars int) int {
	return max(600, 60*bars+120)
}
