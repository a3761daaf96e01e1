// Package dashboard assembles the analytics into the sections of the stock
// dashboard and memoizes them per dataset.
package dashboard

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog/log"

	"stockAnalysis/internal/analytics"
)

// Options tune the section sizes and the cache lifetime.
type Options struct {
	TopN           int
	VolatilityTopK int
	CumulativeTop  int
	Std            analytics.StdMode
	CacheTTL       time.Duration
}

func DefaultOptions() Options {
	return Options{
		TopN:           analytics.DefaultTopN,
		VolatilityTopK: analytics.DefaultVolatilityTopK,
		CumulativeTop:  5,
		Std:            analytics.SampleStd,
		CacheTTL:       10 * time.Minute,
	}
}

// Overview is the header of the dashboard: breadth plus the yearly movers.
type Overview struct {
	Breadth analytics.MarketBreadth
	Gainers []analytics.YearlyReturn
	Losers  []analytics.YearlyReturn
}

// Cumulative holds the compounding paths of the top gainers, in rank order.
type Cumulative struct {
	Tickers []string
	Paths   map[string][]analytics.CumulativePoint
}

// MonthlyMovers is the ranking of one calendar month.
type MonthlyMovers struct {
	Month   analytics.MonthPeriod
	Gainers []analytics.MonthlyReturn
	Losers  []analytics.MonthlyReturn
}

var (
	errNoMonths = errors.New("no monthly data")
	// ErrInvalidMonth reports a month argument that is not YYYY-MM.
	ErrInvalidMonth = errors.New("invalid month")
)

type Service struct {
	opts  Options
	cache *Cache
}

func NewService(opts Options) *Service {
	return &Service{opts: opts, cache: NewCache(opts.CacheTTL)}
}

func (s *Service) Options() Options { return s.opts }

func (s *Service) key(ds *Dataset, section string) string {
	return ds.Key() + "/" + section
}

func (s *Service) returns(ds *Dataset) []analytics.ReturnSeries {
	rs, _ := memo(s.cache, s.key(ds, "returns"), func() ([]analytics.ReturnSeries, error) {
		start := time.Now()
		rs := analytics.ComputeDailyReturnsAll(ds.Prices)
		log.Debug().Int("tickers", len(rs)).Dur("took", time.Since(start)).Msg("dashboard: daily returns")
		return rs, nil
	})
	return rs
}

// Yearly returns the compounded return of every ticker with enough data,
// ordered by ticker.
func (s *Service) Yearly(ds *Dataset) []analytics.YearlyReturn {
	y, _ := memo(s.cache, s.key(ds, "yearly"), func() ([]analytics.YearlyReturn, error) {
		return analytics.ComputeYearlyReturns(s.returns(ds)), nil
	})
	return y
}

func (s *Service) Overview(ds *Dataset) (Overview, error) {
	return memo(s.cache, s.key(ds, "overview"), func() (Overview, error) {
		yearly := s.Yearly(ds)
		gainers, losers, err := analytics.GainersLosers(yearly, s.opts.TopN, yearlyReturn)
		if err != nil {
			return Overview{}, fmt.Errorf("overview: %w", err)
		}
		return Overview{Breadth: analytics.Breadth(yearly), Gainers: gainers, Losers: losers}, nil
	})
}

func (s *Service) Volatility(ds *Dataset) ([]analytics.VolatilityScore, error) {
	return memo(s.cache, s.key(ds, "volatility"), func() ([]analytics.VolatilityScore, error) {
		scores := analytics.ComputeVolatility(s.returns(ds), s.opts.Std)
		top, err := analytics.TopVolatility(scores, s.opts.VolatilityTopK)
		if err != nil {
			return nil, fmt.Errorf("volatility: %w", err)
		}
		return top, nil
	})
}

// Cumulative returns the compounding paths of the CumulativeTop best yearly
// performers.
func (s *Service) Cumulative(ds *Dataset) (Cumulative, error) {
	return memo(s.cache, s.key(ds, "cumulative"), func() (Cumulative, error) {
		top, err := analytics.TopN(s.Yearly(ds), s.opts.CumulativeTop, yearlyReturn, analytics.Descending)
		if err != nil {
			return Cumulative{}, fmt.Errorf("cumulative: %w", err)
		}
		tickers := make([]string, len(top))
		for i, y := range top {
			tickers[i] = y.Ticker
		}
		paths, err := analytics.ComputeCumulative(s.returns(ds), tickers)
		if err != nil {
			return Cumulative{}, fmt.Errorf("cumulative: %w", err)
		}
		return Cumulative{Tickers: tickers, Paths: paths}, nil
	})
}

func (s *Service) Sectors(ds *Dataset) ([]analytics.SectorPerformance, error) {
	return memo(s.cache, s.key(ds, "sectors"), func() ([]analytics.SectorPerformance, error) {
		return analytics.AggregateBySector(s.Yearly(ds), ds.Sectors)
	})
}

func (s *Service) Correlation(ds *Dataset) (*analytics.CorrelationMatrix, error) {
	return memo(s.cache, s.key(ds, "correlation"), func() (*analytics.CorrelationMatrix, error) {
		start := time.Now()
		m, err := analytics.ComputeCorrelation(ds.Prices)
		if err != nil {
			return nil, fmt.Errorf("correlation: %w", err)
		}
		log.Debug().Int("tickers", len(m.Tickers)).Int("dates", len(m.Dates)).Dur("took", time.Since(start)).Msg("dashboard: correlation")
		return m, nil
	})
}

func (s *Service) monthlyTable(ds *Dataset) []analytics.MonthlyReturn {
	rows, _ := memo(s.cache, s.key(ds, "monthly"), func() ([]analytics.MonthlyReturn, error) {
		return analytics.ComputeMonthlyReturns(ds.Prices), nil
	})
	return rows
}

// Months lists the calendar months present in the data, ascending.
func (s *Service) Months(ds *Dataset) []analytics.MonthPeriod {
	return analytics.Months(s.monthlyTable(ds))
}

// LatestMonth is the default month of the monthly section.
func (s *Service) LatestMonth(ds *Dataset) (analytics.MonthPeriod, bool) {
	months := s.Months(ds)
	if len(months) == 0 {
		return analytics.MonthPeriod{}, false
	}
	return months[len(months)-1], true
}

// HasMonth reports whether month has data.
func (s *Service) HasMonth(ds *Dataset, month analytics.MonthPeriod) bool {
	return slices.Contains(s.Months(ds), month)
}

// Monthly ranks the tickers by their return within month. A month without
// data yields empty rankings and is not cached.
func (s *Service) Monthly(ds *Dataset, month analytics.MonthPeriod) (MonthlyMovers, error) {
	compute := func() (MonthlyMovers, error) {
		rows := analytics.FilterMonth(s.monthlyTable(ds), month)
		gainers, losers, err := analytics.GainersLosers(rows, s.opts.TopN, monthlyReturn)
		if err != nil {
			return MonthlyMovers{}, fmt.Errorf("monthly %s: %w", month, err)
		}
		return MonthlyMovers{Month: month, Gainers: gainers, Losers: losers}, nil
	}
	if !s.HasMonth(ds, month) {
		return compute()
	}
	return memo(s.cache, s.key(ds, "monthly/"+month.String()), compute)
}

// ResolveMonth parses a "YYYY-MM" argument; an empty one means the latest
// month in the data.
func (s *Service) ResolveMonth(ds *Dataset, arg string) (analytics.MonthPeriod, error) {
	if arg == "" {
		m, ok := s.LatestMonth(ds)
		if !ok {
			return analytics.MonthPeriod{}, errNoMonths
		}
		return m, nil
	}
	m, err := analytics.ParseMonthPeriod(arg)
	if err != nil {
		return analytics.MonthPeriod{}, fmt.Errorf("%w: %w", ErrInvalidMonth, err)
	}
	return m, nil
}

func yearlyReturn(y analytics.YearlyReturn) float64   { return y.Return }
func monthlyReturn(m analytics.MonthlyReturn) float64 { return m.Return }
