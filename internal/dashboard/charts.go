package dashboard

import (
	"bytes"
	"fmt"

	"stockAnalysis/internal/plot"
)

// Section names a chart of the dashboard.
type Section string

const (
	SectionBreadth     Section = "breadth"
	SectionGainers     Section = "gainers"
	SectionLosers      Section = "losers"
	SectionVolatility  Section = "volatility"
	SectionCumulative  Section = "cumulative"
	SectionSectors     Section = "sectors"
	SectionCorrelation Section = "correlation"
	SectionMonthly     Section = "monthly"
)

// Sections lists every chart in dashboard order.
var Sections = []Section{
	SectionBreadth, SectionGainers, SectionLosers, SectionVolatility,
	SectionCumulative, SectionSectors, SectionCorrelation, SectionMonthly,
}

func ParseSection(s string) (Section, error) {
	for _, sec := range Sections {
		if string(sec) == s {
			return sec, nil
		}
	}
	return "", fmt.Errorf("unknown section %q", s)
}

// Chart renders section as PNG. month only applies to the monthly section
// and defaults to the latest month; months without data are not cached. The
// returned bytes are a private copy.
func (s *Service) Chart(ds *Dataset, section Section, month string) ([]byte, error) {
	key := "chart/" + string(section)
	cached := true
	if section == SectionMonthly {
		period, err := s.ResolveMonth(ds, month)
		if err != nil {
			return nil, fmt.Errorf("chart %s: %w", section, err)
		}
		month = period.String()
		key += "/" + month
		cached = s.HasMonth(ds, period)
	}
	render := func() ([]byte, error) { return s.render(ds, section, month) }
	var png []byte
	var err error
	if cached {
		png, err = memo(s.cache, s.key(ds, key), render)
	} else {
		png, err = render()
	}
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", section, err)
	}
	return bytes.Clone(png), nil
}

func (s *Service) render(ds *Dataset, section Section, month string) ([]byte, error) {
	switch section {
	case SectionBreadth, SectionGainers, SectionLosers:
		o, err := s.Overview(ds)
		if err != nil {
			return nil, err
		}
		switch section {
		case SectionBreadth:
			return plot.BreadthPie(o.Breadth)
		case SectionGainers:
			return plot.ReturnsBar(fmt.Sprintf("Top %d gainers", len(o.Gainers)), o.Gainers)
		default:
			return plot.ReturnsBar(fmt.Sprintf("Top %d losers", len(o.Losers)), o.Losers)
		}
	case SectionVolatility:
		v, err := s.Volatility(ds)
		if err != nil {
			return nil, err
		}
		return plot.VolatilityBar(v)
	case SectionCumulative:
		c, err := s.Cumulative(ds)
		if err != nil {
			return nil, err
		}
		return plot.CumulativeLines(c.Paths, c.Tickers)
	case SectionSectors:
		perf, err := s.Sectors(ds)
		if err != nil {
			return nil, err
		}
		return plot.SectorBars(perf)
	case SectionCorrelation:
		m, err := s.Correlation(ds)
		if err != nil {
			return nil, err
		}
		return plot.CorrelationTable(m)
	case SectionMonthly:
		period, err := s.ResolveMonth(ds, month)
		if err != nil {
			return nil, err
		}
		mm, err := s.Monthly(ds, period)
		if err != nil {
			return nil, err
		}
		return plot.MonthlyMovers(mm.Month, mm.Gainers, mm.Losers)
	}
	return nil, fmt.Errorf("unknown section %q", section)
}
