package analytics

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"
)

// MonthPeriod is a calendar month.
type MonthPeriod struct {
	Year  int
	Month time.Month
}

// PeriodOf truncates a date to its month.
func PeriodOf(t time.Time) MonthPeriod {
	return MonthPeriod{Year: t.Year(), Month: t.Month()}
}

// ParseMonthPeriod parses the "2006-01" form produced by String.
func ParseMonthPeriod(s string) (MonthPeriod, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return MonthPeriod{}, fmt.Errorf("parse month %q: %w", s, err)
	}
	return PeriodOf(t), nil
}

func (p MonthPeriod) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Compare orders periods chronologically.
func (p MonthPeriod) Compare(o MonthPeriod) int {
	if c := cmp.Compare(p.Year, o.Year); c != 0 {
		return c
	}
	return cmp.Compare(p.Month, o.Month)
}

// MonthlyReturn is the percentage change of a ticker within one month.
type MonthlyReturn struct {
	Month      MonthPeriod
	Ticker     string
	FirstClose float64
	LastClose  float64
	Return     float64
}

// ComputeMonthlyReturns buckets every ticker's closes by month and returns
// (last-first)/first*100 per bucket, where first and last are the
// chronologically earliest and latest closes of the month. A zero first
// close gives an infinite or NaN return. Rows are ordered by month, then
// ticker.
func ComputeMonthlyReturns(series []TimeSeries) []MonthlyReturn {
	perSeries := perTicker(len(series), func(i int) []MonthlyReturn {
		return monthlyReturns(series[i])
	})
	var out []MonthlyReturn
	for _, rows := range perSeries {
		out = append(out, rows...)
	}
	slices.SortStableFunc(out, func(a, b MonthlyReturn) int {
		if c := a.Month.Compare(b.Month); c != 0 {
			return c
		}
		return cmp.Compare(a.Ticker, b.Ticker)
	})
	return out
}

func monthlyReturns(s TimeSeries) []MonthlyReturn {
	type bucket struct {
		first, last PricePoint
	}
	buckets := make(map[MonthPeriod]*bucket)
	for _, p := range s.Points {
		period := PeriodOf(p.Date)
		b := buckets[period]
		if b == nil {
			buckets[period] = &bucket{first: p, last: p}
			continue
		}
		if p.Date.Before(b.first.Date) {
			b.first = p
		}
		if !p.Date.Before(b.last.Date) {
			b.last = p
		}
	}
	out := make([]MonthlyReturn, 0, len(buckets))
	for period, b := range buckets {
		out = append(out, MonthlyReturn{
			Month:      period,
			Ticker:     s.Ticker,
			FirstClose: b.first.Close,
			LastClose:  b.last.Close,
			Return:     (b.last.Close - b.first.Close) / b.first.Close * 100,
		})
	}
	return out
}

// FilterMonth keeps the rows of one month. An unknown month yields an empty
// table.
func FilterMonth(rows []MonthlyReturn, period MonthPeriod) []MonthlyReturn {
	out := make([]MonthlyReturn, 0)
	for _, r := range rows {
		if r.Month == period {
			out = append(out, r)
		}
	}
	return out
}

// Months lists the distinct months of the table in chronological order.
func Months(rows []MonthlyReturn) []MonthPeriod {
	seen := make(map[MonthPeriod]struct{})
	var out []MonthPeriod
	for _, r := range rows {
		if _, ok := seen[r.Month]; ok {
			continue
		}
		seen[r.Month] = struct{}{}
		out = append(out, r.Month)
	}
	slices.SortFunc(out, MonthPeriod.Compare)
	return out
}
