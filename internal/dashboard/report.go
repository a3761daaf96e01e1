package dashboard

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"text/template"

	"stockAnalysis/internal/analytics"
)

// Report is the whole dashboard as one document.
type Report struct {
	Overview    Overview
	Volatility  []analytics.VolatilityScore
	Cumulative  []CumulativeFinal
	Sectors     []analytics.SectorPerformance
	Correlation *analytics.CorrelationMatrix
	// CorrelationNote replaces the matrix when there is not enough data.
	CorrelationNote string
	Monthly         *MonthlyMovers
	Months          []analytics.MonthPeriod
}

// CumulativeFinal is the last point of a cumulative path.
type CumulativeFinal struct {
	Ticker string
	Value  float64
	Days   int
}

// Report computes every section. An empty month selects the latest month in
// the data.
func (s *Service) Report(ds *Dataset, month string) (*Report, error) {
	overview, err := s.Overview(ds)
	if err != nil {
		return nil, err
	}
	vol, err := s.Volatility(ds)
	if err != nil {
		return nil, err
	}
	cum, err := s.Cumulative(ds)
	if err != nil {
		return nil, err
	}
	sectors, err := s.Sectors(ds)
	if err != nil {
		return nil, err
	}
	r := &Report{Overview: overview, Volatility: vol, Sectors: sectors, Months: s.Months(ds)}
	for _, t := range cum.Tickers {
		path := cum.Paths[t]
		f := CumulativeFinal{Ticker: t, Value: math.NaN(), Days: len(path)}
		if len(path) > 0 {
			f.Value = path[len(path)-1].Value
		}
		r.Cumulative = append(r.Cumulative, f)
	}

	m, err := s.Correlation(ds)
	var insufficient *analytics.InsufficientDataError
	switch {
	case errors.As(err, &insufficient):
		r.CorrelationNote = insufficient.Error()
	case err != nil:
		return nil, err
	default:
		r.Correlation = m
	}

	if len(r.Months) > 0 || month != "" {
		period, err := s.ResolveMonth(ds, month)
		if err != nil {
			return nil, err
		}
		mm, err := s.Monthly(ds, period)
		if err != nil {
			return nil, err
		}
		r.Monthly = &mm
	}
	return r, nil
}

const reportMarkdownTemplate = `# Stock Dashboard

| Total stocks | Green | Red |
|---:|---:|---:|
| {{ .Overview.Breadth.Total }} | {{ .Overview.Breadth.Green }} | {{ .Overview.Breadth.Red }} |

## Top {{ len .Overview.Gainers }} gainers

| Ticker | Yearly return |
|:---|---:|
{{- range .Overview.Gainers }}
| {{ .Ticker }} | {{ pct .Return }} |
{{- end }}

## Top {{ len .Overview.Losers }} losers

| Ticker | Yearly return |
|:---|---:|
{{- range .Overview.Losers }}
| {{ .Ticker }} | {{ pct .Return }} |
{{- end }}

## Most volatile

| Ticker | Std of daily returns |
|:---|---:|
{{- range .Volatility }}
| {{ .Ticker }} | {{ pct .Score }} |
{{- end }}

## Cumulative return of the top gainers

| Ticker | Growth of 1 | Days |
|:---|---:|---:|
{{- range .Cumulative }}
| {{ .Ticker }} | {{ num .Value }} | {{ .Days }} |
{{- end }}

## Sector performance

| Sector | Mean yearly return | Stocks |
|:---|---:|---:|
{{- range .Sectors }}
| {{ .Sector }} | {{ pct .MeanReturn }} | {{ .MemberCount }} |
{{- end }}

## Correlation of daily changes
{{ if .Correlation }}
{{ correlation .Correlation }}
{{- else }}
_{{ .CorrelationNote }}_
{{- end }}
{{- with .Monthly }}

## Monthly movers {{ .Month }}

| Ticker | Gainers | | Ticker | Losers |
|:---|---:|---|:---|---:|
{{- range $i, $g := .Gainers }}
| {{ $g.Ticker }} | {{ monthly $g.Return }} | | {{ (index $.Monthly.Losers $i).Ticker }} | {{ monthly (index $.Monthly.Losers $i).Return }} |
{{- end }}
{{- end }}
`

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"pct":         formatPercent,
	"num":         formatNumber,
	"monthly":     formatMonthly,
	"correlation": correlationMarkdown,
}).Parse(reportMarkdownTemplate))

// Markdown renders the report as a markdown document.
func (r *Report) Markdown() (string, error) {
	var b strings.Builder
	if err := reportTemplate.Execute(&b, r); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return b.String(), nil
}

func formatPercent(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", v*100)
}

// formatMonthly formats a return already expressed in percent.
func formatMonthly(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", v)
}

func formatNumber(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", v)
}

func correlationMarkdown(m *analytics.CorrelationMatrix) string {
	var b strings.Builder
	b.WriteString("| |")
	for _, t := range m.Tickers {
		b.WriteString(" " + t + " |")
	}
	b.WriteString("\n|:---|")
	b.WriteString(strings.Repeat("---:|", len(m.Tickers)))
	for i, t := range m.Tickers {
		b.WriteString("\n| " + t + " |")
		for j := range m.Tickers {
			if math.IsNaN(m.Values[i][j]) {
				b.WriteString(" n/a |")
				continue
			}
			fmt.Fprintf(&b, " %.2f |", m.Values[i][j])
		}
	}
	return b.String()
}
