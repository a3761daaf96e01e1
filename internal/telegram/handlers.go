package telegram

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"stockAnalysis/internal/dashboard"
)

var (
	reHelp = regexp.MustCompile(`^/(help|start)(?:@[\w_]+)?$`)
	// /summary: market breadth
	reSummary = regexp.MustCompile(`^/summary(?:@[\w_]+)?$`)
	// /gainers, /losers, /volatility, /cumulative, /sectors, /correlation
	reChart = regexp.MustCompile(`^/(gainers|losers|volatility|cumulative|sectors|correlation)(?:@[\w_]+)?$`)
	// /monthly [YYYY-MM]
	reMonthly = regexp.MustCompile(`^/monthly(?:@[\w_]+)?(?:\s+(\d{4}-\d{2}))?$`)
	reMonths  = regexp.MustCompile(`^/months(?:@[\w_]+)?$`)
	reReport  = regexp.MustCompile(`^/report(?:@[\w_]+)?$`)
	reDigest  = regexp.MustCompile(`^/digest(?:@[\w_]+)?$`)
)

// telegram rejects longer text messages
const maxMessage = 4096

// Sender is the part of the bot API the handlers use.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Digester writes a prose digest of a markdown report.
type Digester interface {
	Digest(ctx context.Context, report string) (string, error)
}

// DatasetFunc returns the dataset the dashboard is computed on.
type DatasetFunc func() (*dashboard.Dataset, error)

type Handlers struct {
	api    Sender
	svc    *dashboard.Service
	data   DatasetFunc
	digest Digester
}

// NewHandlers wires the command handlers. digest may be nil, in which case
// /digest is unavailable.
func NewHandlers(api Sender, svc *dashboard.Service, data DatasetFunc, digest Digester) *Handlers {
	return &Handlers{api: api, svc: svc, data: data, digest: digest}
}

func (h *Handlers) HandleMessage(m *tgbotapi.Message) {
	if m == nil || m.Chat == nil {
		return
	}
	chatID := m.Chat.ID
	txt := strings.TrimSpace(m.Text)
	switch {
	case reHelp.MatchString(txt):
		h.handleHelp(chatID)

	case reSummary.MatchString(txt):
		h.handleSummary(chatID)

	case reChart.MatchString(txt):
		g := reChart.FindStringSubmatch(txt)
		h.handleChart(chatID, dashboard.Section(g[1]))

	case reMonthly.MatchString(txt):
		g := reMonthly.FindStringSubmatch(txt)
		h.handleMonthly(chatID, g[1])

	case reMonths.MatchString(txt):
		h.handleMonths(chatID)

	case reReport.MatchString(txt):
		h.handleReport(chatID)

	case reDigest.MatchString(txt):
		h.handleDigest(chatID)
	}
}

func (h *Handlers) dataset(chatID int64) (*dashboard.Dataset, bool) {
	ds, err := h.data()
	if err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("telegram: load dataset")
		h.reply(chatID, "Data unavailable: "+err.Error())
		return nil, false
	}
	return ds, true
}

func (h *Handlers) handleSummary(chatID int64) {
	ds, ok := h.dataset(chatID)
	if !ok {
		return
	}
	o, err := h.svc.Overview(ds)
	if err != nil {
		h.reply(chatID, "Summary failed: "+err.Error())
		return
	}
	caption := fmt.Sprintf("Total stocks: %d • Green: %d • Red: %d", o.Breadth.Total, o.Breadth.Green, o.Breadth.Red)
	h.sendChart(chatID, ds, dashboard.SectionBreadth, "", caption)
}

func (h *Handlers) handleChart(chatID int64, section dashboard.Section) {
	ds, ok := h.dataset(chatID)
	if !ok {
		return
	}
	caption, err := h.caption(ds, section)
	if err != nil {
		h.reply(chatID, fmt.Sprintf("Couldn’t build %s: %v", section, err))
		return
	}
	h.sendChart(chatID, ds, section, "", caption)
}

func (h *Handlers) caption(ds *dashboard.Dataset, section dashboard.Section) (string, error) {
	var items []string
	switch section {
	case dashboard.SectionGainers, dashboard.SectionLosers:
		o, err := h.svc.Overview(ds)
		if err != nil {
			return "", err
		}
		rows := o.Gainers
		if section == dashboard.SectionLosers {
			rows = o.Losers
		}
		for _, r := range rows {
			items = append(items, fmt.Sprintf("%s %s", r.Ticker, percent(r.Return*100)))
		}
	case dashboard.SectionVolatility:
		v, err := h.svc.Volatility(ds)
		if err != nil {
			return "", err
		}
		for _, s := range v {
			items = append(items, fmt.Sprintf("%s %.2f%%", s.Ticker, s.Score*100))
		}
	case dashboard.SectionCumulative:
		c, err := h.svc.Cumulative(ds)
		if err != nil {
			return "", err
		}
		for _, t := range c.Tickers {
			if p := c.Paths[t]; len(p) > 0 {
				items = append(items, fmt.Sprintf("%s ×%.2f", t, p[len(p)-1].Value))
			}
		}
	case dashboard.SectionSectors:
		perf, err := h.svc.Sectors(ds)
		if err != nil {
			return "", err
		}
		for _, p := range perf {
			items = append(items, fmt.Sprintf("%s %s (%d)", p.Sector, percent(p.MeanReturn*100), p.MemberCount))
		}
	case dashboard.SectionCorrelation:
		m, err := h.svc.Correlation(ds)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Correlation of daily changes • %d stocks • %d days", len(m.Tickers), len(m.Dates)), nil
	}
	return strings.ToUpper(string(section[:1])) + string(section[1:]) + ": " + strings.Join(items, ", "), nil
}

func (h *Handlers) handleMonthly(chatID int64, month string) {
	ds, ok := h.dataset(chatID)
	if !ok {
		return
	}
	period, err := h.svc.ResolveMonth(ds, month)
	if err != nil {
		h.reply(chatID, "Please give a month as YYYY-MM, e.g. /monthly 2024-03")
		return
	}
	mm, err := h.svc.Monthly(ds, period)
	if err != nil {
		h.reply(chatID, "Monthly failed: "+err.Error())
		return
	}
	if len(mm.Gainers) == 0 {
		h.reply(chatID, "No data for "+period.String()+". Try /months")
		return
	}
	caption := fmt.Sprintf("%s • best %s %s • worst %s %s", period,
		mm.Gainers[0].Ticker, percent(mm.Gainers[0].Return),
		mm.Losers[0].Ticker, percent(mm.Losers[0].Return))
	h.sendChart(chatID, ds, dashboard.SectionMonthly, period.String(), caption)
}

func (h *Handlers) handleMonths(chatID int64) {
	ds, ok := h.dataset(chatID)
	if !ok {
		return
	}
	months := h.svc.Months(ds)
	if len(months) == 0 {
		h.reply(chatID, "No monthly data.")
		return
	}
	names := make([]string, len(months))
	for i, m := range months {
		names[i] = m.String()
	}
	h.reply(chatID, "Months: "+strings.Join(names, ", "))
}

func (h *Handlers) handleReport(chatID int64) {
	ds, ok := h.dataset(chatID)
	if !ok {
		return
	}
	md, err := h.markdown(ds)
	if err != nil {
		h.reply(chatID, "Report failed: "+err.Error())
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: "dashboard.md", Bytes: []byte(md)})
	doc.Caption = "Stock dashboard report"
	h.send(chatID, doc)
}

func (h *Handlers) handleDigest(chatID int64) {
	if h.digest == nil {
		h.reply(chatID, "Digest is not configured.")
		return
	}
	ds, ok := h.dataset(chatID)
	if !ok {
		return
	}
	md, err := h.markdown(ds)
	if err != nil {
		h.reply(chatID, "Digest failed: "+err.Error())
		return
	}
	h.reply(chatID, "Writing digest…")
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()
	out, err := h.digest.Digest(ctx, md)
	if err != nil {
		h.reply(chatID, "Digest failed: "+err.Error())
		return
	}
	h.reply(chatID, out)
}

func (h *Handlers) markdown(ds *dashboard.Dataset) (string, error) {
	r, err := h.svc.Report(ds, "")
	if err != nil {
		return "", err
	}
	return r.Markdown()
}

func (h *Handlers) handleHelp(chatID int64) {
	help := "Commands\n\n" +
		"- /summary - Market breadth: green vs red stocks over the whole period\n" +
		"- /gainers, /losers - Top stocks by yearly return\n" +
		"- /volatility - Most volatile stocks (std of daily returns)\n" +
		"- /cumulative - Growth of 1 for the top gainers\n" +
		"- /sectors - Mean yearly return per sector\n" +
		"- /correlation - Correlation of daily price changes\n" +
		"- /monthly [YYYY-MM] - Monthly gainers and losers (default: latest month)\n" +
		"- /months - Months available for /monthly\n" +
		"- /report - Full dashboard as a markdown file\n" +
		"- /digest - AI-written summary of the dashboard"
	h.reply(chatID, help)
}

func (h *Handlers) sendChart(chatID int64, ds *dashboard.Dataset, section dashboard.Section, month, caption string) {
	img, err := h.svc.Chart(ds, section, month)
	if err != nil {
		h.reply(chatID, fmt.Sprintf("Chart failed: %v", err))
		return
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: string(section) + ".png", Bytes: img})
	photo.Caption = truncate(caption, 1024)
	h.send(chatID, photo)
}

func (h *Handlers) reply(chatID int64, text string) {
	h.send(chatID, tgbotapi.NewMessage(chatID, truncate(text, maxMessage)))
}

func (h *Handlers) send(chatID int64, c tgbotapi.Chattable) {
	if _, err := h.api.Send(c); err != nil {
		log.Warn().Err(err).Int64("chat_id", chatID).Msg("telegram: send failed")
	}
}

func percent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f%%", v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
