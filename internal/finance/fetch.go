package finance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultSuffix maps bare NSE tickers to Yahoo symbols.
const DefaultSuffix = ".NS"

var errNoProfile = errors.New("no asset profile")

// SectorProvider looks up sector labels in Yahoo's asset profile.
type SectorProvider struct {
	Client   *http.Client
	Hosts    []string
	Suffix   string
	Limiter  *rate.Limiter
	Backoffs []time.Duration
}

// NewSectorProvider returns a provider that appends suffix to every ticker
// and performs at most rps lookups per second.
func NewSectorProvider(suffix string, rps float64) *SectorProvider {
	if rps <= 0 {
		rps = 2
	}
	return &SectorProvider{
		Client:   &http.Client{Timeout: 15 * time.Second},
		Hosts:    []string{"https://query1.finance.yahoo.com", "https://query2.finance.yahoo.com"},
		Suffix:   suffix,
		Limiter:  rate.NewLimiter(rate.Limit(rps), 1),
		Backoffs: []time.Duration{200 * time.Millisecond, 500 * time.Millisecond, 1 * time.Second},
	}
}

// Sector returns the sector of ticker. Each host is tried in turn, and the
// whole round is retried after every backoff.
func (p *SectorProvider) Sector(ctx context.Context, ticker string) (string, error) {
	if p.Limiter != nil {
		if err := p.Limiter.Wait(ctx); err != nil {
			return "", err
		}
	}
	symbol := strings.ToUpper(strings.TrimSpace(ticker)) + p.Suffix

	var lastErr error
	for attempt := 0; attempt < len(p.Backoffs)+1; attempt++ {
		for _, host := range p.Hosts {
			sector, err := p.fetchSector(ctx, host, symbol)
			if err == nil {
				return sector, nil
			}
			if errors.Is(err, errNoProfile) || ctx.Err() != nil {
				return "", err
			}
			lastErr = err
		}
		if attempt < len(p.Backoffs) {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(p.Backoffs[attempt]):
			}
		}
	}
	return "", lastErr
}

func (p *SectorProvider) fetchSector(ctx context.Context, host, symbol string) (string, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=assetProfile", host, url.PathEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15")
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", fmt.Sprintf("https://finance.yahoo.com/quote/%s/profile", symbol))

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return "", fmt.Errorf("failed to read yahoo response: %w", readErr)
	}
	if resp.StatusCode == http.StatusTooManyRequests || strings.HasPrefix(string(body), "Edge: Too Many Requests") {
		return "", fmt.Errorf("yahoo %s returned 429: Edge: Too Many Requests", host)
	}
	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%s: %w", symbol, errNoProfile)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("yahoo %s returned %d: %s", host, resp.StatusCode, preview(body))
	}
	if strings.HasPrefix(string(body), "<") {
		return "", fmt.Errorf("yahoo returned non-json body: %s", preview(body))
	}

	var ys yahooSummaryResp
	if err := json.Unmarshal(body, &ys); err != nil {
		return "", fmt.Errorf("failed to parse yahoo json: %v; body: %s", err, preview(body))
	}
	if e := ys.QuoteSummary.Error; e != nil {
		return "", fmt.Errorf("%s: %s: %w", symbol, e.Description, errNoProfile)
	}
	if len(ys.QuoteSummary.Result) == 0 || ys.QuoteSummary.Result[0].AssetProfile.Sector == "" {
		return "", fmt.Errorf("%s: %w", symbol, errNoProfile)
	}
	return ys.QuoteSummary.Result[0].AssetProfile.Sector, nil
}

func preview(body []byte) string {
	s := string(body)
	if len(s) > 120 {
		s = s[:120]
	}
	return s
}
