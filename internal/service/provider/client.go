package provider

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"RiskLens/internal/domain/models"
	drepo "RiskLens/internal/domain/repository"
	"RiskLens/internal/service/ratelimit"
	"RiskLens/internal/services/risk"
	xhttp "RiskLens/pkg/http"
	applogger "RiskLens/pkg/logger"
)

// Client fetches daily OHLCV candles from a REST market-data API.
type Client struct {
	apiKey  string
	baseURL string
	client  *xhttp.Client
	limiter *ratelimit.Limiter
	burst   float64
	rate    float64
	l       *applogger.Logger
}

// New creates a new daily-bar source.
func New(apiKey, baseURL string, timeout time.Duration, ratePerSec float64, burst int) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if ratePerSec <= 0 {
		ratePerSec = 5
	}
	if burst <= 0 {
		burst = 10
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
		limiter: ratelimit.New(),
		burst:   float64(burst),
		rate:    ratePerSec,
	}
}

// SetLogger injects a structured logger.
func (c *Client) SetLogger(l *applogger.Logger) { c.l = l }

// candleResponse is the provider's column-oriented candle payload.
type candleResponse struct {
	Status string    `json:"s"`
	Time   []int64   `json:"t"`
	Open   []float64 `json:"o"`
	High   []float64 `json:"h"`
	Low    []float64 `json:"l"`
	Close  []float64 `json:"c"`
	Volume []float64 `json:"v"`
}

// FetchDailyBars retrieves daily candles for a symbol, honoring the
// per-symbol rate limit. Results are sorted by date ascending.
func (c *Client) FetchDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceBar, error) {
	if !c.limiter.Allow(symbol, c.burst, c.rate) {
		return nil, &risk.DataSourceError{Op: "provider.FetchDailyBars", Source: symbol, Err: fmt.Errorf("rate limited")}
	}

	var resp candleResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/stock/candle",
		QueryParams: map[string][]string{
			"symbol":     {symbol},
			"resolution": {"D"},
			"from":       {strconv.FormatInt(from.Unix(), 10)},
			"to":         {strconv.FormatInt(to.Unix(), 10)},
			"token":      {c.apiKey},
		},
	}, &resp)
	if err != nil {
		if c.l != nil {
			c.l.Error("provider fetch error",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return nil, &risk.DataSourceError{Op: "provider.FetchDailyBars", Source: symbol, Err: err}
	}
	if resp.Status != "ok" {
		return nil, &risk.DataSourceError{Op: "provider.FetchDailyBars", Source: symbol, Err: fmt.Errorf("status %q", resp.Status)}
	}
	n := len(resp.Time)
	if len(resp.Open) != n || len(resp.High) != n || len(resp.Low) != n || len(resp.Close) != n || len(resp.Volume) != n {
		return nil, &risk.DataSourceError{Op: "provider.FetchDailyBars", Source: symbol, Err: fmt.Errorf("ragged candle arrays")}
	}

	bars := make([]models.PriceBar, 0, n)
	for i := 0; i < n; i++ {
		bars = append(bars, models.PriceBar{
			Symbol: symbol,
			Date:   time.Unix(resp.Time[i], 0).UTC().Truncate(24 * time.Hour),
			Open:   resp.Open[i],
			High:   resp.High[i],
			Low:    resp.Low[i],
			Close:  resp.Close[i],
			Volume: resp.Volume[i],
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	if c.l != nil {
		c.l.Info("provider fetch ok",
			applogger.String("symbol", symbol),
			applogger.Int("bars", len(bars)),
		)
	}
	return bars, nil
}

var _ drepo.BarSource = (*Client)(nil)
