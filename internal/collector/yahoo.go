package collector

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"StockPulse/internal/httpx"
	"StockPulse/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using the Yahoo Finance public chart API.
type YahooFetcher struct {
	BaseURL string
	Range   string
	Client  *httpx.Client
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	c := httpx.New(30*time.Second, proxyURL)
	c.UserAgent = "Mozilla/5.0"
	return &YahooFetcher{
		BaseURL: yahooBaseURL,
		Range:   "3mo",
		Client:  c,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func at(vals []*float64, i int) float64 {
	if i >= len(vals) || vals[i] == nil {
		return 0
	}
	return *vals[i]
}

func (f *YahooFetcher) FetchDailySeries(ctx context.Context, symbol string) ([]model.QuotePoint, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		strings.TrimRight(f.BaseURL, "/"), url.PathEscape(symbol), f.Range)

	var chart yahooChart
	if err := f.Client.GetJSON(ctx, u, &chart); err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	points := make([]model.QuotePoint, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		c := at(quote.Close, i)
		if c == 0 {
			continue // null bars (holidays, halted sessions)
		}
		t := time.Unix(ts, 0).UTC()
		points = append(points, model.QuotePoint{
			Date:   time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
			Open:   decimal.NewFromFloat(at(quote.Open, i)),
			High:   decimal.NewFromFloat(at(quote.High, i)),
			Low:    decimal.NewFromFloat(at(quote.Low, i)),
			Close:  decimal.NewFromFloat(c),
			Volume: int64(at(quote.Volume, i)),
		})
	}

	sortMostRecentFirst(points)
	return points, nil
}
