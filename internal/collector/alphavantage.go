package collector

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"StockPulse/internal/httpx"
	"StockPulse/internal/model"
)

const alphaVantageBaseURL = "https://www.alphavantage.co"

// AlphaVantageFetcher implements Fetcher using the Alpha Vantage TIME_SERIES_DAILY endpoint.
type AlphaVantageFetcher struct {
	BaseURL string
	APIKey  string
	Client  *httpx.Client
}

// NewAlphaVantageFetcher creates a fetcher with optional proxy support.
func NewAlphaVantageFetcher(baseURL, apiKey, proxyURL string) *AlphaVantageFetcher {
	if baseURL == "" {
		baseURL = alphaVantageBaseURL
	}
	return &AlphaVantageFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  httpx.New(30*time.Second, proxyURL),
	}
}

func (f *AlphaVantageFetcher) Name() string { return "alphavantage" }

// avDaily is the response shape of TIME_SERIES_DAILY. Values are strings.
type avDaily struct {
	TimeSeries   map[string]avBar `json:"Time Series (Daily)"`
	ErrorMessage string           `json:"Error Message"`
	Note         string           `json:"Note"`
	Information  string           `json:"Information"`
}

type avBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

func (f *AlphaVantageFetcher) FetchDailySeries(ctx context.Context, symbol string) ([]model.QuotePoint, error) {
	q := url.Values{}
	q.Set("function", "TIME_SERIES_DAILY")
	q.Set("symbol", symbol)
	q.Set("apikey", f.APIKey)
	endpoint := f.BaseURL + "/query?" + q.Encode()

	var raw avDaily
	if err := f.Client.GetJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("alphavantage fetch: %w", err)
	}
	switch {
	case raw.ErrorMessage != "":
		return nil, fmt.Errorf("alphavantage api error: %s", raw.ErrorMessage)
	case raw.Note != "":
		return nil, fmt.Errorf("alphavantage api note: %s", raw.Note)
	case raw.Information != "" && len(raw.TimeSeries) == 0:
		return nil, fmt.Errorf("alphavantage api information: %s", raw.Information)
	}

	points := make([]model.QuotePoint, 0, len(raw.TimeSeries))
	for date, bar := range raw.TimeSeries {
		p, err := bar.toPoint(date)
		if err != nil {
			return nil, fmt.Errorf("alphavantage %s: %w", date, err)
		}
		points = append(points, p)
	}
	sortMostRecentFirst(points)
	return points, nil
}

func (b avBar) toPoint(date string) (model.QuotePoint, error) {
	day, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return model.QuotePoint{}, fmt.Errorf("parse date: %w", err)
	}
	var errs []error
	parse := func(field, s string) decimal.Decimal {
		d, err := decimal.NewFromString(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("parse %s: %w", field, err))
		}
		return d
	}
	p := model.QuotePoint{
		Date:   day,
		Open:   parse("open", b.Open),
		High:   parse("high", b.High),
		Low:    parse("low", b.Low),
		Close:  parse("close", b.Close),
		Volume: parse("volume", b.Volume).IntPart(),
		Raw:    model.RawQuote{Open: b.Open, High: b.High, Low: b.Low, Close: b.Close, Volume: b.Volume},
	}
	return p, errors.Join(errs...)
}
