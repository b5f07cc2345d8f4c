package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"StockPulse/internal/httpx"
	"StockPulse/internal/model"
)

const alphaVantageBaseURL = "https://www.alphavantage.co"

// AlphaVantageClient reads the NEWS_SENTIMENT feed filtered by ticker.
type AlphaVantageClient struct {
	baseURL    string
	apiKey     string
	httpClient *httpx.Client
}

func NewAlphaVantageClient(baseURL, apiKey, proxyURL string) *AlphaVantageClient {
	if baseURL == "" {
		baseURL = alphaVantageBaseURL
	}
	return &AlphaVantageClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpx.New(30*time.Second, proxyURL),
	}
}

func (c *AlphaVantageClient) Name() string {
	return "AlphaVantage"
}

func (c *AlphaVantageClient) Search(ctx context.Context, q model.NewsQuery) ([]model.NewsItem, error) {
	params := url.Values{}
	params.Set("function", "NEWS_SENTIMENT")
	params.Set("tickers", q.Symbol)
	params.Set("sort", "LATEST")
	params.Set("limit", "50")
	params.Set("apikey", c.apiKey)

	var raw avResponse
	if err := c.httpClient.GetJSON(ctx, c.baseURL+"/query?"+params.Encode(), &raw); err != nil {
		return nil, fmt.Errorf("alphavantage fetch: %w", err)
	}
	if raw.ErrorMessage != "" {
		return nil, fmt.Errorf("alphavantage api error: %s", raw.ErrorMessage)
	}
	if raw.Note != "" || (raw.Information != "" && len(raw.Feed) == 0) {
		return nil, fmt.Errorf("alphavantage api note: %s%s", raw.Note, raw.Information)
	}

	items := make([]model.NewsItem, 0, len(raw.Feed))
	for _, item := range raw.Feed {
		items = append(items, model.NewsItem{
			Title:       item.Title,
			Description: item.Summary,
			URL:         item.URL,
			Source:      item.Source,
		})
	}
	return items, nil
}

type avResponse struct {
	Feed         []avFeedItem `json:"feed"`
	ErrorMessage string       `json:"Error Message"`
	Note         string       `json:"Note"`
	Information  string       `json:"Information"`
}

type avFeedItem struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	URL     string `json:"url"`
	Source  string `json:"source"`
}
