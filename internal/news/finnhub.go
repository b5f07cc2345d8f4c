package news

import (
	"context"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"

	"StockPulse/internal/model"
)

// FinnhubClient reads company news for the last Lookback window.
type FinnhubClient struct {
	client   *finnhub.DefaultApiService
	Lookback time.Duration
	now      func() time.Time
}

// NewFinnhubClient creates a client; an empty baseURL keeps the SDK default server.
func NewFinnhubClient(baseURL, apiKey string) *FinnhubClient {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	if baseURL != "" {
		cfg.Servers = finnhub.ServerConfigurations{{URL: baseURL}}
	}
	return &FinnhubClient{
		client:   finnhub.NewAPIClient(cfg).DefaultApi,
		Lookback: 7 * 24 * time.Hour,
		now:      time.Now,
	}
}

func (c *FinnhubClient) Name() string {
	return "Finnhub"
}

func (c *FinnhubClient) Search(ctx context.Context, q model.NewsQuery) ([]model.NewsItem, error) {
	to := c.now().UTC()
	from := to.Add(-c.Lookback)

	res, _, err := c.client.CompanyNews(ctx).
		Symbol(q.Symbol).
		From(from.Format(model.DateLayout)).
		To(to.Format(model.DateLayout)).
		Execute()
	if err != nil {
		return nil, err
	}

	items := make([]model.NewsItem, 0, len(res))
	for _, n := range res {
		var item model.NewsItem
		if n.Headline != nil {
			item.Title = *n.Headline
		}
		if n.Summary != nil {
			item.Description = *n.Summary
		}
		if n.Url != nil {
			item.URL = *n.Url
		}
		if n.Source != nil {
			item.Source = *n.Source
		}
		items = append(items, item)
	}
	return items, nil
}
