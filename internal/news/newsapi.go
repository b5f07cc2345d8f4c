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

const newsAPIBaseURL = "https://newsapi.org"

// NewsAPIClient searches newsapi.org for articles whose title mentions the company.
type NewsAPIClient struct {
	baseURL    string
	apiKey     string
	httpClient *httpx.Client
}

func NewNewsAPIClient(baseURL, apiKey, proxyURL string) *NewsAPIClient {
	if baseURL == "" {
		baseURL = newsAPIBaseURL
	}
	return &NewsAPIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpx.New(30*time.Second, proxyURL),
	}
}

func (c *NewsAPIClient) Name() string {
	return "NewsAPI"
}

func (c *NewsAPIClient) Search(ctx context.Context, q model.NewsQuery) ([]model.NewsItem, error) {
	params := url.Values{}
	params.Set("qInTitle", q.Company)
	params.Set("apiKey", c.apiKey)
	endpoint := c.baseURL + "/v2/everything?" + params.Encode()

	var raw newsAPIResponse
	if err := c.httpClient.GetJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("newsapi fetch: %w", err)
	}
	if raw.Status == "error" {
		return nil, fmt.Errorf("newsapi %s: %s", raw.Code, raw.Message)
	}

	items := make([]model.NewsItem, 0, len(raw.Articles))
	for _, a := range raw.Articles {
		items = append(items, model.NewsItem{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Source:      a.Source.Name,
		})
	}
	return items, nil
}

type newsAPIResponse struct {
	Status   string           `json:"status"`
	Code     string           `json:"code"`
	Message  string           `json:"message"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}
