package news

import (
	"fmt"
	"strings"
)

// New picks a client by provider name (newsapi, alphavantage, finnhub).
func New(provider, baseURL, apiKey, proxyURL string) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", "newsapi":
		return NewNewsAPIClient(baseURL, apiKey, proxyURL), nil
	case "alphavantage":
		return NewAlphaVantageClient(baseURL, apiKey, proxyURL), nil
	case "finnhub":
		return NewFinnhubClient(baseURL, apiKey), nil
	default:
		return nil, fmt.Errorf("unsupported news provider %q (use: newsapi, alphavantage, finnhub)", provider)
	}
}
