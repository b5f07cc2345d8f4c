package collector

import (
	"fmt"
	"strings"
)

// NewFetcher picks a quote fetcher by provider name (alphavantage, yahoo, mock).
func NewFetcher(provider, baseURL, apiKey, proxyURL string) (Fetcher, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", "alphavantage":
		return NewAlphaVantageFetcher(baseURL, apiKey, proxyURL), nil
	case "yahoo":
		f := NewYahooFetcher(proxyURL)
		if baseURL != "" {
			f.BaseURL = baseURL
		}
		return f, nil
	case "mock":
		return &MockFetcher{Price: 100}, nil
	default:
		return nil, fmt.Errorf("unsupported quote provider %q (use: alphavantage, yahoo, mock)", provider)
	}
}
