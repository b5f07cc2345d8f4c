package collector

import (
	"context"

	"StockPulse/internal/model"
)

// Fetcher defines the interface for fetching a daily quote series.
type Fetcher interface {
	FetchDailySeries(ctx context.Context, symbol string) ([]model.QuotePoint, error)
	Name() string
}
