package app

import (
	"context"

	"StockPulse/internal/model"
)

//go:generate mockgen -package=app_test -destination=mock_deps_test.go -source=deps.go

// QuoteSource returns a daily series, most recent first.
type QuoteSource interface {
	Collect(ctx context.Context, symbol string) ([]model.QuotePoint, error)
}

// NewsSource finds headlines for a company.
type NewsSource interface {
	Search(ctx context.Context, q model.NewsQuery) ([]model.NewsItem, error)
	Name() string
}

// MessageSender delivers one notification.
type MessageSender interface {
	Send(ctx context.Context, to, body string) error
	Name() string
}

// ChartRenderer draws the closing-price series to path.
type ChartRenderer interface {
	Render(symbol string, points []model.QuotePoint, path string) (string, error)
}
