package news

import (
	"context"

	"StockPulse/internal/model"
)

// Client searches a news provider. Results keep the provider's natural order.
type Client interface {
	Search(ctx context.Context, q model.NewsQuery) ([]model.NewsItem, error)
	Name() string
}
