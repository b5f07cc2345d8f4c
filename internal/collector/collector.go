package collector

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"StockPulse/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price  float64
	Points []model.QuotePoint
	Err    error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailySeries(_ context.Context, _ string) ([]model.QuotePoint, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Points != nil {
		return m.Points, nil
	}
	points := generateMockPoints(m.Price, 30)
	sortMostRecentFirst(points)
	return points, nil
}

func generateMockPoints(basePrice float64, count int) []model.QuotePoint {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	points := make([]model.QuotePoint, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.004)
		points[i] = model.QuotePoint{
			Date:   today.AddDate(0, 0, -(count - i)),
			Open:   decimal.NewFromFloat(p * 0.999).Round(4),
			High:   decimal.NewFromFloat(p * 1.005).Round(4),
			Low:    decimal.NewFromFloat(p * 0.995).Round(4),
			Close:  decimal.NewFromFloat(p).Round(4),
			Volume: 1000000,
		}
	}
	return points
}

// mostRecentFirst returns a sorted copy; the fetcher's slice may be shared.
func mostRecentFirst(points []model.QuotePoint) []model.QuotePoint {
	out := make([]model.QuotePoint, len(points))
	copy(out, points)
	sortMostRecentFirst(out)
	return out
}

func sortMostRecentFirst(points []model.QuotePoint) {
	sort.Slice(points, func(i, j int) bool { return points[i].Date.After(points[j].Date) })
}

// Collector fetches quote series and tags failures with the provider name.
type Collector struct {
	Fetcher Fetcher
	Log     *zap.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, log *zap.Logger) *Collector {
	return &Collector{Fetcher: fetcher, Log: log}
}

// Collect returns the daily series for symbol, most recent first.
func (c *Collector) Collect(ctx context.Context, symbol string) ([]model.QuotePoint, error) {
	points, err := c.Fetcher.FetchDailySeries(ctx, symbol)
	if err != nil {
		c.Log.Warn("fetch daily series failed", zap.String("source", c.Fetcher.Name()), zap.String("symbol", symbol), zap.Error(err))
		return nil, model.NewProviderError(c.Fetcher.Name(), err)
	}
	points = mostRecentFirst(points)
	c.Log.Debug("fetched daily series", zap.String("source", c.Fetcher.Name()), zap.String("symbol", symbol), zap.Int("points", len(points)))
	return points, nil
}
