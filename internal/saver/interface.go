package saver

import (
	"sort"
	"strings"

	"StockPulse/internal/model"
)

// QuoteSaver writes a quote series to a file, overwriting it.
type QuoteSaver interface {
	Save(points []model.QuotePoint, path string) error
	Extension() string
}

// NewQuoteSaver creates an implementation by format (csv, parquet).
// Returns nil if format not supported.
func NewQuoteSaver(format string) QuoteSaver {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "csv":
		return CSVSaver{}
	case "parquet":
		return ParquetSaver{}
	default:
		return nil
	}
}

// ascending returns a copy of points ordered oldest first.
func ascending(points []model.QuotePoint) []model.QuotePoint {
	out := make([]model.QuotePoint, len(points))
	copy(out, points)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
