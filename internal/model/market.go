package model

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// QuotePoint represents one trading day of a daily series.
type QuotePoint struct {
	Date   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume int64
	// Raw keeps the provider's field text, written to dumps unchanged when set.
	Raw RawQuote
}

// RawQuote is the price and volume text exactly as a provider returned it.
type RawQuote struct {
	Open, High, Low, Close, Volume string
}

// Fields returns open, high, low, close and volume as text, preferring the raw provider strings.
func (p QuotePoint) Fields() [5]string {
	pick := func(raw string, d decimal.Decimal) string {
		if raw != "" {
			return raw
		}
		return d.String()
	}
	vol := p.Raw.Volume
	if vol == "" {
		vol = strconv.FormatInt(p.Volume, 10)
	}
	return [5]string{
		pick(p.Raw.Open, p.Open),
		pick(p.Raw.High, p.High),
		pick(p.Raw.Low, p.Low),
		pick(p.Raw.Close, p.Close),
		vol,
	}
}

// DateLayout is the provider and CSV date format.
const DateLayout = "2006-01-02"

// NewsQuery identifies what to search news for. Providers use whichever field they support.
type NewsQuery struct {
	Symbol  string
	Company string
}

// NewsItem is a single headline returned by a news provider.
type NewsItem struct {
	Title       string
	Description string
	URL         string
	Source      string
}
