package strategy

import (
	"github.com/shopspring/decimal"

	"StockPulse/internal/model"
)

// NotifyThresholdPercent is the absolute rounded percentage a change must exceed to notify.
const NotifyThresholdPercent = 1

var hundred = decimal.NewFromInt(100)

// Evaluate compares the two most recent closes of a most-recent-first series.
func Evaluate(symbol string, points []model.QuotePoint) (*model.ChangeDecision, error) {
	if len(points) < 2 {
		return nil, model.ErrInsufficientData
	}
	latest, previous := points[0], points[1]
	if previous.Close.IsZero() {
		return nil, model.ErrInvalidPrice
	}

	diff := latest.Close.Sub(previous.Close)
	direction := model.DirectionDown
	if diff.IsPositive() {
		direction = model.DirectionUp
	}

	// Half-way values round to even.
	pct := diff.Div(previous.Close).Mul(hundred).RoundBank(0).IntPart()

	return &model.ChangeDecision{
		Symbol:        symbol,
		LatestClose:   latest.Close,
		PreviousClose: previous.Close,
		Diff:          diff,
		PercentChange: pct,
		Direction:     direction,
		ShouldNotify:  abs(pct) > NotifyThresholdPercent,
	}, nil
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
