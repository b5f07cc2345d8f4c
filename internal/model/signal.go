package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Direction is the sign of a day-over-day change. A zero change is Down.
type Direction string

const (
	DirectionUp   Direction = "UP"
	DirectionDown Direction = "DOWN"
)

// Glyph returns the arrow used in notification messages.
func (d Direction) Glyph() string {
	if d == DirectionUp {
		return "⬆️"
	}
	return "⬇️"
}

// ChangeDecision is the outcome of comparing the two most recent closes.
type ChangeDecision struct {
	Symbol        string
	LatestClose   decimal.Decimal
	PreviousClose decimal.Decimal
	Diff          decimal.Decimal
	PercentChange int64
	Direction     Direction
	ShouldNotify  bool
}

// Action selects what happens after a notify-worthy change.
type Action string

const (
	ActionShowChart Action = "chart"
	ActionNotify    Action = "notify"
)

// ParseAction accepts the canonical names plus the labels of the old desktop form.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "chart", "show data", "show", "plot":
		return ActionShowChart, nil
	case "notify", "sms/whatsapp", "sms", "whatsapp", "send":
		return ActionNotify, nil
	default:
		return "", fmt.Errorf("unknown action %q (use: chart, notify)", s)
	}
}
