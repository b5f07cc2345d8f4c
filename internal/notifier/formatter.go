package notifier

import (
	"fmt"
	"strings"

	"StockPulse/internal/model"
)

// MaxNewsItems caps how many headlines become messages.
const MaxNewsItems = 3

// FormatMessages builds one notification per news item for a notify-worthy change.
func FormatMessages(d *model.ChangeDecision, items []model.NewsItem) []string {
	if d == nil || !d.ShouldNotify {
		return nil
	}
	if len(items) > MaxNewsItems {
		items = items[:MaxNewsItems]
	}
	msgs := make([]string, 0, len(items))
	for _, it := range items {
		msgs = append(msgs, FormatMessage(d, it))
	}
	return msgs
}

// FormatMessage renders "{symbol}: {glyph}{pct}%\nHeadline: {title}.\nBrief: {description}".
func FormatMessage(d *model.ChangeDecision, it model.NewsItem) string {
	return fmt.Sprintf("%s: %s%d%%\nHeadline: %s.\nBrief: %s",
		d.Symbol, d.Direction.Glyph(), d.PercentChange, it.Title, it.Description)
}

// FormatDecision summarises a decision for CLI output and command replies.
func FormatDecision(d *model.ChangeDecision) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s%d%%\n", d.Symbol, d.Direction.Glyph(), d.PercentChange))
	b.WriteString(fmt.Sprintf("Close: %s (previous %s, diff %s)\n",
		d.LatestClose.StringFixed(2), d.PreviousClose.StringFixed(2), d.Diff.StringFixed(2)))
	if d.ShouldNotify {
		b.WriteString("Threshold crossed, notifying")
	} else {
		b.WriteString("Within threshold, nothing to send")
	}
	return b.String()
}

// FormatHelp lists the chat commands.
func FormatHelp() string {
	return "Available commands:\n• /check SYMBOL Company Name\n• /help"
}
