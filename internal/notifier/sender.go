package notifier

import (
	"context"
	"fmt"

	"StockPulse/internal/model"
)

// Sender delivers one message to a destination.
type Sender interface {
	Send(ctx context.Context, to, body string) error
	Name() string
}

// SendAll delivers messages in order and stops at the first failure.
func SendAll(ctx context.Context, s Sender, to string, messages []string) (int, error) {
	for i, m := range messages {
		if err := s.Send(ctx, to, m); err != nil {
			return i, model.NewProviderError(s.Name(), fmt.Errorf("message %d/%d: %w", i+1, len(messages), err))
		}
	}
	return len(messages), nil
}
