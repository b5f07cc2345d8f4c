package notifier

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Options carries the credentials every channel may need.
type Options struct {
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFrom       string
	TelegramToken    string
	TelegramChatID   string
	Proxy            string
}

// New picks a sender by channel (sms, whatsapp, telegram).
func New(channel string, o Options, log *zap.Logger) (Sender, error) {
	switch strings.ToLower(strings.TrimSpace(channel)) {
	case "", "sms":
		return NewTwilioSender(o.TwilioAccountSID, o.TwilioAuthToken, o.TwilioFrom, false), nil
	case "whatsapp":
		return NewTwilioSender(o.TwilioAccountSID, o.TwilioAuthToken, o.TwilioFrom, true), nil
	case "telegram":
		return NewTelegramNotifier(o.TelegramToken, o.TelegramChatID, o.Proxy, log), nil
	default:
		return nil, fmt.Errorf("unsupported messaging channel %q (use: sms, whatsapp, telegram)", channel)
	}
}
