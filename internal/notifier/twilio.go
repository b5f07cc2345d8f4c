package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// messageCreator is the slice of the Twilio REST client used here.
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioSender sends SMS or WhatsApp messages through Twilio.
type TwilioSender struct {
	From     string
	WhatsApp bool
	api      messageCreator
}

// NewTwilioSender creates a sender for the given account.
func NewTwilioSender(accountSID, authToken, from string, whatsapp bool) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{From: from, WhatsApp: whatsapp, api: client.Api}
}

func (t *TwilioSender) Name() string {
	if t.WhatsApp {
		return "twilio-whatsapp"
	}
	return "twilio-sms"
}

func (t *TwilioSender) address(number string) string {
	if t.WhatsApp && !strings.HasPrefix(number, "whatsapp:") {
		return "whatsapp:" + number
	}
	return number
}

// Send creates one message. The Twilio client has no context support, so ctx is only checked up front.
func (t *TwilioSender) Send(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if to == "" {
		return fmt.Errorf("twilio: empty destination number")
	}
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(t.address(to))
	params.SetFrom(t.address(t.From))
	params.SetBody(body)

	resp, err := t.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio create message: %w", err)
	}
	if resp.ErrorCode != nil {
		msg := ""
		if resp.ErrorMessage != nil {
			msg = *resp.ErrorMessage
		}
		return fmt.Errorf("twilio error %d: %s", *resp.ErrorCode, msg)
	}
	return nil
}
