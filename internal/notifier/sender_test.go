package notifier

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"StockPulse/internal/model"
)

type recordingSender struct {
	sent   []string
	failAt int
}

func (r *recordingSender) Name() string { return "recording" }

func (r *recordingSender) Send(_ context.Context, _, body string) error {
	if r.failAt > 0 && len(r.sent)+1 == r.failAt {
		return errors.New("carrier rejected")
	}
	r.sent = append(r.sent, body)
	return nil
}

func TestSendAll_SendsInOrder(t *testing.T) {
	s := &recordingSender{}
	n, err := SendAll(context.Background(), s, "+15550001111", []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, []string{"a", "b", "c"}, s.sent)
}

func TestSendAll_HaltsAtFirstFailure(t *testing.T) {
	s := &recordingSender{failAt: 2}
	n, err := SendAll(context.Background(), s, "+15550001111", []string{"a", "b", "c"})

	require.Equal(t, 1, n)
	require.Equal(t, []string{"a"}, s.sent)
	var pe *model.ProviderError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "recording", pe.Provider)
	require.Contains(t, err.Error(), "message 2/3")
}

type fakeCreator struct {
	params []*twilioApi.CreateMessageParams
	resp   *twilioApi.ApiV2010Message
	err    error
}

func (f *fakeCreator) CreateMessage(p *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = append(f.params, p)
	if f.resp == nil {
		return &twilioApi.ApiV2010Message{}, f.err
	}
	return f.resp, f.err
}

func TestTwilioSender_WhatsAppAddresses(t *testing.T) {
	fc := &fakeCreator{}
	s := &TwilioSender{From: "+15550009999", WhatsApp: true, api: fc}

	require.NoError(t, s.Send(context.Background(), "+15550001111", "hello"))
	require.Len(t, fc.params, 1)
	require.Equal(t, "whatsapp:+15550001111", *fc.params[0].To)
	require.Equal(t, "whatsapp:+15550009999", *fc.params[0].From)
	require.Equal(t, "hello", *fc.params[0].Body)
	require.Equal(t, "twilio-whatsapp", s.Name())
}

func TestTwilioSender_SMS(t *testing.T) {
	fc := &fakeCreator{}
	s := &TwilioSender{From: "+15550009999", api: fc}

	require.NoError(t, s.Send(context.Background(), "+15550001111", "hello"))
	require.Equal(t, "+15550001111", *fc.params[0].To)
	require.Equal(t, "twilio-sms", s.Name())
}

func TestTwilioSender_Errors(t *testing.T) {
	s := &TwilioSender{From: "+1", api: &fakeCreator{err: errors.New("401 unauthorized")}}
	require.ErrorContains(t, s.Send(context.Background(), "+2", "x"), "401 unauthorized")

	code, msg := 21211, "invalid To number"
	s = &TwilioSender{From: "+1", api: &fakeCreator{resp: &twilioApi.ApiV2010Message{ErrorCode: &code, ErrorMessage: &msg}}}
	require.ErrorContains(t, s.Send(context.Background(), "+2", "x"), "21211")

	require.Error(t, s.Send(context.Background(), "", "x"))
}

func TestTelegramSend(t *testing.T) {
	var gotPath, gotCT string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCT = r.Header.Get("Content-Type")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("token", "42", "", zap.NewNop())
	tn.APIBase = srv.URL

	require.NoError(t, tn.Send(context.Background(), "", "hi"))
	require.Equal(t, "/bottoken/sendMessage", gotPath)
	require.Equal(t, "application/json", gotCT)
}

func TestTelegramSend_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ok":false}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("token", "42", "", zap.NewNop())
	tn.APIBase = srv.URL

	require.ErrorContains(t, tn.Send(context.Background(), "", "hi"), "status 400")
}

func TestNewSender(t *testing.T) {
	s, err := New("whatsapp", Options{TwilioFrom: "+1"}, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, "twilio-whatsapp", s.Name())

	s, err = New("telegram", Options{}, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, "telegram", s.Name())

	_, err = New("pigeon", Options{}, zap.NewNop())
	require.Error(t, err)
}
