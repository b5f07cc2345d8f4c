package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"StockPulse/internal/httpx"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramNotifier sends messages via the Telegram Bot API.
type TelegramNotifier struct {
	BotToken string
	ChatID   string
	APIBase  string
	Client   *httpx.Client
	Log      *zap.Logger
	// PollBackoff is the pause after a failed or rejected getUpdates call.
	PollBackoff time.Duration
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, chatID, proxyURL string, log *zap.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		BotToken: botToken,
		ChatID:   chatID,
		APIBase:  telegramAPIBase,
		Client:   httpx.New(30*time.Second, proxyURL),
		Log:      log,

		PollBackoff: 5 * time.Second,
	}
}

func (t *TelegramNotifier) Name() string { return "telegram" }

// Send posts text to chat `to`, or to the configured chat when `to` is not a chat id.
func (t *TelegramNotifier) Send(ctx context.Context, to, text string) error {
	chatID := t.ChatID
	if isChatID(to) {
		chatID = to
	}
	if chatID == "" {
		return fmt.Errorf("telegram: no chat id")
	}

	apiURL := fmt.Sprintf("%s/bot%s/sendMessage", t.APIBase, t.BotToken)
	payload := map[string]string{
		"chat_id": chatID,
		"text":    text,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// isChatID accepts numeric chat ids and @channel names. Phone numbers fall back to the configured chat.
func isChatID(to string) bool {
	if strings.HasPrefix(to, "@") {
		return len(to) > 1
	}
	if to == "" || strings.HasPrefix(to, "+") {
		return false
	}
	_, err := strconv.ParseInt(to, 10, 64)
	return err == nil
}
