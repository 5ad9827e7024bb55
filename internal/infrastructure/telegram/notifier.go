package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/captcha-relay/internal/config"
	"golang.org/x/time/rate"
)

// Notifier sends messages through the bot API.
type Notifier interface {
	Notify(ctx context.Context, chatID, text string) error
}

type notifier struct {
	token   string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewNotifier builds a bot-API notifier. Sends are throttled because the bot
// API caps outbound messages per second.
func NewNotifier(cfg *config.Config) Notifier {
	return &notifier{
		token:   cfg.BotToken,
		baseURL: cfg.BotBaseURL,
		client:  &http.Client{Timeout: cfg.BotTimeout},
		limiter: rate.NewLimiter(rate.Limit(25), 5),
	}
}

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// Notify posts a sendMessage request addressed to chatID. The response body
// is ignored; a non-2xx status is reported as an error for the caller to log.
func (n *notifier) Notify(ctx context.Context, chatID, text string) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("throttle bot send: %w", err)
	}

	payload, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text})
	if err != nil {
		return fmt.Errorf("marshal sendMessage payload: %w", err)
	}
	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build sendMessage request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("call sendMessage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sendMessage returned status %d", resp.StatusCode)
	}
	return nil
}
