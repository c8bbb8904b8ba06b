package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultAPIBase = "https://api.telegram.org"

// Notifier posts short messages to a Telegram chat or channel.
type Notifier struct {
	apiBase string
	token   string
	chatID  string
	client  *http.Client
	log     *slog.Logger
}

// NewNotifier creates a notifier. A zero timeout means no timeout, like the
// other HTTP clients.
func NewNotifier(token, chatID string, timeout time.Duration, log *slog.Logger) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	return &Notifier{
		apiBase: defaultAPIBase,
		token:   token,
		chatID:  chatID,
		client:  &http.Client{Timeout: timeout},
		log:     log.With("component", "telegram"),
	}
}

// NotifyPublished announces a newly published post.
func (n *Notifier) NotifyPublished(ctx context.Context, title, sourceURL string) error {
	text := fmt.Sprintf("📰 <b>%s</b>\n%s", html.EscapeString(title), html.EscapeString(sourceURL))
	return n.SendMessage(ctx, text)
}

// SendMessage sends an HTML-formatted message. One attempt only.
func (n *Notifier) SendMessage(ctx context.Context, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.token)

	payload := map[string]interface{}{
		"chat_id":                  n.chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error make JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("error HTTP request: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			n.log.Warn("failed to close response body", "error", err)
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API error: status %d", resp.StatusCode)
	}

	n.log.Debug("message sent to Telegram")
	return nil
}
