// Package notify delivers reminder messages to Telegram.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const sendTimeout = 10 * time.Second

// TelegramClient talks to the Bot API sendMessage endpoint. The base URL is
// configurable so tests can point it at a local server.
type TelegramClient struct {
	baseURL    string
	botToken   string
	chatID     string
	httpClient *http.Client
}

func NewTelegramClient(baseURL, botToken, chatID string) *TelegramClient {
	return &TelegramClient{
		baseURL:    baseURL,
		botToken:   botToken,
		chatID:     chatID,
		httpClient: &http.Client{Timeout: sendTimeout},
	}
}

// ReminderText builds the message body for an expiry reminder.
func ReminderText(name, expiryDate string, daysLeft int) string {
	return fmt.Sprintf("【SubTracker 到期提醒】\n服务：%s\n到期日：%s\n剩余 %d 天，请及时续费。", name, expiryDate, daysLeft)
}

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send posts a text message to the configured chat.
func (c *TelegramClient) Send(ctx context.Context, text string) error {
	if c.botToken == "" || c.chatID == "" {
		return fmt.Errorf("telegram not configured: bot token or chat id missing")
	}

	body, err := json.Marshal(sendMessageRequest{ChatID: c.chatID, Text: text})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return fmt.Errorf("read telegram response: %w", err)
	}

	var parsed sendMessageResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("parse telegram response (status %d): %w", resp.StatusCode, err)
	}
	if !parsed.OK {
		return fmt.Errorf("telegram API error (status %d): %s", resp.StatusCode, parsed.Description)
	}
	return nil
}
