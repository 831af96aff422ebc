package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
	"unicode/utf8"
)

const telegramMaxLen = 4096

// Telegram posts messages to a group chat through the Bot API. When
// Telegram reports that the group was upgraded to a supergroup it
// remembers the migrated chat id and retries once.
type Telegram struct {
	token string
	http  *http.Client

	mu     sync.Mutex
	chatID string
}

func NewTelegram(token, chatID string) *Telegram {
	return &Telegram{
		token:  token,
		chatID: chatID,
		http:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (t *Telegram) Send(ctx context.Context, text string) error {
	t.mu.Lock()
	chatID := t.chatID
	t.mu.Unlock()

	if t.token == "" || chatID == "" {
		return fmt.Errorf("telegram: bot token or chat id not configured")
	}

	migrateTo, err := t.sendOnce(ctx, truncate(text), chatID)
	if err == nil {
		return nil
	}
	if migrateTo == "" {
		return err
	}

	t.mu.Lock()
	t.chatID = migrateTo
	t.mu.Unlock()

	_, err = t.sendOnce(ctx, truncate(text), migrateTo)
	return err
}

// sendOnce returns a non-empty migrated chat id when Telegram asks the
// caller to switch chats.
func (t *Telegram) sendOnce(ctx context.Context, text, chatID string) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"chat_id":                  chatID,
		"text":                     text,
		"disable_web_page_preview": true,
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
		Parameters  struct {
			MigrateToChatID int64 `json:"migrate_to_chat_id"`
		} `json:"parameters"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("telegram: non-JSON response: %w", err)
	}
	if body.OK {
		return "", nil
	}
	if body.Parameters.MigrateToChatID != 0 {
		return fmt.Sprintf("%d", body.Parameters.MigrateToChatID),
			fmt.Errorf("telegram: chat migrated: %s", body.Description)
	}
	return "", fmt.Errorf("telegram: %s", body.Description)
}

// truncate keeps messages under Telegram's 4096-character limit. The
// cut lands on a rune boundary so a multi-byte character is never
// split in half.
func truncate(text string) string {
	if len(text) <= telegramMaxLen {
		return text
	}
	const marker = "\n…(trimmed)"
	cut := telegramMaxLen - len(marker)
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + marker
}

// MapsLink renders a Google Maps link for a coordinate pair, used in
// order alerts.
func MapsLink(lat, lng float64) string {
	return fmt.Sprintf("https://www.google.com/maps?q=%v,%v", lat, lng)
}
