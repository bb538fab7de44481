package notify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"marketbrief/internal/model"
)

const telegramMaxChars = 4096

// Sender is the part of *tgbotapi.BotAPI the notifier uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Telegram struct {
	sender Sender
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return NewTelegramWithSender(api, chatID), nil
}

func NewTelegramWithSender(sender Sender, chatID int64) *Telegram {
	return &Telegram{sender: sender, chatID: chatID}
}

// Notify sends the report as plain text, split to fit Telegram's limit.
func (t *Telegram) Notify(ctx context.Context, r *model.Report) error {
	for i, part := range Chunk(Format(r), telegramMaxChars) {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(t.chatID, part)
		msg.DisableWebPagePreview = true
		if _, err := t.sender.Send(msg); err != nil {
			return fmt.Errorf("telegram send part %d: %w", i+1, err)
		}
	}
	return nil
}

// Chunk splits text into pieces of at most max runes, breaking after a
// newline when one falls in the second half of a piece.
func Chunk(text string, max int) []string {
	if max <= 0 {
		return []string{text}
	}

	var parts []string
	runes := []rune(text)
	for len(runes) > max {
		cut := max
		if i := lastNewline(runes[:max]); i >= max/2 {
			cut = i + 1
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	if rest := string(runes); strings.TrimSpace(rest) != "" || len(parts) == 0 {
		parts = append(parts, rest)
	}
	return parts
}

func lastNewline(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == '\n' {
			return i
		}
	}
	return -1
}
