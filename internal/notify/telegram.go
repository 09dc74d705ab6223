package notify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/UnknownOlympus/chronos/internal/i18n"
	"github.com/UnknownOlympus/chronos/internal/models"
	"gopkg.in/telebot.v4"
)

// Telegram posts leave events into the HR chat.
type Telegram struct {
	bot    *telebot.Bot
	chatID int64
	texts  texts
}

// TelegramConfig holds the bot settings. An empty URL uses the public Bot API.
type TelegramConfig struct {
	Token  string
	URL    string
	ChatID int64
	Lang   string
	Client *http.Client
}

// NewTelegram creates a send-only bot. It never polls for updates.
func NewTelegram(cfg TelegramConfig, localizer *i18n.Localizer) (*Telegram, error) {
	bot, err := telebot.NewBot(telebot.Settings{
		Token:   cfg.Token,
		URL:     cfg.URL,
		Client:  cfg.Client,
		Offline: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}

	return &Telegram{bot: bot, chatID: cfg.ChatID, texts: newTexts(localizer, cfg.Lang)}, nil
}

func (t *Telegram) LeaveSubmitted(ctx context.Context, leave models.LeaveRequest) error {
	return t.send(ctx, t.texts.submitted(leave))
}

func (t *Telegram) LeaveDecided(ctx context.Context, leave models.LeaveRequest) error {
	subject, _ := t.texts.decided(leave)
	return t.send(ctx, fmt.Sprintf("%s (%s)", subject, leave.EmployeeCode))
}

func (t *Telegram) send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := t.bot.Send(telebot.ChatID(t.chatID), text); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}
