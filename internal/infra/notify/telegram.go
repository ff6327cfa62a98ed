package notify

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram шлёт служебные уведомления в админский чат.
type Telegram struct {
	api       *tgbotapi.BotAPI
	log       *slog.Logger
	adminChat int64
}

func NewTelegram(token string, adminChatID int64, log *slog.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{api: api, log: log, adminChat: adminChatID}, nil
}

func (t *Telegram) LowBalance(_ context.Context, client, serviceType string, left int) error {
	text := fmt.Sprintf("Абонемент истекает: %s, «%s», осталось занятий: %d", client, serviceType, left)
	msg := tgbotapi.NewMessage(t.adminChat, text)
	if _, err := t.api.Send(msg); err != nil {
		return err
	}
	t.log.Debug("low balance notification sent", "client", client, "left", left)
	return nil
}
