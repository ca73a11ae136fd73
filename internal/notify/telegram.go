package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"marketplace-admin/internal/model"
	"marketplace-admin/internal/repository"
)

type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type BusinessChats interface {
	BusinessChatID(ctx context.Context, uuid string) (int64, error)
}

type UserChats interface {
	UserChatID(ctx context.Context, uid string) (int64, error)
}

// Telegram envía la notificación al chat registrado en el negocio o el usuario.
type Telegram struct {
	bot        Sender
	businesses BusinessChats
	users      UserChats
	log        *slog.Logger
}

func NewTelegram(bot Sender, businesses BusinessChats, users UserChats, log *slog.Logger) *Telegram {
	return &Telegram{bot: bot, businesses: businesses, users: users, log: log.With("component", "telegram")}
}

func (t *Telegram) chatID(ctx context.Context, n model.Notification) (int64, error) {
	switch n.Target {
	case model.TargetBusiness:
		return t.businesses.BusinessChatID(ctx, n.TargetID)
	case model.TargetUser:
		return t.users.UserChatID(ctx, n.TargetID)
	}
	return 0, fmt.Errorf("%w: unknown target %q", ErrPermanent, n.Target)
}

func (t *Telegram) Name() string { return "telegram" }

func (t *Telegram) Dispatch(ctx context.Context, n model.Notification) error {
	chatID, err := t.chatID(ctx, n)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s %s not found", ErrPermanent, n.Target, n.TargetID)
	}
	if err != nil {
		return err
	}
	if chatID == 0 {
		// sin chat vinculado no hay nada que enviar por este canal
		t.log.Debug("no telegram chat", "target", n.Target, "target_id", n.TargetID)
		return nil
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("%s\n\n%s", n.Title, n.Body))
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
