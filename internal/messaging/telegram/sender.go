// Package telegram delivers notifications as Telegram bot messages.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/Freeeeeet/glee_portal/internal/messaging"
)

// messageAPI is the part of *bot.Bot the sender needs.
type messageAPI interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

type Sender struct {
	api messageAPI
}

// NewSender connects a bot with token. Updates are never polled.
func NewSender(token string, opts ...bot.Option) (*Sender, error) {
	b, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &Sender{api: b}, nil
}

// Send posts msg.Text to the chat id in to.
func (s *Sender) Send(ctx context.Context, to string, msg messaging.Message) (string, error) {
	chatID, err := strconv.ParseInt(to, 10, 64)
	if err != nil {
		return "", messaging.RejectRecipient(fmt.Errorf("invalid chat id %q", to))
	}

	sent, err := s.api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   msg.Text,
	})
	if err != nil {
		err = fmt.Errorf("send telegram message: %w", err)
		// unknown chat, or the user blocked the bot
		if errors.Is(err, bot.ErrorBadRequest) || errors.Is(err, bot.ErrorForbidden) {
			return "", messaging.RejectRecipient(err)
		}
		return "", err
	}

	return strconv.Itoa(sent.ID), nil
}
