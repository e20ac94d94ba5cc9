package notifier

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// CommandHandler is called when a user command is received and returns the
// single reply text, or "" for no reply.
type CommandHandler func(command string) string

// TelegramSink sends group messages via the Telegram Bot API. Destinations
// are chat ids.
type TelegramSink struct {
	bot *tgbotapi.BotAPI
}

func NewTelegramSink(botToken string) (*TelegramSink, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return &TelegramSink{bot: bot}, nil
}

func (t *TelegramSink) Name() string { return "telegram" }

func (t *TelegramSink) SendGroupMessage(_ context.Context, groupID int64, text string) error {
	if _, err := t.bot.Send(tgbotapi.NewMessage(groupID, text)); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// StartPolling long-polls for inbound commands and feeds them to the
// handler. Blocks until ctx is cancelled.
func (t *TelegramSink) StartPolling(ctx context.Context, handler CommandHandler) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := t.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			t.bot.StopReceivingUpdates()
			log.Println("[INFO] telegram polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			text := strings.TrimSpace(update.Message.Text)
			log.Printf("[INFO] received command: %s", text)
			reply := handler(text)
			if reply == "" {
				continue
			}
			if _, err := t.bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, reply)); err != nil {
				log.Printf("[ERROR] send reply: %v", err)
			}
		}
	}
}
