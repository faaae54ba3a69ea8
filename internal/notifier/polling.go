package notifier

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// CommandHandler is called when a bot command is received and returns the
// reply, or "" for none.
type CommandHandler func(command string) string

// StartPolling long-polls for bot commands from the configured chat. Blocks
// until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := t.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			t.bot.StopReceivingUpdates()
			t.log.Info("telegram polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			msg := update.Message
			if msg == nil || !msg.IsCommand() || msg.Chat == nil || msg.Chat.ID != t.chatID {
				continue
			}
			command := strings.ToLower(strings.TrimSpace(msg.Command()))
			t.log.Info("received command", zap.String("command", command))
			if reply := handler(command); reply != "" {
				if err := t.Send(reply); err != nil {
					t.log.Error("send reply", zap.Error(err))
				}
			}
		}
	}
}
