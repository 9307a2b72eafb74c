package telegramNotifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amanmoon/my-stocks/utils"
	tele "gopkg.in/telebot.v4"
)

var kindEmoji = map[string]string{
	"alert": "🔔",
	"trade": "✅",
}

// TelegramNotifier delivers notifications as messages to a single
// configured chat.
type TelegramNotifier struct {
	bot    *tele.Bot
	chatID int64
}

func New(bot *tele.Bot, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, chatID: chatID}
}

func (n *TelegramNotifier) Notify(ctx context.Context, title, body, kind string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	emoji, ok := kindEmoji[kind]
	if !ok {
		emoji = "ℹ️"
	}

	_, err := n.bot.Send(tele.ChatID(n.chatID), fmt.Sprintf("%s %s\n%s", emoji, title, body))
	if err != nil {
		slog.Error("can't send notification", slog.String("rqID", rqID), slog.String("kind", kind), slog.String("err", err.Error()))
		return err
	}

	slog.Debug("notification sent", slog.String("rqID", rqID), slog.String("kind", kind), slog.String("title", title))
	return nil
}
