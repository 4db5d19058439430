// Package notify delivers watcher notifications to the admin chat.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	tele "gopkg.in/telebot.v3"
)

// Messenger sends messages to Telegram. *tele.Bot satisfies it.
type Messenger interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

type Notifier struct {
	out    Messenger
	chatID int64
	log    *slog.Logger
}

func New(out Messenger, chatID int64, log *slog.Logger) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	return &Notifier{out: out, chatID: chatID, log: log}
}

// Notify sends text to the admin chat. Delivery failures are logged and
// returned; callers in the watch loop ignore them.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := n.out.Send(tele.ChatID(n.chatID), text); err != nil {
		n.log.Error("failed to send notification", "chat_id", n.chatID, "error", err)
		return fmt.Errorf("send notification: %w", err)
	}
	n.log.Info("notification sent", "chat_id", n.chatID, "text", text)
	return nil
}
