package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v3"
)

// ErrFloodControl is returned when Telegram still rate limits a send after
// the single retry.
var ErrFloodControl = errors.New("telegram flood control")

// broadcast sends text to every non-admin user. Failed recipients are
// logged and skipped.
func (b *Bot) broadcast(ctx context.Context, c tele.Context, text string) error {
	if text == "" {
		return c.Send(fmt.Sprintf(msgBroadcastFailed, msgEmptyBroadcast))
	}

	recipients, err := b.users.NonAdminUsers(ctx)
	if err != nil {
		return c.Send(fmt.Sprintf(msgBroadcastFailed, err))
	}
	if len(recipients) == 0 {
		return c.Send(msgNoRecipients)
	}

	delivered := 0
	for _, id := range recipients {
		if err := b.sendThrottled(ctx, id, text); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			b.log.Error("broadcast delivery failed", "user_id", id, "error", err)
			continue
		}
		delivered++
	}

	b.log.Info("broadcast sent", "recipients", len(recipients), "delivered", delivered)
	return c.Send(msgBroadcastDone)
}

// sendThrottled waits for the rate limiter, sends, and on flood control
// waits the requested time and retries once.
func (b *Bot) sendThrottled(ctx context.Context, userID int64, text string) error {
	if err := b.limiter.Wait(ctx); err != nil {
		return err
	}

	_, err := b.out.Send(tele.ChatID(userID), text)

	var flood tele.FloodError
	if !errors.As(err, &flood) {
		return err
	}

	wait := time.Duration(flood.RetryAfter) * time.Second
	b.log.Warn("flood control, backing off", "user_id", userID, "retry_after", wait)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
	}

	_, err = b.out.Send(tele.ChatID(userID), text)
	if errors.As(err, &flood) {
		return fmt.Errorf("%w: retry after %ds", ErrFloodControl, flood.RetryAfter)
	}
	return err
}
