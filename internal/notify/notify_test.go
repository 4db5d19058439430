package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

type fakeMessenger struct {
	to   []tele.Recipient
	sent []interface{}
	err  error
}

func (f *fakeMessenger) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.to = append(f.to, to)
	f.sent = append(f.sent, what)
	return &tele.Message{}, nil
}

func TestNotify(t *testing.T) {
	var buf bytes.Buffer
	out := &fakeMessenger{}
	n := New(out, 777, slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, n.Notify(context.Background(), "Bitcoin ist um 6.00% gestiegen!"))

	require.Len(t, out.sent, 1)
	assert.Equal(t, "777", out.to[0].Recipient())
	assert.Equal(t, "Bitcoin ist um 6.00% gestiegen!", out.sent[0])
	assert.Contains(t, buf.String(), "notification sent")
}

func TestNotify_Failure(t *testing.T) {
	var buf bytes.Buffer
	out := &fakeMessenger{err: errors.New("chat not found")}
	n := New(out, 777, slog.New(slog.NewTextHandler(&buf, nil)))

	err := n.Notify(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, buf.String(), "failed to send notification")
}

func TestNotify_CancelledContext(t *testing.T) {
	out := &fakeMessenger{}
	n := New(out, 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, n.Notify(ctx, "late"), context.Canceled)
	assert.Empty(t, out.sent)
}
