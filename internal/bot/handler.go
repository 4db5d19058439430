package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v3"

	"github.com/eliseohh/coinwatcherbot/internal/store"
	"github.com/eliseohh/coinwatcherbot/internal/watcher"
)

// ErrInvalidInput marks admin input that could not be parsed.
var ErrInvalidInput = errors.New("invalid input")

// Messenger sends messages to Telegram. *tele.Bot satisfies it.
type Messenger interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

type Users interface {
	RegisterUser(ctx context.Context, userID int64) error
	IsAdmin(ctx context.Context, userID int64) (bool, error)
	NonAdminUsers(ctx context.Context) ([]int64, error)
}

type CoinWatcher interface {
	AddCoin(ctx context.Context, coinID string, threshold float64) error
	RemoveCoin(ctx context.Context, coinID string) error
	Coins(ctx context.Context) ([]store.Coin, error)
	SetRunThreshold(ctx context.Context, percent float64) error
	SetRunPeriods(ctx context.Context, periods int) error
}

type Bot struct {
	api      *tele.Bot
	out      Messenger
	users    Users
	watcher  CoinWatcher
	sessions *sessions
	limiter  *rate.Limiter
	log      *slog.Logger
}

type Config struct {
	Token         string
	PollTimeout   time.Duration
	BroadcastRate float64 // messages per second
}

// NewAPI creates the Telegram client with a long poller. Handler errors
// are logged.
func NewAPI(cfg Config, log *slog.Logger) (*tele.Bot, error) {
	if log == nil {
		log = slog.Default()
	}
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: cfg.PollTimeout},
		OnError: func(err error, c tele.Context) {
			if c != nil && c.Sender() != nil {
				log.Error("handler failed", "user_id", c.Sender().ID, "error", err)
				return
			}
			log.Error("telegram error", "error", err)
		},
	}

	api, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("telegram init failed: %w", err)
	}
	return api, nil
}

// New wraps api. Handlers are registered by Start.
func New(api *tele.Bot, cfg Config, users Users, w CoinWatcher, log *slog.Logger) *Bot {
	if log == nil {
		log = slog.Default()
	}
	if cfg.BroadcastRate <= 0 {
		cfg.BroadcastRate = 20
	}

	b := &Bot{
		api:      api,
		out:      api,
		users:    users,
		watcher:  w,
		sessions: newSessions(),
		limiter:  rate.NewLimiter(rate.Limit(cfg.BroadcastRate), 1),
		log:      log,
	}
	return b
}

// Start polls for updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	b.register(ctx)
	go func() {
		<-ctx.Done()
		b.api.Stop()
	}()

	b.log.Info("bot started", "username", b.api.Me.Username)
	b.api.Start()
	return nil
}

// register binds the handlers to the bot's lifetime context.
func (b *Bot) register(ctx context.Context) {
	handlers := map[string]func(context.Context, tele.Context) error{
		"/start":        b.handleStart,
		"/help":         b.handleHelp,
		tele.OnCallback: b.handleCallback,
		tele.OnText:     b.handleText,
	}
	for endpoint, h := range handlers {
		b.api.Handle(endpoint, func(c tele.Context) error { return h(ctx, c) })
	}
}

func (b *Bot) handleStart(ctx context.Context, c tele.Context) error {
	id := c.Sender().ID
	if err := b.users.RegisterUser(ctx, id); err != nil {
		return err
	}
	admin, err := b.users.IsAdmin(ctx, id)
	if err != nil {
		return err
	}
	b.log.Info("start", "user_id", id, "admin", admin)
	return c.Send(msgWelcome, mainMenu(admin))
}

func (b *Bot) handleHelp(ctx context.Context, c tele.Context) error {
	admin, err := b.users.IsAdmin(ctx, c.Sender().ID)
	if err != nil {
		return err
	}
	text := helpUser
	if admin {
		text = helpAdmin
	}
	return c.Send(text, &tele.SendOptions{ParseMode: tele.ModeMarkdown})
}

// handleCallback routes inline keyboard presses.
func (b *Bot) handleCallback(ctx context.Context, c tele.Context) error {
	if err := c.Respond(); err != nil {
		b.log.Warn("callback answer failed", "error", err)
	}

	id := c.Sender().ID
	data := strings.TrimSpace(c.Callback().Data)

	// listing is open to everyone
	if data == cbListCoins {
		return b.listCoins(ctx, c)
	}

	admin, err := b.users.IsAdmin(ctx, id)
	if err != nil {
		return err
	}
	if !admin {
		return c.Edit(msgNoPermission)
	}

	switch data {
	case cbAddCoin:
		b.sessions.Set(id, awaitAddCoin)
		return c.Edit(msgPromptAddCoin)
	case cbRemoveCoin:
		b.sessions.Set(id, awaitRemoveCoin)
		return c.Edit(msgPromptRemoveCoin)
	case cbConfigRun:
		return c.Edit(msgRunConfig, runConfigMenu())
	case cbSetRunThreshold:
		b.sessions.Set(id, awaitRunThreshold)
		return c.Edit(msgPromptRunThreshold)
	case cbSetRunPeriods:
		b.sessions.Set(id, awaitRunPeriods)
		return c.Edit(msgPromptRunPeriods)
	case cbMainMenu:
		return c.Edit(msgWelcome, mainMenu(true))
	case cbBroadcast:
		b.sessions.Set(id, awaitBroadcast)
		return c.Edit(msgPromptBroadcast)
	default:
		b.log.Warn("unknown callback", "user_id", id, "data", data)
		return nil
	}
}

func (b *Bot) listCoins(ctx context.Context, c tele.Context) error {
	coins, err := b.watcher.Coins(ctx)
	if err != nil {
		return err
	}
	if len(coins) == 0 {
		return c.Send(msgNoCoins)
	}

	lines := []string{msgCoinListHeader}
	for _, coin := range coins {
		lines = append(lines, fmt.Sprintf(msgCoinListItem, watcher.Capitalize(coin.ID), watcher.FormatNumber(coin.Threshold)))
	}
	return c.Send(strings.Join(lines, "\n"))
}

// handleText consumes the input an admin was prompted for. The pending
// state is cleared whatever the outcome. Unregistered commands also land
// here; they are ignored and leave the pending state alone.
func (b *Bot) handleText(ctx context.Context, c tele.Context) error {
	if strings.HasPrefix(c.Message().Text, "/") {
		return nil
	}

	id := c.Sender().ID
	if err := b.users.RegisterUser(ctx, id); err != nil {
		return err
	}
	admin, err := b.users.IsAdmin(ctx, id)
	if err != nil {
		return err
	}

	state := b.sessions.Take(id)
	if !admin {
		if state == awaitNothing {
			return c.Send(msgUseStart)
		}
		return c.Send(msgNoPermission)
	}

	text := strings.TrimSpace(c.Message().Text)
	switch state {
	case awaitAddCoin:
		return b.addCoin(ctx, c, text)
	case awaitRemoveCoin:
		return b.removeCoin(ctx, c, text)
	case awaitRunThreshold:
		return b.setRunThreshold(ctx, c, text)
	case awaitRunPeriods:
		return b.setRunPeriods(ctx, c, text)
	case awaitBroadcast:
		return b.broadcast(ctx, c, text)
	default:
		return c.Send(msgUseStart)
	}
}

func (b *Bot) addCoin(ctx context.Context, c tele.Context, text string) error {
	coinID, threshold, err := parseCoinInput(text)
	if err != nil {
		return c.Send(msgAddCoinFormat)
	}
	if err := b.watcher.AddCoin(ctx, coinID, threshold); err != nil {
		return c.Send(fmt.Sprintf(msgAddCoinFailed, err))
	}
	return c.Send(fmt.Sprintf(msgCoinAdded, watcher.Capitalize(coinID), watcher.FormatNumber(threshold)))
}

func (b *Bot) removeCoin(ctx context.Context, c tele.Context, text string) error {
	coinID := strings.ToLower(text)
	if err := b.watcher.RemoveCoin(ctx, coinID); err != nil {
		return c.Send(fmt.Sprintf(msgRemoveCoinFailed, err))
	}
	return c.Send(fmt.Sprintf(msgCoinRemoved, watcher.Capitalize(coinID)))
}

func (b *Bot) setRunThreshold(ctx context.Context, c tele.Context, text string) error {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || !isFinite(v) || v <= 0 {
		return c.Send(msgInvalidThreshold)
	}
	if err := b.watcher.SetRunThreshold(ctx, v); err != nil {
		return c.Send(fmt.Sprintf(msgSettingFailed, err))
	}
	return c.Send(fmt.Sprintf(msgRunThresholdSaved, watcher.FormatNumber(v)))
}

func (b *Bot) setRunPeriods(ctx context.Context, c tele.Context, text string) error {
	n, err := strconv.Atoi(text)
	if err != nil || n <= 0 {
		return c.Send(msgInvalidPeriods)
	}
	if err := b.watcher.SetRunPeriods(ctx, n); err != nil {
		return c.Send(fmt.Sprintf(msgSettingFailed, err))
	}
	return c.Send(fmt.Sprintf(msgRunPeriodsSaved, n))
}

// parseCoinInput parses "coin_id,threshold".
func parseCoinInput(text string) (string, float64, error) {
	parts := strings.Split(text, ",")
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("%w: expected coin_id,threshold", ErrInvalidInput)
	}
	coinID := strings.ToLower(strings.TrimSpace(parts[0]))
	if coinID == "" {
		return "", 0, fmt.Errorf("%w: empty coin id", ErrInvalidInput)
	}
	threshold, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !isFinite(threshold) {
		return "", 0, fmt.Errorf("%w: threshold %v", ErrInvalidInput, threshold)
	}
	return coinID, threshold, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
