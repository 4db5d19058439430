// Package watcher runs the periodic price, run and news checks for the
// watched coins and reports findings to the admin chat.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/eliseohh/coinwatcherbot/internal/market"
	"github.com/eliseohh/coinwatcherbot/internal/store"
)

// Run detection defaults used when the settings table has no usable value.
const (
	DefaultRunThresholdPercent = 10
	DefaultRunPeriods          = 5
)

type Store interface {
	UpsertCoin(ctx context.Context, coinID string, threshold float64) error
	RemoveCoin(ctx context.Context, coinID string) (bool, error)
	Coins(ctx context.Context) ([]store.Coin, error)
	RecordPrice(ctx context.Context, coinID string, price float64, at time.Time) error
	RecentPrices(ctx context.Context, coinID string, n int) ([]float64, error)
	PrunePrices(ctx context.Context, before time.Time) (int64, error)
	FloatSetting(ctx context.Context, key string, fallback float64) (float64, error)
	SetSetting(ctx context.Context, key, value string) error
	MarkNewsSeen(ctx context.Context, url string) (bool, error)
}

type Market interface {
	Prices(ctx context.Context, coinIDs []string) (map[string]market.Quote, error)
	News(ctx context.Context, coinIDs []string) ([]market.NewsItem, error)
}

type Notifier interface {
	Notify(ctx context.Context, text string) error
}

type Options struct {
	Interval    time.Duration
	Retention   time.Duration // 0 keeps all price history
	NewsEnabled bool
}

type Watcher struct {
	db     Store
	market Market
	notify Notifier
	opts   Options
	log    *slog.Logger
	now    func() time.Time
}

func New(db Store, m Market, n Notifier, opts Options, log *slog.Logger) *Watcher {
	if log == nil {
		log = slog.Default()
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Hour
	}
	return &Watcher{db: db, market: m, notify: n, opts: opts, log: log, now: time.Now}
}

// RunSettings controls run detection.
type RunSettings struct {
	ThresholdPercent float64
	Periods          int
}

// AddCoin starts watching coinID (or updates its threshold) and tells the
// admin chat about it.
func (w *Watcher) AddCoin(ctx context.Context, coinID string, threshold float64) error {
	if err := w.db.UpsertCoin(ctx, coinID, threshold); err != nil {
		w.log.Error("error adding coin", "coin_id", coinID, "error", err)
		return err
	}
	w.send(ctx, fmt.Sprintf("%s zur Überwachung hinzugefügt mit Schwelle %s%%.", Capitalize(coinID), FormatNumber(threshold)))
	w.log.Info("coin added", "coin_id", coinID, "threshold", threshold)
	return nil
}

// RemoveCoin stops watching coinID.
func (w *Watcher) RemoveCoin(ctx context.Context, coinID string) error {
	removed, err := w.db.RemoveCoin(ctx, coinID)
	if err != nil {
		w.log.Error("error removing coin", "coin_id", coinID, "error", err)
		return err
	}
	w.send(ctx, fmt.Sprintf("%s aus der Überwachung entfernt.", Capitalize(coinID)))
	w.log.Info("coin removed", "coin_id", coinID, "existed", removed)
	return nil
}

func (w *Watcher) Coins(ctx context.Context) ([]store.Coin, error) {
	return w.db.Coins(ctx)
}

// RunSettings reads the run detection settings, falling back to defaults.
func (w *Watcher) RunSettings(ctx context.Context) (RunSettings, error) {
	threshold, err := w.db.FloatSetting(ctx, store.KeyRunThresholdPercent, DefaultRunThresholdPercent)
	if err != nil {
		return RunSettings{}, err
	}
	periods, err := w.db.FloatSetting(ctx, store.KeyRunConsecutivePeriods, DefaultRunPeriods)
	if err != nil {
		return RunSettings{}, err
	}
	return RunSettings{ThresholdPercent: threshold, Periods: int(periods)}, nil
}

func (w *Watcher) SetRunThreshold(ctx context.Context, percent float64) error {
	if math.IsNaN(percent) || math.IsInf(percent, 0) || percent <= 0 {
		return fmt.Errorf("run threshold must be a positive number, got %v", percent)
	}
	return w.setSetting(ctx, store.KeyRunThresholdPercent, FormatNumber(percent))
}

func (w *Watcher) SetRunPeriods(ctx context.Context, periods int) error {
	if periods <= 0 {
		return fmt.Errorf("run periods must be positive, got %d", periods)
	}
	return w.setSetting(ctx, store.KeyRunConsecutivePeriods, strconv.Itoa(periods))
}

func (w *Watcher) setSetting(ctx context.Context, key, value string) error {
	if err := w.db.SetSetting(ctx, key, value); err != nil {
		w.log.Error("error setting config", "key", key, "error", err)
		return err
	}
	w.log.Info("configuration updated", "key", key, "value", value)
	return nil
}

// Start runs a cycle immediately and then one per interval until ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	w.log.Info("watcher started", "interval", w.opts.Interval)
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("watcher stopped")
			return ctx.Err()
		case <-timer.C:
			w.Cycle(ctx)
			timer.Reset(w.opts.Interval)
		}
	}
}

// Cycle checks prices, then news, then prunes old price history. Errors
// are logged and never abort the cycle.
func (w *Watcher) Cycle(ctx context.Context) {
	log := w.log.With("cycle_id", uuid.NewString())
	start := w.now()

	if err := w.checkPrices(ctx, log); err != nil {
		log.Error("price check failed", "error", err)
	}
	if err := w.checkNews(ctx, log); err != nil {
		log.Error("news check failed", "error", err)
	}
	if w.opts.Retention > 0 {
		n, err := w.db.PrunePrices(ctx, w.now().Add(-w.opts.Retention))
		if err != nil {
			log.Error("price history prune failed", "error", err)
		} else if n > 0 {
			log.Info("pruned price history", "rows", n)
		}
	}

	log.Debug("cycle finished", "took", time.Since(start))
}

func (w *Watcher) send(ctx context.Context, text string) {
	// failures are logged by the notifier
	_ = w.notify.Notify(ctx, text)
}

func coinIDs(coins []store.Coin) []string {
	ids := make([]string, len(coins))
	for i, c := range coins {
		ids[i] = c.ID
	}
	return ids
}
