package watcher

import (
	"context"
	"fmt"
	"log/slog"
)

// CheckPrices fetches quotes for all watched coins, records prices, sends
// threshold alerts and runs run detection per coin.
func (w *Watcher) CheckPrices(ctx context.Context) error {
	return w.checkPrices(ctx, w.log)
}

func (w *Watcher) checkPrices(ctx context.Context, log *slog.Logger) error {
	coins, err := w.db.Coins(ctx)
	if err != nil {
		return err
	}
	if len(coins) == 0 {
		log.Info("no coins to watch")
		return nil
	}

	quotes, err := w.market.Prices(ctx, coinIDs(coins))
	if err != nil {
		log.Error("error fetching price data", "error", err)
		w.send(ctx, fmt.Sprintf("Fehler beim Abrufen der Preisdaten: %v", err))
		return err
	}

	now := w.now()
	for _, coin := range coins {
		q, ok := quotes[coin.ID]
		if !ok || q.Change24h == nil {
			continue
		}

		if q.Price != nil && *q.Price != 0 {
			if err := w.db.RecordPrice(ctx, coin.ID, *q.Price, now); err != nil {
				log.Error("error saving price", "coin_id", coin.ID, "error", err)
			}
		}

		change := *q.Change24h
		if change >= coin.Threshold {
			w.send(ctx, fmt.Sprintf("%s ist um %.2f%% gestiegen!", Capitalize(coin.ID), change))
			log.Info("price increase detected", "coin_id", coin.ID, "change", change)
		}

		w.checkRun(ctx, log, coin.ID)
	}
	return nil
}

// CheckRun inspects the latest prices of coinID and notifies on a run.
func (w *Watcher) CheckRun(ctx context.Context, coinID string) {
	w.checkRun(ctx, w.log, coinID)
}

func (w *Watcher) checkRun(ctx context.Context, log *slog.Logger, coinID string) {
	settings, err := w.RunSettings(ctx)
	if err != nil {
		log.Error("error reading run settings", "coin_id", coinID, "error", err)
		return
	}

	prices, err := w.db.RecentPrices(ctx, coinID, settings.Periods)
	if err != nil {
		log.Error("error in run detection", "coin_id", coinID, "error", err)
		return
	}

	change, ok := DetectRun(prices, settings.Periods, settings.ThresholdPercent)
	if !ok {
		return
	}
	w.send(ctx, fmt.Sprintf("🚀 %s hat einen Run von %.2f%% über die letzten %d Intervalle erreicht!",
		Capitalize(coinID), change, settings.Periods))
	log.Info("run detected", "coin_id", coinID, "change", change)
}

// DetectRun reports whether the latest periods samples (newestFirst[0] is
// the newest) rise strictly from oldest to newest with a total gain of at
// least thresholdPercent. It returns the total gain in percent.
func DetectRun(newestFirst []float64, periods int, thresholdPercent float64) (float64, bool) {
	if periods <= 0 || len(newestFirst) < periods {
		return 0, false
	}
	window := newestFirst[:periods]

	for i := 0; i < len(window)-1; i++ {
		if window[i] <= window[i+1] {
			return 0, false
		}
	}

	newest, oldest := window[0], window[len(window)-1]
	if oldest <= 0 {
		return 0, false
	}
	change := (newest - oldest) / oldest * 100
	return change, change >= thresholdPercent
}

// CheckNews forwards news posts about watched coins that were not sent
// before.
func (w *Watcher) CheckNews(ctx context.Context) error {
	return w.checkNews(ctx, w.log)
}

func (w *Watcher) checkNews(ctx context.Context, log *slog.Logger) error {
	if !w.opts.NewsEnabled {
		return nil
	}
	coins, err := w.db.Coins(ctx)
	if err != nil {
		return err
	}
	if len(coins) == 0 {
		log.Info("no coins to watch for news")
		return nil
	}

	items, err := w.market.News(ctx, coinIDs(coins))
	if err != nil {
		return err
	}

	sent := 0
	for _, item := range items {
		if item.URL != "" {
			fresh, err := w.db.MarkNewsSeen(ctx, item.URL)
			if err != nil {
				log.Error("error recording news", "url", item.URL, "error", err)
				continue
			}
			if !fresh {
				continue
			}
		}
		w.send(ctx, fmt.Sprintf("🔔 Neue Nachricht: %s\n%s", item.Title, item.URL))
		sent++
	}
	if sent > 0 {
		log.Info("news sent", "count", sent)
	}
	return nil
}
