// Package main is the CoinWatcher bot entry point. Without arguments it
// runs the bot; subcommands manage the watch list offline.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/eliseohh/coinwatcherbot/internal/bot"
	"github.com/eliseohh/coinwatcherbot/internal/config"
	"github.com/eliseohh/coinwatcherbot/internal/logging"
	"github.com/eliseohh/coinwatcherbot/internal/market"
	"github.com/eliseohh/coinwatcherbot/internal/notify"
	"github.com/eliseohh/coinwatcherbot/internal/store"
	"github.com/eliseohh/coinwatcherbot/internal/watcher"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "coinwatcher",
		Short: "Telegram bot watching crypto prices, runs and news",
		Long: `coinwatcher polls CoinGecko for the watched coins, alerts the admin chat
on 24h gains above each coin's threshold and on price runs, and forwards
CryptoPanic news. Configuration comes from the environment (or .env):
BOT_TOKEN and ADMIN_CHAT_ID are required.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd)
		},
	}

	root.PersistentFlags().String("db", "", "SQLite database path (default $DATABASE_PATH or coins.db)")

	root.AddCommand(newCoinsCmd(), newHistoryCmd(), newMigrateCmd())
	return root
}

func runBot(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if path, _ := cmd.Flags().GetString("db"); path != "" {
		cfg.DatabasePath = path
	}

	logger, closer := logging.New(cfg)
	defer closer.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return err
	}
	if err := db.EnsureAdmin(ctx, cfg.AdminChatID); err != nil {
		return err
	}

	mc := market.NewClient(cfg.PriceAPIURL, cfg.NewsAPIURL, cfg.NewsAPIKey, cfg.VSCurrency, cfg.HTTPTimeout, cfg.HTTPMaxRetries)

	botCfg := bot.Config{
		Token:         cfg.BotToken,
		PollTimeout:   cfg.PollTimeout,
		BroadcastRate: cfg.BroadcastRate,
	}
	api, err := bot.NewAPI(botCfg, logger)
	if err != nil {
		return err
	}

	n := notify.New(api, cfg.AdminChatID, logger)
	w := watcher.New(db, mc, n, watcher.Options{
		Interval:    cfg.CheckInterval(),
		Retention:   cfg.PriceHistoryRetention,
		NewsEnabled: cfg.NewsEnabled(),
	}, logger)
	b := bot.New(api, botCfg, db, w, logger)

	if !cfg.NewsEnabled() {
		logger.Warn("NEWS_API_KEY not set, news forwarding disabled")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return w.Start(gctx) })
	g.Go(func() error { return b.Start(gctx) })

	err = g.Wait()
	logger.Info("bot stopped")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// openStore opens and migrates the database named by --db, or else by
// DATABASE_PATH from the environment or .env, defaulting to coins.db.
func openStore(cmd *cobra.Command) (*store.DB, error) {
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		storage, err := config.LoadStorage(".env")
		if err != nil {
			return nil, err
		}
		path = storage.DatabasePath
	}

	db, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(cmd.Context()); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	slog.Debug("database ready", "path", path)
	return db, nil
}
