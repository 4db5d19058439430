package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eliseohh/coinwatcherbot/internal/watcher"
)

func newCoinsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coins",
		Short: "Manage the watch list without Telegram",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List watched coins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			coins, err := db.Coins(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(coins) == 0 {
				fmt.Fprintln(out, "No coins watched.")
				return nil
			}
			for _, c := range coins {
				fmt.Fprintf(out, "%-20s threshold %s%%\n", c.ID, watcher.FormatNumber(c.Threshold))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <coin_id> <threshold>",
		Short: "Watch a coin or change its 24h threshold (percent)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			coinID := strings.ToLower(strings.TrimSpace(args[0]))
			threshold, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid threshold %q: %w", args[1], err)
			}

			db, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.UpsertCoin(cmd.Context(), coinID, threshold); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s watched with threshold %s%%\n", coinID, watcher.FormatNumber(threshold))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <coin_id>",
		Short: "Stop watching a coin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coinID := strings.ToLower(strings.TrimSpace(args[0]))

			db, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			removed, err := db.RemoveCoin(cmd.Context(), coinID)
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("coin %s is not watched", coinID)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s removed\n", coinID)
			return nil
		},
	})

	return cmd
}
