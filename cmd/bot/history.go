package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <coin_id>",
		Short: "Print recorded prices of a coin, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive")
			}
			db, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			coinID := strings.ToLower(args[0])
			points, err := db.PriceHistory(cmd.Context(), coinID, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(points) == 0 {
				fmt.Fprintf(out, "No prices recorded for %s.\n", coinID)
				return nil
			}
			for _, p := range points {
				fmt.Fprintf(out, "%s  %.8g\n", p.RecordedAt.Format(time.RFC3339), p.Price)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of samples")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer db.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "Schema up to date.")
			return nil
		},
	}
}
