package store

import (
	"context"
	"fmt"
	"time"
)

// Coin is a watched coin and its 24h change alert threshold in percent.
type Coin struct {
	ID        string
	Threshold float64
	AddedAt   time.Time
}

// PricePoint is one recorded price sample.
type PricePoint struct {
	CoinID     string
	Price      float64
	RecordedAt time.Time
}

// UpsertCoin starts watching coinID or replaces its threshold.
func (d *DB) UpsertCoin(ctx context.Context, coinID string, threshold float64) error {
	_, err := d.ExecContext(ctx, `
		INSERT INTO coins (coin_id, threshold, added_at) VALUES (?, ?, ?)
		ON CONFLICT(coin_id) DO UPDATE SET threshold = excluded.threshold`,
		coinID, threshold, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("upsert coin %s: %w", coinID, err)
	}
	return nil
}

// RemoveCoin stops watching coinID. It reports whether a row was deleted.
func (d *DB) RemoveCoin(ctx context.Context, coinID string) (bool, error) {
	res, err := d.ExecContext(ctx, "DELETE FROM coins WHERE coin_id = ?", coinID)
	if err != nil {
		return false, fmt.Errorf("remove coin %s: %w", coinID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Coins lists all watched coins ordered by id.
func (d *DB) Coins(ctx context.Context) ([]Coin, error) {
	rows, err := d.QueryContext(ctx, "SELECT coin_id, threshold, added_at FROM coins ORDER BY coin_id")
	if err != nil {
		return nil, fmt.Errorf("list coins: %w", err)
	}
	defer rows.Close()

	var coins []Coin
	for rows.Next() {
		var c Coin
		var added int64
		if err := rows.Scan(&c.ID, &c.Threshold, &added); err != nil {
			return nil, err
		}
		c.AddedAt = time.UnixMilli(added)
		coins = append(coins, c)
	}
	return coins, rows.Err()
}

// RecordPrice appends a price sample.
func (d *DB) RecordPrice(ctx context.Context, coinID string, price float64, at time.Time) error {
	_, err := d.ExecContext(ctx,
		"INSERT INTO price_history (coin_id, recorded_at, price) VALUES (?, ?, ?)",
		coinID, at.UnixMilli(), price)
	if err != nil {
		return fmt.Errorf("record price %s: %w", coinID, err)
	}
	return nil
}

// RecentPrices returns up to n latest prices of coinID, newest first.
func (d *DB) RecentPrices(ctx context.Context, coinID string, n int) ([]float64, error) {
	points, err := d.PriceHistory(ctx, coinID, n)
	if err != nil {
		return nil, err
	}
	prices := make([]float64, len(points))
	for i, p := range points {
		prices[i] = p.Price
	}
	return prices, nil
}

// PriceHistory returns up to limit samples of coinID, newest first.
func (d *DB) PriceHistory(ctx context.Context, coinID string, limit int) ([]PricePoint, error) {
	rows, err := d.QueryContext(ctx, `
		SELECT price, recorded_at FROM price_history
		WHERE coin_id = ?
		ORDER BY recorded_at DESC, id DESC
		LIMIT ?`, coinID, limit)
	if err != nil {
		return nil, fmt.Errorf("price history %s: %w", coinID, err)
	}
	defer rows.Close()

	var points []PricePoint
	for rows.Next() {
		p := PricePoint{CoinID: coinID}
		var at int64
		if err := rows.Scan(&p.Price, &at); err != nil {
			return nil, err
		}
		p.RecordedAt = time.UnixMilli(at)
		points = append(points, p)
	}
	return points, rows.Err()
}

// PrunePrices deletes samples recorded before the cutoff.
func (d *DB) PrunePrices(ctx context.Context, before time.Time) (int64, error) {
	res, err := d.ExecContext(ctx, "DELETE FROM price_history WHERE recorded_at < ?", before.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune prices: %w", err)
	}
	return res.RowsAffected()
}
