package store

import (
	"context"
	"fmt"
	"time"
)

// MarkNewsSeen records url and reports true only the first time it is seen.
func (d *DB) MarkNewsSeen(ctx context.Context, url string) (bool, error) {
	res, err := d.ExecContext(ctx,
		"INSERT OR IGNORE INTO news_seen (url, seen_at) VALUES (?, ?)",
		url, time.Now().UnixMilli())
	if err != nil {
		return false, fmt.Errorf("mark news %s: %w", url, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
