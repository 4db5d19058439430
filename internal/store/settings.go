package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// Setting returns the raw value stored under key, or ErrNotFound.
func (d *DB) Setting(ctx context.Context, key string) (string, error) {
	var value string
	err := d.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("setting %s: %w", key, err)
	}
	return value, nil
}

// FloatSetting parses the value under key. Missing or unparsable values
// yield fallback.
func (d *DB) FloatSetting(ctx context.Context, key string, fallback float64) (float64, error) {
	raw, err := d.Setting(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return fallback, nil
	}
	if err != nil {
		return fallback, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v == 0 {
		return fallback, nil
	}
	return v, nil
}

// SetSetting stores value under key.
func (d *DB) SetSetting(ctx context.Context, key, value string) error {
	_, err := d.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
