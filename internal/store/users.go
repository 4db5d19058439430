package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// EnsureAdmin registers userID as admin, promoting an existing user.
func (d *DB) EnsureAdmin(ctx context.Context, userID int64) error {
	_, err := d.ExecContext(ctx, `
		INSERT INTO users (user_id, is_admin, registered_at) VALUES (?, 1, ?)
		ON CONFLICT(user_id) DO UPDATE SET is_admin = 1`,
		userID, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("ensure admin %d: %w", userID, err)
	}
	return nil
}

// RegisterUser records userID as a regular user unless already known.
func (d *DB) RegisterUser(ctx context.Context, userID int64) error {
	_, err := d.ExecContext(ctx,
		"INSERT OR IGNORE INTO users (user_id, is_admin, registered_at) VALUES (?, 0, ?)",
		userID, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("register user %d: %w", userID, err)
	}
	return nil
}

// IsAdmin reports whether userID is an admin. Unknown users are not.
func (d *DB) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	var admin int
	err := d.QueryRowContext(ctx, "SELECT is_admin FROM users WHERE user_id = ?", userID).Scan(&admin)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("is admin %d: %w", userID, err)
	}
	return admin == 1, nil
}

// NonAdminUsers lists every registered regular user.
func (d *DB) NonAdminUsers(ctx context.Context) ([]int64, error) {
	rows, err := d.QueryContext(ctx, "SELECT user_id FROM users WHERE is_admin = 0 ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
