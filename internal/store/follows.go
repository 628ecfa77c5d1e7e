package store

import (
	"context"
	"fmt"

	"github.com/starford/pressmark/internal/apperr"
)

// Follow records a follow edge. At most one edge exists per ordered
// pair; a duplicate follow is a no-op.
func (db *DB) Follow(ctx context.Context, username, follower string) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO user_links (username, follower_username) VALUES (?, ?)
		ON CONFLICT(username, follower_username) DO NOTHING`,
		username, follower)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperr.ErrNotFound
		}
		return fmt.Errorf("store: follow: %w", err)
	}
	return nil
}

// Unfollow removes the edge; an absent edge is a no-op.
func (db *DB) Unfollow(ctx context.Context, username, follower string) error {
	if _, err := db.conn.ExecContext(ctx,
		`DELETE FROM user_links WHERE username = ? AND follower_username = ?`, username, follower); err != nil {
		return fmt.Errorf("store: unfollow: %w", err)
	}
	return nil
}

// IsFollowing reports whether follower follows username.
func (db *DB) IsFollowing(ctx context.Context, username, follower string) (bool, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_links WHERE username = ? AND follower_username = ?`,
		username, follower).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("store: is following: %w", err)
	}
	return n > 0, nil
}
