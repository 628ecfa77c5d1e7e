package store

import (
	"context"
	"fmt"
	"time"

	"github.com/starford/pressmark/internal/apperr"
)

// AddFavorite records a like. The primary key on (article_id, username)
// is the sole race arbiter: a duplicate add, concurrent or not, is the
// idempotent no-op and keeps the original timestamp. Re-liking after an
// unlike inserts a fresh row with a fresh timestamp.
func (db *DB) AddFavorite(ctx context.Context, username, articleID string, at time.Time) error {
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO article_favorites (article_id, username, created_at) VALUES (?, ?, ?)
		ON CONFLICT(article_id, username) DO NOTHING`,
		articleID, username, at)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperr.ErrNotFound
		}
		return fmt.Errorf("store: add favorite: %w", err)
	}
	_ = res // zero rows affected means the favorite already existed
	return nil
}

// RemoveFavorite deletes the like if present; an absent relation is a
// no-op.
func (db *DB) RemoveFavorite(ctx context.Context, username, articleID string) error {
	if _, err := db.conn.ExecContext(ctx,
		`DELETE FROM article_favorites WHERE article_id = ? AND username = ?`, articleID, username); err != nil {
		return fmt.Errorf("store: remove favorite: %w", err)
	}
	return nil
}

// FavoriteCount recomputes the derived counter from the relation table.
func (db *DB) FavoriteCount(ctx context.Context, articleID string) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM article_favorites WHERE article_id = ?`, articleID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("store: favorite count: %w", err)
	}
	return n, nil
}
