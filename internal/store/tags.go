package store

import (
	"context"
	"fmt"
	"time"

	"github.com/starford/pressmark/internal/apperr"
)

const (
	listTagsAttempts = 4
	listTagsBackoff  = 50 * time.Millisecond
)

// ListTags returns every known tag id. The read is retried with
// doubling backoff when the store reports lock contention; the wait is
// cancelled by the request context. Only this read-only query retries —
// counter mutations never do, to avoid double increments.
func (db *DB) ListTags(ctx context.Context) ([]string, error) {
	backoff := listTagsBackoff
	var lastErr error

	for attempt := 0; attempt < listTagsAttempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
			backoff *= 2
		}

		tags, err := stringColumn(ctx, db.conn, `SELECT id FROM tags ORDER BY id`)
		if err == nil {
			return tags, nil
		}
		if !isBusy(err) {
			return nil, fmt.Errorf("store: list tags: %w", err)
		}
		lastErr = err
	}
	return nil, fmt.Errorf("store: list tags after %d attempts: %v: %w", listTagsAttempts, lastErr, apperr.ErrUnavailable)
}
