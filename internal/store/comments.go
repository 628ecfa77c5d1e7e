package store

import (
	"context"
	"fmt"

	"github.com/starford/pressmark/internal/apperr"
	"github.com/starford/pressmark/internal/models"
)

// AddComment attaches a comment to an article.
func (db *DB) AddComment(ctx context.Context, c *models.Comment) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO comments (id, article_id, author, body, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.ArticleID, c.Author, c.Body, c.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperr.ErrNotFound
		}
		return fmt.Errorf("store: add comment: %w", err)
	}
	return nil
}

// CommentsBySlug returns an article's comments, oldest first.
func (db *DB) CommentsBySlug(ctx context.Context, slug string) ([]models.Comment, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT c.id, c.article_id, c.author, c.body, c.created_at
		FROM comments c JOIN articles a ON a.id = c.article_id
		WHERE a.slug = ?
		ORDER BY c.created_at ASC, c.id ASC`, slug)
	if err != nil {
		return nil, fmt.Errorf("store: comments by slug: %w", err)
	}
	defer rows.Close()

	out := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.ArticleID, &c.Author, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan comment: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteComment removes one comment by id.
func (db *DB) DeleteComment(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete comment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
