package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/starford/pressmark/internal/apperr"
	"github.com/starford/pressmark/internal/models"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// articleColumns selects one article row plus the derived favorite
// fields. The first placeholder is the viewer username; an empty viewer
// never matches a favorite row.
const articleColumns = `
	a.id, a.slug, a.title, a.description, a.body, a.author, a.read_count,
	a.created_at, a.updated_at,
	(SELECT COUNT(*) FROM article_favorites f WHERE f.article_id = a.id),
	EXISTS (SELECT 1 FROM article_favorites f WHERE f.article_id = a.id AND f.username = ?)`

// orderClause dispatches the closed sort enum to a dedicated ordering.
// Every mode ends with the article id so pagination is stable across
// pages even when the primary key ties.
func orderClause(mode models.SortMode) (string, error) {
	switch mode {
	case models.SortRecent, "":
		return "ORDER BY a.updated_at DESC, a.id ASC", nil
	case models.SortTitle:
		return "ORDER BY a.title ASC, a.id ASC", nil
	case models.SortTagCount:
		return "ORDER BY (SELECT COUNT(*) FROM article_tags at WHERE at.article_id = a.id) DESC, a.updated_at DESC, a.id ASC", nil
	}
	return "", fmt.Errorf("store: unknown sort mode %q: %w", mode, apperr.ErrValidation)
}

// ListArticles returns one page of articles matching the query plus the
// total matching count computed before windowing. The feed mode
// restricts the candidate set by the social graph; FeedFollowed uses
// the viewer's follow edges.
func (db *DB) ListArticles(ctx context.Context, q models.ArticleQuery, viewer string, feed models.FeedMode) ([]models.Article, int, error) {
	where := []string{}
	args := []any{}

	if q.Author != "" {
		where = append(where, "a.author = ?")
		args = append(args, q.Author)
	}
	if q.Tag != "" {
		where = append(where, "EXISTS (SELECT 1 FROM article_tags at WHERE at.article_id = a.id AND at.tag_id = ?)")
		args = append(args, q.Tag)
	}

	switch feed {
	case models.FeedNone:
	case models.FeedAnyFollowers:
		where = append(where, "EXISTS (SELECT 1 FROM user_links ul WHERE ul.username = a.author)")
	case models.FeedFollowed:
		where = append(where, "EXISTS (SELECT 1 FROM user_links ul WHERE ul.username = a.author AND ul.follower_username = ?)")
		args = append(args, viewer)
	default:
		return nil, 0, fmt.Errorf("store: unknown feed mode %q: %w", feed, apperr.ErrValidation)
	}

	order, err := orderClause(q.Sort)
	if err != nil {
		return nil, 0, err
	}

	// One read transaction so the count and the page see the same snapshot.
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // read-only on failure path

	total, err := countArticles(ctx, tx, where, args)
	if err != nil {
		return nil, 0, err
	}

	page, err := queryArticlePage(ctx, tx, where, args, order, q.Limit, q.Offset, viewer)
	if err != nil {
		return nil, 0, err
	}
	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("store: commit: %w", err)
	}
	return page, total, nil
}

func countArticles(ctx context.Context, q queryer, where []string, args []any) (int, error) {
	query := "SELECT COUNT(*) FROM articles a" + whereSQL(where)
	var total int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("store: count articles: %w", err)
	}
	return total, nil
}

// queryArticlePage runs the windowed select and hydrates tags and
// images for every row. SQLite treats LIMIT -1 as "no limit", which is
// exactly the unbounded-page sentinel.
func queryArticlePage(ctx context.Context, q queryer, where []string, args []any, order string, limit, offset int, viewer string) ([]models.Article, error) {
	query := "SELECT" + articleColumns + " FROM articles a" + whereSQL(where) + " " + order + " LIMIT ? OFFSET ?"

	full := make([]any, 0, len(args)+3)
	full = append(full, viewer)
	full = append(full, args...)
	full = append(full, limit, offset)

	rows, err := q.QueryContext(ctx, query, full...)
	if err != nil {
		return nil, fmt.Errorf("store: select articles: %w", err)
	}
	defer rows.Close()

	page := []models.Article{}
	for rows.Next() {
		var a models.Article
		if err := rows.Scan(&a.ID, &a.Slug, &a.Title, &a.Description, &a.Body, &a.Author,
			&a.ReadCount, &a.CreatedAt, &a.UpdatedAt, &a.FavoritesCount, &a.Favorited); err != nil {
			return nil, fmt.Errorf("store: scan article: %w", err)
		}
		page = append(page, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate articles: %w", err)
	}

	for i := range page {
		if err := hydrateArticle(ctx, q, &page[i]); err != nil {
			return nil, err
		}
	}
	return page, nil
}

func whereSQL(where []string) string {
	if len(where) == 0 {
		return ""
	}
	out := " WHERE " + where[0]
	for _, w := range where[1:] {
		out += " AND " + w
	}
	return out
}

// hydrateArticle loads the tag set and the ordered image URLs.
func hydrateArticle(ctx context.Context, q queryer, a *models.Article) error {
	tags, err := stringColumn(ctx, q,
		`SELECT tag_id FROM article_tags WHERE article_id = ? ORDER BY tag_id`, a.ID)
	if err != nil {
		return fmt.Errorf("store: article tags: %w", err)
	}
	images, err := stringColumn(ctx, q,
		`SELECT url FROM article_images WHERE article_id = ? ORDER BY position, id`, a.ID)
	if err != nil {
		return fmt.Errorf("store: article images: %w", err)
	}
	a.Tags = tags
	a.Images = images
	return nil
}

func stringColumn(ctx context.Context, q queryer, query string, args ...any) ([]string, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetArticleBySlug loads one article for full display. When countRead
// is set the read counter is bumped with an atomic in-place increment
// inside the same transaction as the row fetch, so concurrent readers
// never lose updates.
func (db *DB) GetArticleBySlug(ctx context.Context, slug, viewer string, countRead bool) (*models.Article, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if countRead {
		res, err := tx.ExecContext(ctx, `UPDATE articles SET read_count = read_count + 1 WHERE slug = ?`, slug)
		if err != nil {
			return nil, fmt.Errorf("store: bump read count: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, apperr.ErrNotFound
		}
	}

	page, err := queryArticlePage(ctx, tx, []string{"a.slug = ?"}, []any{slug}, "", 1, 0, viewer)
	if err != nil {
		return nil, err
	}
	if len(page) == 0 {
		return nil, apperr.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: commit: %w", err)
	}
	return &page[0], nil
}

// ArticleIDBySlug resolves a slug to the article id.
func (db *DB) ArticleIDBySlug(ctx context.Context, slug string) (string, error) {
	var id string
	err := db.conn.QueryRowContext(ctx, `SELECT id FROM articles WHERE slug = ?`, slug).Scan(&id)
	if err == sql.ErrNoRows {
		return "", apperr.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("store: id by slug: %w", err)
	}
	return id, nil
}

// CreateArticle inserts the article, its tag associations, and its
// image rows in one transaction. A duplicate slug surfaces as a
// conflict.
func (db *DB) CreateArticle(ctx context.Context, a *models.Article) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO articles (id, slug, title, description, body, author, read_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		a.ID, a.Slug, a.Title, a.Description, a.Body, a.Author, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("store: slug %q taken: %w", a.Slug, apperr.ErrConflict)
		}
		return fmt.Errorf("store: insert article: %w", err)
	}

	if err := replaceTags(ctx, tx, a.ID, a.Tags); err != nil {
		return err
	}
	if err := insertImages(ctx, tx, a.ID, a.Images); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateArticle rewrites the mutable fields and replaces the tag set.
func (db *DB) UpdateArticle(ctx context.Context, a *models.Article) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `
		UPDATE articles SET slug = ?, title = ?, description = ?, body = ?, updated_at = ?
		WHERE id = ?`,
		a.Slug, a.Title, a.Description, a.Body, a.UpdatedAt, a.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("store: slug %q taken: %w", a.Slug, apperr.ErrConflict)
		}
		return fmt.Errorf("store: update article: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM article_tags WHERE article_id = ?`, a.ID); err != nil {
		return fmt.Errorf("store: clear tags: %w", err)
	}
	if err := replaceTags(ctx, tx, a.ID, a.Tags); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteArticle removes the article; images, tag associations,
// favorites, and comments go with it via cascade.
func (db *DB) DeleteArticle(ctx context.Context, slug string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM articles WHERE slug = ?`, slug)
	if err != nil {
		return fmt.Errorf("store: delete article: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// AddArticleImage appends an image URL at the end of the article's
// image list.
func (db *DB) AddArticleImage(ctx context.Context, articleID, imageID, url string) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO article_images (id, article_id, url, position)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM article_images WHERE article_id = ?))`,
		imageID, articleID, url, articleID)
	if err != nil {
		return fmt.Errorf("store: add image: %w", err)
	}
	return nil
}

func replaceTags(ctx context.Context, tx *sql.Tx, articleID string, tags []string) error {
	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO tags (id) VALUES (?)`, tag); err != nil {
			return fmt.Errorf("store: upsert tag: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO article_tags (article_id, tag_id) VALUES (?, ?)`, articleID, tag); err != nil {
			return fmt.Errorf("store: attach tag: %w", err)
		}
	}
	return nil
}

func insertImages(ctx context.Context, tx *sql.Tx, articleID string, urls []string) error {
	for i, url := range urls {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO article_images (id, article_id, url, position) VALUES (?, ?, ?, ?)`,
			uuid.NewString(), articleID, url, i); err != nil {
			return fmt.Errorf("store: insert image: %w", err)
		}
	}
	return nil
}
