package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/starford/pressmark/internal/models"
)

// keywordPredicate matches when the (lowercase-folded) keyword is a
// substring of the title, the body, or any attached tag id. golower is
// the Go-backed fold registered in Open; both sides must fold with the
// same rules or non-ASCII keywords never match.
const keywordPredicate = `(instr(golower(a.title), ?) > 0
	OR instr(golower(a.body), ?) > 0
	OR EXISTS (SELECT 1 FROM article_tags at WHERE at.article_id = a.id AND instr(golower(at.tag_id), ?) > 0))`

// SearchArticles runs one search request as a single transaction: the
// conjunctive keyword match, the pre-window total, the page select, and
// the keyword counter upserts all commit together or not at all. The
// counter mutations never influence which articles match.
func (db *DB) SearchArticles(ctx context.Context, q models.SearchQuery) ([]models.Article, int, []models.SearchCount, error) {
	keywords := q.Keywords()

	where := make([]string, 0, len(keywords))
	args := make([]any, 0, len(keywords)*3)
	for _, kw := range keywords {
		folded := strings.ToLower(kw)
		where = append(where, keywordPredicate)
		args = append(args, folded, folded, folded)
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // all-or-nothing on any failure

	total, err := countArticles(ctx, tx, where, args)
	if err != nil {
		return nil, 0, nil, err
	}

	page, err := queryArticlePage(ctx, tx, where, args, "ORDER BY a.updated_at DESC, a.id ASC", q.Limit, q.Offset, "")
	if err != nil {
		return nil, 0, nil, err
	}

	counters, err := upsertKeywordCounts(ctx, tx, keywords)
	if err != nil {
		return nil, 0, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, nil, fmt.Errorf("store: commit search: %w", err)
	}
	return page, total, counters, nil
}
