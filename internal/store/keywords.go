package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/starford/pressmark/internal/models"
)

// upsertKeywordCounts bumps the counter row for every token occurrence:
// a query of "a a" increments "a" twice. The insert-or-increment is a
// single conditional statement keyed on the keyword, so concurrent
// identical searches cannot lose updates. Counters are lowercase-folded
// and never decremented.
func upsertKeywordCounts(ctx context.Context, q queryer, keywords []string) ([]models.SearchCount, error) {
	seen := make(map[string]struct{}, len(keywords))
	distinct := make([]string, 0, len(keywords))

	for _, kw := range keywords {
		folded := strings.ToLower(kw)
		if _, err := q.ExecContext(ctx, `
			INSERT INTO search_counts (keyword, count) VALUES (?, 1)
			ON CONFLICT(keyword) DO UPDATE SET count = count + 1`, folded); err != nil {
			return nil, fmt.Errorf("store: upsert keyword %q: %w", folded, err)
		}
		if _, ok := seen[folded]; !ok {
			seen[folded] = struct{}{}
			distinct = append(distinct, folded)
		}
	}

	// Read the refreshed rows back for observability.
	out := make([]models.SearchCount, 0, len(distinct))
	for _, kw := range distinct {
		var sc models.SearchCount
		if err := q.QueryRowContext(ctx,
			`SELECT keyword, count FROM search_counts WHERE keyword = ?`, kw).Scan(&sc.Keyword, &sc.Count); err != nil {
			return nil, fmt.Errorf("store: read keyword %q: %w", kw, err)
		}
		out = append(out, sc)
	}
	return out, nil
}

// TopKeywords returns every counter with at least minCount occurrences,
// most searched first.
func (db *DB) TopKeywords(ctx context.Context, minCount int) ([]models.SearchCount, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT keyword, count FROM search_counts WHERE count >= ? ORDER BY count DESC, keyword ASC`, minCount)
	if err != nil {
		return nil, fmt.Errorf("store: top keywords: %w", err)
	}
	defer rows.Close()

	out := []models.SearchCount{}
	for rows.Next() {
		var sc models.SearchCount
		if err := rows.Scan(&sc.Keyword, &sc.Count); err != nil {
			return nil, fmt.Errorf("store: scan keyword: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}
