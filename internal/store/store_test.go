package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/starford/pressmark/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "pressmark-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedUser(t *testing.T, db *DB, username string) {
	t.Helper()
	err := db.CreateUser(context.Background(), &models.User{
		Username: username,
		Email:    username + "@example.com",
	})
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", username, err)
	}
}

// seedArticle inserts an article with an explicit update time so ordering
// assertions stay deterministic.
func seedArticle(t *testing.T, db *DB, author, slug, title, body string, at time.Time, tags ...string) *models.Article {
	t.Helper()
	a := &models.Article{
		ID:        uuid.NewString(),
		Slug:      slug,
		Title:     title,
		Body:      body,
		Author:    author,
		Tags:      tags,
		CreatedAt: at,
		UpdatedAt: at,
	}
	if err := db.CreateArticle(context.Background(), a); err != nil {
		t.Fatalf("CreateArticle(%s): %v", slug, err)
	}
	return a
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	for _, table := range []string{"users", "articles", "article_tags", "article_favorites", "user_links", "search_counts", "comments"} {
		var count int
		if err := db.conn.QueryRow(`SELECT count(*) FROM ` + table).Scan(&count); err != nil {
			t.Fatalf("%s table missing: %v", table, err)
		}
	}
}
