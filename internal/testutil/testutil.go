// Package testutil provides shared test helpers for setting up databases
// and seed data.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/starford/pressmark/internal/models"
	"github.com/starford/pressmark/internal/slug"
	"github.com/starford/pressmark/internal/storage"
	"github.com/starford/pressmark/internal/store"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "pressmark-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestBlobs creates a temporary blob directory with a storage.Provider.
func TestBlobs(t *testing.T) (string, storage.Provider) {
	t.Helper()
	blobDir := t.TempDir()
	blobs, err := storage.NewFS(blobDir, "/api/images")
	if err != nil {
		t.Fatal(err)
	}
	return blobDir, blobs
}

// SeedUser inserts a user with a derived email.
func SeedUser(t *testing.T, db *store.DB, username string) {
	t.Helper()
	err := db.CreateUser(context.Background(), &models.User{
		Username: username,
		Email:    username + "@example.com",
	})
	if err != nil {
		t.Fatal(err)
	}
}

// SeedArticle inserts an article authored by author with the given title,
// body, and tags. The slug derives from the title. UpdatedAt is staggered
// by the insertion order recorded in the articles table so the recent
// ordering is deterministic across seeds.
func SeedArticle(t *testing.T, db *store.DB, author, title, body string, tags ...string) *models.Article {
	t.Helper()
	now := time.Now().UTC()
	a := &models.Article{
		ID:        uuid.NewString(),
		Slug:      slug.Make(title),
		Title:     title,
		Body:      body,
		Author:    author,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.CreateArticle(context.Background(), a); err != nil {
		t.Fatal(err)
	}
	return a
}

// SeedArticleAt is SeedArticle with an explicit timestamp, for tests that
// assert on ordering.
func SeedArticleAt(t *testing.T, db *store.DB, author, title string, at time.Time, tags ...string) *models.Article {
	t.Helper()
	a := &models.Article{
		ID:        uuid.NewString(),
		Slug:      slug.Make(title),
		Title:     title,
		Body:      title + " body",
		Author:    author,
		Tags:      tags,
		CreatedAt: at,
		UpdatedAt: at,
	}
	if err := db.CreateArticle(context.Background(), a); err != nil {
		t.Fatal(err)
	}
	return a
}
