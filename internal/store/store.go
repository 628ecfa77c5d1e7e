// Package store provides SQLite-backed persistence for articles,
// favorites, follow edges, tags, comments, and search keyword counters.
package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// driverName registers a sqlite3 driver variant carrying a Go-backed
// golower() SQL function. SQLite's built-in lower() only folds ASCII;
// search matching folds both sides with the same Unicode-aware rules
// the query tokens are folded with.
const driverName = "sqlite3_golower"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("golower", strings.ToLower, true)
		},
	})
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	username TEXT PRIMARY KEY,
	email    TEXT NOT NULL UNIQUE,
	bio      TEXT NOT NULL DEFAULT '',
	image    TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS articles (
	id          TEXT PRIMARY KEY,
	slug        TEXT NOT NULL UNIQUE,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	body        TEXT NOT NULL DEFAULT '',
	author      TEXT NOT NULL REFERENCES users(username),
	read_count  INTEGER NOT NULL DEFAULT 0,
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_articles_author  ON articles(author);
CREATE INDEX IF NOT EXISTS idx_articles_updated ON articles(updated_at DESC, id);

CREATE TABLE IF NOT EXISTS article_images (
	id         TEXT PRIMARY KEY,
	article_id TEXT NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
	url        TEXT NOT NULL,
	position   INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_article_images_article ON article_images(article_id);

CREATE TABLE IF NOT EXISTS tags (
	id TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS article_tags (
	article_id TEXT NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
	tag_id     TEXT NOT NULL REFERENCES tags(id),
	UNIQUE(article_id, tag_id)
);

CREATE INDEX IF NOT EXISTS idx_article_tags_tag ON article_tags(tag_id);

CREATE TABLE IF NOT EXISTS article_favorites (
	article_id TEXT NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
	username   TEXT NOT NULL REFERENCES users(username),
	created_at DATETIME NOT NULL,
	PRIMARY KEY (article_id, username)
);

CREATE TABLE IF NOT EXISTS user_links (
	username          TEXT NOT NULL REFERENCES users(username),
	follower_username TEXT NOT NULL REFERENCES users(username),
	PRIMARY KEY (username, follower_username)
);

CREATE TABLE IF NOT EXISTS search_counts (
	keyword TEXT PRIMARY KEY,
	count   INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS comments (
	id         TEXT PRIMARY KEY,
	article_id TEXT NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
	author     TEXT NOT NULL REFERENCES users(username),
	body       TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_comments_article ON comments(article_id);
`

// DB wraps a sql.DB with article-store operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open(driverName, dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
