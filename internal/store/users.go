package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/starford/pressmark/internal/apperr"
	"github.com/starford/pressmark/internal/models"
)

// CreateUser inserts a user directory entry. Username and email must
// both be unused.
func (db *DB) CreateUser(ctx context.Context, u *models.User) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (username, email, bio, image) VALUES (?, ?, ?, ?)`,
		u.Username, u.Email, u.Bio, u.Image)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.ErrAlreadyExists
		}
		return fmt.Errorf("store: create user: %w", err)
	}
	return nil
}

// GetUser looks up a user by username.
func (db *DB) GetUser(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := db.conn.QueryRowContext(ctx,
		`SELECT username, email, bio, image FROM users WHERE username = ?`, username).
		Scan(&u.Username, &u.Email, &u.Bio, &u.Image)
	if err == sql.ErrNoRows {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get user: %w", err)
	}
	return &u, nil
}

// UpdateUserImage stores the profile image URL returned by the blob store.
func (db *DB) UpdateUserImage(ctx context.Context, username, url string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET image = ? WHERE username = ?`, url, username)
	if err != nil {
		return fmt.Errorf("store: update user image: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
