package store

import (
	"context"
	"errors"
	"testing"

	"github.com/starford/pressmark/internal/apperr"
	"github.com/starford/pressmark/internal/models"
)

func TestCreateUser_DuplicateUsername(t *testing.T) {
	db := testDB(t)
	seedUser(t, db, "rick")
	err := db.CreateUser(context.Background(), &models.User{Username: "rick", Email: "other@example.com"})
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db := testDB(t)
	seedUser(t, db, "rick")
	err := db.CreateUser(context.Background(), &models.User{Username: "rick2", Email: "rick@example.com"})
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestGetUser(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	seedUser(t, db, "rick")

	u, err := db.GetUser(ctx, "rick")
	if err != nil {
		t.Fatal(err)
	}
	if u.Email != "rick@example.com" {
		t.Errorf("email = %q", u.Email)
	}

	if _, err := db.GetUser(ctx, "nobody"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing user err = %v, want ErrNotFound", err)
	}
}

func TestUpdateUserImage(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	seedUser(t, db, "rick")

	if err := db.UpdateUserImage(ctx, "rick", "/api/images/avatar.png"); err != nil {
		t.Fatal(err)
	}
	u, _ := db.GetUser(ctx, "rick")
	if u.Image != "/api/images/avatar.png" {
		t.Errorf("image = %q", u.Image)
	}

	if err := db.UpdateUserImage(ctx, "nobody", "x"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing user err = %v, want ErrNotFound", err)
	}
}
