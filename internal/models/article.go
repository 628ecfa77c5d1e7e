// Package models holds the domain entities and the ephemeral query
// descriptors used by the store and service layers.
package models

import "time"

// Article is a stored blog article. Favorited and FavoritesCount are
// derived from the favorites relation at read time and never persisted.
type Article struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Body        string    `json:"body"`
	Author      string    `json:"author"`
	ReadCount   int       `json:"read_count"`
	Tags        []string  `json:"tags"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Favorited      bool `json:"favorited"`
	FavoritesCount int  `json:"favorites_count"`
}

// ArticleFavorite is one "like" edge. At most one row exists per
// (article, user) pair; CreatedAt reflects the most recent like because
// an unlike deletes the row.
type ArticleFavorite struct {
	ArticleID string    `json:"article_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// UserLink is a follow edge: FollowerUsername follows Username.
type UserLink struct {
	Username         string `json:"username"`
	FollowerUsername string `json:"follower_username"`
}

// SearchCount is the aggregate occurrence count of one search keyword
// across all searches ever executed. It is only ever incremented.
type SearchCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// User is the minimal user directory entry needed to resolve authors
// and follow edges.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
}

// Comment is a reader comment attached to an article.
type Comment struct {
	ID        string    `json:"id"`
	ArticleID string    `json:"-"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
