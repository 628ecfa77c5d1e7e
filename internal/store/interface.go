package store

import (
	"context"
	"time"

	"github.com/starford/pressmark/internal/models"
)

// ArticleStore defines the persistence operations the service layer
// depends on. Consumers should depend on this interface rather than the
// concrete *DB type to facilitate testing with mocks.
type ArticleStore interface {
	ListArticles(ctx context.Context, q models.ArticleQuery, viewer string, feed models.FeedMode) ([]models.Article, int, error)
	SearchArticles(ctx context.Context, q models.SearchQuery) ([]models.Article, int, []models.SearchCount, error)
	GetArticleBySlug(ctx context.Context, slug, viewer string, countRead bool) (*models.Article, error)
	ArticleIDBySlug(ctx context.Context, slug string) (string, error)
	CreateArticle(ctx context.Context, a *models.Article) error
	UpdateArticle(ctx context.Context, a *models.Article) error
	DeleteArticle(ctx context.Context, slug string) error
	AddArticleImage(ctx context.Context, articleID, imageID, url string) error

	AddFavorite(ctx context.Context, username, articleID string, at time.Time) error
	RemoveFavorite(ctx context.Context, username, articleID string) error
	FavoriteCount(ctx context.Context, articleID string) (int, error)

	Follow(ctx context.Context, username, follower string) error
	Unfollow(ctx context.Context, username, follower string) error
	IsFollowing(ctx context.Context, username, follower string) (bool, error)

	ListTags(ctx context.Context) ([]string, error)
	TopKeywords(ctx context.Context, minCount int) ([]models.SearchCount, error)

	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, username string) (*models.User, error)
	UpdateUserImage(ctx context.Context, username, url string) error

	AddComment(ctx context.Context, c *models.Comment) error
	CommentsBySlug(ctx context.Context, slug string) ([]models.Comment, error)
	DeleteComment(ctx context.Context, id string) error

	Close() error
}

// Verify *DB satisfies ArticleStore at compile time.
var _ ArticleStore = (*DB)(nil)
