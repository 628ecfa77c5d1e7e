// Package articleservice coordinates the store, the blob provider, and
// event notification for the API and MCP layers.
package articleservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/starford/pressmark/internal/apperr"
	"github.com/starford/pressmark/internal/models"
	"github.com/starford/pressmark/internal/slug"
	"github.com/starford/pressmark/internal/store"
)

// Notifier receives article lifecycle events (created, updated,
// deleted, favorited, unfavorited) keyed by slug.
type Notifier func(kind, slug string)

// Service coordinates store operations for the transport layers.
type Service struct {
	db     store.ArticleStore
	notify Notifier
}

// NewService creates a new article service. notify may be nil.
func NewService(db store.ArticleStore, notify Notifier) *Service {
	if notify == nil {
		notify = func(string, string) {}
	}
	return &Service{db: db, notify: notify}
}

// SearchResult is the outcome of one search request.
type SearchResult struct {
	Articles []models.Article     `json:"articles"`
	Total    int                  `json:"total"`
	Keywords []models.SearchCount `json:"keywords"`
}

// Search executes one search request as an atomic unit: keyword match,
// pre-window total, page, and keyword counter upserts commit together.
// Searching never touches read counts.
func (s *Service) Search(ctx context.Context, q models.SearchQuery) (*SearchResult, error) {
	if err := q.Validate(); err != nil {
		return nil, invalid(err)
	}
	page, total, counters, err := s.db.SearchArticles(ctx, q)
	if err != nil {
		return nil, err
	}
	return &SearchResult{Articles: page, Total: total, Keywords: counters}, nil
}

// List returns one page of articles plus the total matching count.
// FeedFollowed requires a viewer.
func (s *Service) List(ctx context.Context, q models.ArticleQuery, viewer string, feed models.FeedMode) ([]models.Article, int, error) {
	if err := q.Validate(); err != nil {
		return nil, 0, invalid(err)
	}
	if feed == models.FeedFollowed && viewer == "" {
		return nil, 0, invalid(fmt.Errorf("viewer: required for the personal feed"))
	}
	return s.db.ListArticles(ctx, q, viewer, feed)
}

// Get loads one article for full display and bumps its read count.
func (s *Service) Get(ctx context.Context, articleSlug, viewer string) (*models.Article, error) {
	return s.db.GetArticleBySlug(ctx, articleSlug, viewer, true)
}

// GetSummary loads one article without counting a read. Listing-style
// consumers (MCP tools, internal lookups) use this path.
func (s *Service) GetSummary(ctx context.Context, articleSlug, viewer string) (*models.Article, error) {
	return s.db.GetArticleBySlug(ctx, articleSlug, viewer, false)
}

// ArticleDraft is the caller-supplied content for a create or update.
type ArticleDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Body        string   `json:"body"`
	Tags        []string `json:"tags"`
}

// Validate rejects drafts without a title or body.
func (d ArticleDraft) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Title, validation.Required),
		validation.Field(&d.Body, validation.Required),
	)
}

// Create stores a new article authored by author. The slug derives from
// the title; a taken slug surfaces as a conflict.
func (s *Service) Create(ctx context.Context, author string, draft ArticleDraft) (*models.Article, error) {
	if err := draft.Validate(); err != nil {
		return nil, invalid(err)
	}
	now := time.Now().UTC()
	a := &models.Article{
		ID:          uuid.NewString(),
		Slug:        slug.Make(draft.Title),
		Title:       draft.Title,
		Description: draft.Description,
		Body:        draft.Body,
		Author:      author,
		Tags:        draft.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.CreateArticle(ctx, a); err != nil {
		return nil, err
	}
	s.notify("created", a.Slug)
	return s.GetSummary(ctx, a.Slug, author)
}

// Update rewrites an article's content. A changed title re-derives the
// slug; updated_at is bumped so the article resurfaces in the default
// ordering.
func (s *Service) Update(ctx context.Context, articleSlug string, draft ArticleDraft) (*models.Article, error) {
	if err := draft.Validate(); err != nil {
		return nil, invalid(err)
	}
	current, err := s.db.GetArticleBySlug(ctx, articleSlug, "", false)
	if err != nil {
		return nil, err
	}
	current.Title = draft.Title
	current.Slug = slug.Make(draft.Title)
	current.Description = draft.Description
	current.Body = draft.Body
	current.Tags = draft.Tags
	current.UpdatedAt = time.Now().UTC()

	if err := s.db.UpdateArticle(ctx, current); err != nil {
		return nil, err
	}
	s.notify("updated", current.Slug)
	return s.GetSummary(ctx, current.Slug, "")
}

// Delete removes an article and everything owned by it.
func (s *Service) Delete(ctx context.Context, articleSlug string) error {
	if err := s.db.DeleteArticle(ctx, articleSlug); err != nil {
		return err
	}
	s.notify("deleted", articleSlug)
	return nil
}

// AddFavorite marks the article as liked by username. Re-adding an
// existing favorite is an idempotent no-op that keeps the original
// timestamp; liking again after an unlike records a fresh one.
func (s *Service) AddFavorite(ctx context.Context, username, articleSlug string) (*models.Article, error) {
	id, err := s.db.ArticleIDBySlug(ctx, articleSlug)
	if err != nil {
		return nil, err
	}
	if err := s.db.AddFavorite(ctx, username, id, time.Now().UTC()); err != nil {
		return nil, err
	}
	s.notify("favorited", articleSlug)
	return s.GetSummary(ctx, articleSlug, username)
}

// RemoveFavorite unlikes; an absent favorite is a no-op.
func (s *Service) RemoveFavorite(ctx context.Context, username, articleSlug string) (*models.Article, error) {
	id, err := s.db.ArticleIDBySlug(ctx, articleSlug)
	if err != nil {
		return nil, err
	}
	if err := s.db.RemoveFavorite(ctx, username, id); err != nil {
		return nil, err
	}
	s.notify("unfavorited", articleSlug)
	return s.GetSummary(ctx, articleSlug, username)
}

// AttachImage records an uploaded blob URL on the article.
func (s *Service) AttachImage(ctx context.Context, articleSlug, url string) error {
	id, err := s.db.ArticleIDBySlug(ctx, articleSlug)
	if err != nil {
		return err
	}
	return s.db.AddArticleImage(ctx, id, uuid.NewString(), url)
}

// Follow records that follower follows username. Following yourself is
// rejected here; the store does not enforce irreflexivity.
func (s *Service) Follow(ctx context.Context, username, follower string) error {
	if username == follower {
		return invalid(fmt.Errorf("username: cannot follow yourself"))
	}
	return s.db.Follow(ctx, username, follower)
}

// Unfollow removes the follow edge; absent edges are a no-op.
func (s *Service) Unfollow(ctx context.Context, username, follower string) error {
	return s.db.Unfollow(ctx, username, follower)
}

// Profile is a user directory entry plus the viewer's follow state.
type Profile struct {
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	Image     string `json:"image"`
	Following bool   `json:"following"`
}

// GetProfile resolves a username for display.
func (s *Service) GetProfile(ctx context.Context, username, viewer string) (*Profile, error) {
	u, err := s.db.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}
	following := false
	if viewer != "" {
		following, err = s.db.IsFollowing(ctx, username, viewer)
		if err != nil {
			return nil, err
		}
	}
	return &Profile{Username: u.Username, Bio: u.Bio, Image: u.Image, Following: following}, nil
}

// SetProfileImage records the stored blob URL as username's profile
// picture and returns the URL it replaced so the caller can release the
// old blob. An empty previous URL means the user had no picture yet.
func (s *Service) SetProfileImage(ctx context.Context, username, url string) (string, error) {
	u, err := s.db.GetUser(ctx, username)
	if err != nil {
		return "", err
	}
	if err := s.db.UpdateUserImage(ctx, username, url); err != nil {
		return "", err
	}
	return u.Image, nil
}

// Tags lists all known tags (retried read, see store.ListTags).
func (s *Service) Tags(ctx context.Context) ([]string, error) {
	return s.db.ListTags(ctx)
}

// TopKeywords exposes the search counters at or above minCount.
func (s *Service) TopKeywords(ctx context.Context, minCount int) ([]models.SearchCount, error) {
	if minCount < 0 {
		return nil, invalid(fmt.Errorf("min: must be non-negative"))
	}
	return s.db.TopKeywords(ctx, minCount)
}

// AddComment attaches a comment to the article behind slug.
func (s *Service) AddComment(ctx context.Context, articleSlug, author, body string) (*models.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, invalid(fmt.Errorf("body: cannot be blank"))
	}
	id, err := s.db.ArticleIDBySlug(ctx, articleSlug)
	if err != nil {
		return nil, err
	}
	c := &models.Comment{
		ID:        uuid.NewString(),
		ArticleID: id,
		Author:    author,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.AddComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Comments lists an article's comments, oldest first.
func (s *Service) Comments(ctx context.Context, articleSlug string) ([]models.Comment, error) {
	if _, err := s.db.ArticleIDBySlug(ctx, articleSlug); err != nil {
		return nil, err
	}
	return s.db.CommentsBySlug(ctx, articleSlug)
}

// DeleteComment removes one comment.
func (s *Service) DeleteComment(ctx context.Context, id string) error {
	return s.db.DeleteComment(ctx, id)
}

// invalid tags a validation failure so transports can map it with
// errors.Is while keeping the offending field in the message.
func invalid(err error) error {
	return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
}
