package api

import (
	"github.com/starford/pressmark/internal/articleservice"
	"github.com/starford/pressmark/internal/models"
)

// ArticleDraft is the request body for creating or updating an article.
type ArticleDraft = articleservice.ArticleDraft

// Profile is a user directory entry with follow state.
type Profile = articleservice.Profile

// ArticleListResponse wraps paginated article listings. Total is the
// size of the whole matching set, not the page.
type ArticleListResponse struct {
	Articles []models.Article `json:"articles" validate:"required"`
	Total    int              `json:"total" example:"1166" validate:"required"`
}

// SearchResponse additionally carries the keyword counters touched by
// this search.
type SearchResponse struct {
	Articles []models.Article     `json:"articles" validate:"required"`
	Total    int                  `json:"total" example:"1166" validate:"required"`
	Keywords []models.SearchCount `json:"keywords" validate:"required"`
}

// KeywordsResponse wraps the counter observability endpoint.
type KeywordsResponse struct {
	Keywords []models.SearchCount `json:"keywords" validate:"required"`
}

// TagsResponse wraps the tag listing.
type TagsResponse struct {
	Tags []string `json:"tags" validate:"required"`
}

// CommentRequest is the request body for adding a comment.
type CommentRequest struct {
	Body string `json:"body" example:"Great read." validate:"required"`
}

// CommentsResponse wraps an article's comments.
type CommentsResponse struct {
	Comments []models.Comment `json:"comments" validate:"required"`
}

// ImageUploadResponse is returned after a successful image upload.
type ImageUploadResponse struct {
	URLs []string `json:"urls" validate:"required"`
}
