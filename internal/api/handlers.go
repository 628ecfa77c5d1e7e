package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/pressmark/internal/apperr"
	"github.com/starford/pressmark/internal/articleservice"
	"github.com/starford/pressmark/internal/models"
)

const defaultPageLimit = 20

// Handler holds API route handlers.
type Handler struct {
	svc *articleservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *articleservice.Service) *Handler {
	return &Handler{svc: svc}
}

// writeError maps the service error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrConflict), errors.Is(err, apperr.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorBody("storage unavailable, retry later"))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// parsePage reads limit/offset query parameters. Absent limit defaults
// to a sane page size; -1 explicitly requests the unbounded page.
func parsePage(r *http.Request) (models.Page, error) {
	q := r.URL.Query()
	p := models.Page{Limit: defaultPageLimit}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return p, fmt.Errorf("%w: limit: must be an integer", apperr.ErrValidation)
		}
		p.Limit = n
	}
	if s := q.Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return p, fmt.Errorf("%w: offset: must be an integer", apperr.ErrValidation)
		}
		p.Offset = n
	}
	return p, nil
}

// ListArticles handles GET /api/articles.
//
//	@Summary		List articles with filtering, sorting, and pagination
//	@Tags			articles
//	@Produce		json
//	@Param			author	query		string	false	"Filter by author username (exact)"
//	@Param			tag		query		string	false	"Filter by tag id (exact)"
//	@Param			sort	query		string	false	"Sort mode"	Enums(recent, title, tag_count)
//	@Param			limit	query		int		false	"Page size (-1 for unbounded)"
//	@Param			offset	query		int		false	"Page offset"
//	@Success		200		{object}	ArticleListResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/articles [get]
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, "list articles", err)
		return
	}
	sort, err := models.ParseSortMode(r.URL.Query().Get("sort"))
	if err != nil {
		writeError(w, "list articles", fmt.Errorf("%w: %v", apperr.ErrValidation, err))
		return
	}
	q := models.ArticleQuery{
		Author: r.URL.Query().Get("author"),
		Tag:    r.URL.Query().Get("tag"),
		Sort:   sort,
		Page:   page,
	}
	items, total, err := h.svc.List(r.Context(), q, viewer(r), models.FeedNone)
	if err != nil {
		writeError(w, "list articles", err)
		return
	}
	writeJSON(w, http.StatusOK, ArticleListResponse{Articles: items, Total: total})
}

// Feed handles GET /api/articles/feed.
//
//	@Summary		Personal feed restricted by the social graph
//	@Tags			articles
//	@Produce		json
//	@Param			mode	query		string	false	"Feed mode"	Enums(followed, any)
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Success		200		{object}	ArticleListResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/articles/feed [get]
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, "feed", err)
		return
	}
	mode := models.FeedFollowed
	if s := r.URL.Query().Get("mode"); s != "" {
		mode, err = models.ParseFeedMode(s)
		if err != nil {
			writeError(w, "feed", fmt.Errorf("%w: %v", apperr.ErrValidation, err))
			return
		}
	}
	q := models.ArticleQuery{Sort: models.SortRecent, Page: page}
	items, total, err := h.svc.List(r.Context(), q, viewer(r), mode)
	if err != nil {
		writeError(w, "feed", err)
		return
	}
	writeJSON(w, http.StatusOK, ArticleListResponse{Articles: items, Total: total})
}

// GetArticle handles GET /api/articles/{slug}. Fetching the full
// article counts one read.
//
//	@Summary		Get a single article by slug
//	@Tags			articles
//	@Produce		json
//	@Param			slug	path		string	true	"Article slug"
//	@Success		200		{object}	models.Article
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/articles/{slug} [get]
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	article, err := h.svc.Get(r.Context(), chi.URLParam(r, "slug"), viewer(r))
	if err != nil {
		writeError(w, "get article", err)
		return
	}
	writeJSON(w, http.StatusOK, article)
}

// CreateArticle handles POST /api/articles.
//
//	@Summary		Create a new article
//	@Tags			articles
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ArticleDraft	true	"Article to create"
//	@Success		201		{object}	models.Article
//	@Failure		409		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/articles [post]
func (h *Handler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	author := viewer(r)
	if author == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("viewer identity is required"))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var draft ArticleDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	article, err := h.svc.Create(r.Context(), author, draft)
	if err != nil {
		writeError(w, "create article", err)
		return
	}
	writeJSON(w, http.StatusCreated, article)
}

// UpdateArticle handles PUT /api/articles/{slug}.
//
//	@Summary		Update an article
//	@Tags			articles
//	@Accept			json
//	@Produce		json
//	@Param			slug	path		string			true	"Article slug"
//	@Param			body	body		ArticleDraft	true	"Updated content"
//	@Success		200		{object}	models.Article
//	@Failure		404		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/articles/{slug} [put]
func (h *Handler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var draft ArticleDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	article, err := h.svc.Update(r.Context(), chi.URLParam(r, "slug"), draft)
	if err != nil {
		writeError(w, "update article", err)
		return
	}
	writeJSON(w, http.StatusOK, article)
}

// DeleteArticle handles DELETE /api/articles/{slug}.
//
//	@Summary		Delete an article
//	@Tags			articles
//	@Param			slug	path	string	true	"Article slug"
//	@Success		204		"Article deleted"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/articles/{slug} [delete]
func (h *Handler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "slug")); err != nil {
		writeError(w, "delete article", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Favorite handles POST /api/articles/{slug}/favorite.
//
//	@Summary		Like an article (idempotent)
//	@Tags			favorites
//	@Produce		json
//	@Param			slug	path		string	true	"Article slug"
//	@Success		200		{object}	models.Article
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/articles/{slug}/favorite [post]
func (h *Handler) Favorite(w http.ResponseWriter, r *http.Request) {
	username := viewer(r)
	if username == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("viewer identity is required"))
		return
	}
	article, err := h.svc.AddFavorite(r.Context(), username, chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, "favorite", err)
		return
	}
	writeJSON(w, http.StatusOK, article)
}

// Unfavorite handles DELETE /api/articles/{slug}/favorite.
//
//	@Summary		Unlike an article (no-op when not liked)
//	@Tags			favorites
//	@Produce		json
//	@Param			slug	path		string	true	"Article slug"
//	@Success		200		{object}	models.Article
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/articles/{slug}/favorite [delete]
func (h *Handler) Unfavorite(w http.ResponseWriter, r *http.Request) {
	username := viewer(r)
	if username == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("viewer identity is required"))
		return
	}
	article, err := h.svc.RemoveFavorite(r.Context(), username, chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, "unfavorite", err)
		return
	}
	writeJSON(w, http.StatusOK, article)
}

// Search handles GET /api/search.
//
//	@Summary		Keyword search across title, body, and tags
//	@Tags			search
//	@Produce		json
//	@Param			query	query		string	false	"Whitespace-separated keywords (AND semantics)"
//	@Param			limit	query		int		false	"Page size (-1 for unbounded)"
//	@Param			offset	query		int		false	"Page offset"
//	@Success		200		{object}	SearchResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, "search", err)
		return
	}
	q := models.SearchQuery{Query: r.URL.Query().Get("query"), Page: page}
	res, err := h.svc.Search(r.Context(), q)
	if err != nil {
		writeError(w, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Articles: res.Articles, Total: res.Total, Keywords: res.Keywords})
}

// Keywords handles GET /api/keywords.
//
//	@Summary		List search keyword counters at or above a minimum count
//	@Tags			search
//	@Produce		json
//	@Param			min	query		int	false	"Minimum occurrence count"
//	@Success		200	{object}	KeywordsResponse
//	@Security		BearerAuth
//	@Router			/keywords [get]
func (h *Handler) Keywords(w http.ResponseWriter, r *http.Request) {
	min := 0
	if s := r.URL.Query().Get("min"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, "keywords", fmt.Errorf("%w: min: must be an integer", apperr.ErrValidation))
			return
		}
		min = n
	}
	counters, err := h.svc.TopKeywords(r.Context(), min)
	if err != nil {
		writeError(w, "keywords", err)
		return
	}
	writeJSON(w, http.StatusOK, KeywordsResponse{Keywords: counters})
}

// Tags handles GET /api/tags.
//
//	@Summary		List all tags
//	@Tags			tags
//	@Produce		json
//	@Success		200	{object}	TagsResponse
//	@Failure		503	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/tags [get]
func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.Tags(r.Context())
	if err != nil {
		writeError(w, "tags", err)
		return
	}
	writeJSON(w, http.StatusOK, TagsResponse{Tags: tags})
}

// GetProfile handles GET /api/profiles/{username}.
//
//	@Summary		Get a user profile with the viewer's follow state
//	@Tags			profiles
//	@Produce		json
//	@Param			username	path		string	true	"Username"
//	@Success		200			{object}	Profile
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/profiles/{username} [get]
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.GetProfile(r.Context(), chi.URLParam(r, "username"), viewer(r))
	if err != nil {
		writeError(w, "get profile", err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// Follow handles POST /api/profiles/{username}/follow.
//
//	@Summary		Follow a user (idempotent)
//	@Tags			profiles
//	@Produce		json
//	@Param			username	path		string	true	"Username to follow"
//	@Success		200			{object}	Profile
//	@Failure		404			{object}	errResponse
//	@Failure		422			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/profiles/{username}/follow [post]
func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	follower := viewer(r)
	if follower == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("viewer identity is required"))
		return
	}
	username := chi.URLParam(r, "username")
	if err := h.svc.Follow(r.Context(), username, follower); err != nil {
		writeError(w, "follow", err)
		return
	}
	profile, err := h.svc.GetProfile(r.Context(), username, follower)
	if err != nil {
		writeError(w, "follow", err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// Unfollow handles DELETE /api/profiles/{username}/follow.
//
//	@Summary		Unfollow a user (no-op when not following)
//	@Tags			profiles
//	@Produce		json
//	@Param			username	path		string	true	"Username to unfollow"
//	@Success		200			{object}	Profile
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/profiles/{username}/follow [delete]
func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	follower := viewer(r)
	if follower == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("viewer identity is required"))
		return
	}
	username := chi.URLParam(r, "username")
	if err := h.svc.Unfollow(r.Context(), username, follower); err != nil {
		writeError(w, "unfollow", err)
		return
	}
	profile, err := h.svc.GetProfile(r.Context(), username, follower)
	if err != nil {
		writeError(w, "unfollow", err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// ListComments handles GET /api/articles/{slug}/comments.
//
//	@Summary		List an article's comments
//	@Tags			comments
//	@Produce		json
//	@Param			slug	path		string	true	"Article slug"
//	@Success		200		{object}	CommentsResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/articles/{slug}/comments [get]
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.svc.Comments(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, "list comments", err)
		return
	}
	writeJSON(w, http.StatusOK, CommentsResponse{Comments: comments})
}

// AddComment handles POST /api/articles/{slug}/comments.
//
//	@Summary		Comment on an article
//	@Tags			comments
//	@Accept			json
//	@Produce		json
//	@Param			slug	path		string			true	"Article slug"
//	@Param			body	body		CommentRequest	true	"Comment"
//	@Success		201		{object}	models.Comment
//	@Failure		404		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/articles/{slug}/comments [post]
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	author := viewer(r)
	if author == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("viewer identity is required"))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	comment, err := h.svc.AddComment(r.Context(), chi.URLParam(r, "slug"), author, req.Body)
	if err != nil {
		writeError(w, "add comment", err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// DeleteComment handles DELETE /api/articles/{slug}/comments/{id}.
//
//	@Summary		Delete a comment
//	@Tags			comments
//	@Param			slug	path	string	true	"Article slug"
//	@Param			id		path	string	true	"Comment id"
//	@Success		204		"Comment deleted"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/articles/{slug}/comments/{id} [delete]
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteComment(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete comment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
