package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/pressmark/internal/articleservice"
	"github.com/starford/pressmark/internal/storage"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *articleservice.Service, blobs storage.Provider, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)
	ih := NewImageHandler(blobs, svc)

	r := chi.NewRouter()

	// Image serving stays public; stored URLs must resolve without a token.
	r.Get("/images/{name}", ih.ServeFile)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(authEnabled, token))

		// Articles.
		r.Get("/articles", h.ListArticles)
		r.Get("/articles/feed", h.Feed)
		r.Post("/articles", h.CreateArticle)
		r.Get("/articles/{slug}", h.GetArticle)
		r.Put("/articles/{slug}", h.UpdateArticle)
		r.Delete("/articles/{slug}", h.DeleteArticle)

		// Favorites.
		r.Post("/articles/{slug}/favorite", h.Favorite)
		r.Delete("/articles/{slug}/favorite", h.Unfavorite)

		// Comments.
		r.Get("/articles/{slug}/comments", h.ListComments)
		r.Post("/articles/{slug}/comments", h.AddComment)
		r.Delete("/articles/{slug}/comments/{id}", h.DeleteComment)

		// Images upload.
		r.Post("/articles/{slug}/images", ih.Upload)

		// Search and counters.
		r.Get("/search", h.Search)
		r.Get("/keywords", h.Keywords)

		// Tags.
		r.Get("/tags", h.Tags)

		// Profiles and follow edges.
		r.Get("/profiles/{username}", h.GetProfile)
		r.Post("/profiles/{username}/image", ih.UploadProfileImage)
		r.Post("/profiles/{username}/follow", h.Follow)
		r.Delete("/profiles/{username}/follow", h.Unfollow)

		// SSE endpoint (protected by the same auth middleware).
		if sseHandler != nil {
			r.Get("/events", sseHandler.ServeHTTP)
		}
	})

	return r
}
