package api

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/pressmark/internal/articleservice"
	"github.com/starford/pressmark/internal/storage"
)

const maxImageUploadBytes = 10 << 20 // 10 MB per request

// allowedImageExts is the upload whitelist. The core never inspects
// image bytes beyond this extension check and a non-empty check.
var allowedImageExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// ImageHandler accepts article image uploads and serves stored blobs.
type ImageHandler struct {
	blobs storage.Provider
	svc   *articleservice.Service
}

// NewImageHandler creates a handler over the blob provider.
func NewImageHandler(blobs storage.Provider, svc *articleservice.Service) *ImageHandler {
	return &ImageHandler{blobs: blobs, svc: svc}
}

// Upload handles POST /api/articles/{slug}/images (multipart form,
// field "images"). Files with a non-whitelisted extension or an empty
// payload are skipped; accepted files are stored and their URLs
// attached to the article.
//
//	@Summary		Upload article images
//	@Tags			images
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			slug	path		string	true	"Article slug"
//	@Success		201		{object}	ImageUploadResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/articles/{slug}/images [post]
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadBytes)

	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("upload too large or invalid multipart"))
		return
	}
	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'images' field in multipart form"))
		return
	}

	articleSlug := chi.URLParam(r, "slug")
	urls := []string{}
	for _, header := range files {
		ext := strings.ToLower(filepath.Ext(header.Filename))
		if _, ok := allowedImageExts[ext]; !ok || header.Size == 0 {
			continue
		}
		file, err := header.Open()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("failed to read upload"))
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("failed to read upload"))
			return
		}
		url, err := h.blobs.Save(data, ext)
		if err != nil {
			writeError(w, "save image", err)
			return
		}
		if err := h.svc.AttachImage(r.Context(), articleSlug, url); err != nil {
			writeError(w, "attach image", err)
			return
		}
		urls = append(urls, url)
	}
	writeJSON(w, http.StatusCreated, ImageUploadResponse{URLs: urls})
}

// UploadProfileImage handles POST /api/profiles/{username}/image
// (multipart form, field "image"). Only the user themselves may change
// their picture. The previous blob, if any, is released after the new
// URL is persisted.
//
//	@Summary		Upload a profile picture
//	@Tags			profiles
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			username	path		string	true	"Username"
//	@Success		200			{object}	articleservice.Profile
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Failure		422			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/profiles/{username}/image [post]
func (h *ImageHandler) UploadProfileImage(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if viewer(r) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("viewer identity is required"))
		return
	}
	if viewer(r) != username {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("cannot change another user's picture"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadBytes)
	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("upload too large or invalid multipart"))
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'image' field in multipart form"))
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, ok := allowedImageExts[ext]; !ok || header.Size == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("unsupported image type"))
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read upload"))
		return
	}

	url, err := h.blobs.Save(data, ext)
	if err != nil {
		writeError(w, "save profile image", err)
		return
	}
	previous, err := h.svc.SetProfileImage(r.Context(), username, url)
	if err != nil {
		writeError(w, "set profile image", err)
		return
	}
	if previous != "" {
		// Best effort: a leaked blob is preferable to failing the upload.
		if err := h.blobs.Delete(filepath.Base(previous)); err != nil {
			slog.Warn("failed to delete replaced profile image", "username", username, "error", err)
		}
	}

	profile, err := h.svc.GetProfile(r.Context(), username, username)
	if err != nil {
		writeError(w, "get profile", err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// ServeFile handles GET /api/images/{name}.
//
//	@Summary		Serve a stored image
//	@Tags			images
//	@Param			name	path	string	true	"Blob name"
//	@Success		200		"Image bytes"
//	@Failure		404		{object}	errResponse
//	@Router			/images/{name} [get]
func (h *ImageHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	abs, err := h.blobs.Path(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusBadRequest, errorBody("invalid image name"))
		return
	}
	http.ServeFile(w, r, abs)
}
