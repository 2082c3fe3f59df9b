package handlers

import (
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"blogapi/internal/apperr"
	"blogapi/internal/content"
	"blogapi/internal/interaction"
	"blogapi/internal/middleware"
	"blogapi/internal/models"
	"blogapi/internal/storage"
)

// maxImageSize caps cover image uploads at 10 MiB.
const maxImageSize = 10 << 20

// Posts groups the post CRUD, listing, image upload, and like handlers.
// storage may be nil when object storage is not configured; the image
// endpoint then reports unavailability.
type Posts struct {
	content     *content.Service
	interaction *interaction.Service
	storage     *storage.Client
}

// NewPosts creates the post handler group.
func NewPosts(contentSvc *content.Service, interactionSvc *interaction.Service, storageClient *storage.Client) *Posts {
	return &Posts{
		content:     contentSvc,
		interaction: interactionSvc,
		storage:     storageClient,
	}
}

// List handles GET /posts with filtering, search, ordering, and paging.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pageNum, perPage, offset := pageParams(r)

	f := models.PostFilter{
		CategorySlug: q.Get("category"),
		Search:       q.Get("search"),
		Ordering:     q.Get("ordering"),
		Limit:        perPage,
		Offset:       offset,
	}
	switch q.Get("published") {
	case "":
	case "true":
		t := true
		f.Published = &t
	case "false":
		fa := false
		f.Published = &fa
	default:
		writeError(w, apperr.New(apperr.Validation, "published must be true or false"))
		return
	}

	posts, total, err := h.content.ListPosts(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	for i := range posts {
		h.decorate(&posts[i])
	}
	writeJSON(w, http.StatusOK, page{Items: posts, Total: total, Page: pageNum, PerPage: perPage})
}

type postRequest struct {
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	CategoryID *uuid.UUID `json:"category_id"`
	Published  bool       `json:"published"`
}

// Create handles POST /posts. The author is always the caller.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	caller := middleware.CallerFromCtx(r.Context())
	post, err := h.content.CreatePost(r.Context(), caller, content.PostInput{
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
		Published:  req.Published,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	h.decorate(post)
	writeJSON(w, http.StatusCreated, post)
}

// Get handles GET /posts/{slug}. Each read counts a view. The response
// carries the caller's own like state.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.content.GetPost(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}

	caller := middleware.CallerFromCtx(r.Context())
	liked, err := h.interaction.IsLiked(r.Context(), caller, post.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	post.IsLiked = liked
	h.decorate(post)
	writeJSON(w, http.StatusOK, post)
}

type postPatchRequest struct {
	Title         *string    `json:"title"`
	Content       *string    `json:"content"`
	Published     *bool      `json:"published"`
	CategoryID    *uuid.UUID `json:"category_id"`
	ClearCategory bool       `json:"clear_category"`
}

// Update handles PUT /posts/{slug}. Author and slug never change, no
// matter what the body carries.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	var req postPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	caller := middleware.CallerFromCtx(r.Context())
	post, err := h.content.UpdatePost(r.Context(), caller, chi.URLParam(r, "slug"), content.PostPatch{
		Title:         req.Title,
		Content:       req.Content,
		Published:     req.Published,
		CategoryID:    req.CategoryID,
		ClearCategory: req.ClearCategory,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	h.decorate(post)
	writeJSON(w, http.StatusOK, post)
}

// Delete handles DELETE /posts/{slug}.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromCtx(r.Context())
	if err := h.content.DeletePost(r.Context(), caller, chi.URLParam(r, "slug")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadImage handles POST /posts/{slug}/image: a multipart form with an
// "image" file field. The blob goes to object storage under a random
// key; the post stores only the key.
func (h *Posts) UploadImage(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, apperr.New(apperr.Internal, "object storage is not configured"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		writeError(w, apperr.New(apperr.Validation, "invalid multipart form or file too large"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, apperr.New(apperr.Validation, "image file field is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeError(w, apperr.New(apperr.Validation, "file must be an image"))
		return
	}

	key := fmt.Sprintf("posts/%s%s", uuid.New(), strings.ToLower(path.Ext(header.Filename)))
	if err := h.storage.Upload(r.Context(), key, contentType, file, header.Size); err != nil {
		writeError(w, apperr.Wrap(apperr.Internal, "upload image", err))
		return
	}

	caller := middleware.CallerFromCtx(r.Context())
	post, err := h.content.SetPostImage(r.Context(), caller, chi.URLParam(r, "slug"), key)
	if err != nil {
		// Orphaned object cleanup is best effort.
		_ = h.storage.Delete(r.Context(), key)
		writeError(w, err)
		return
	}
	h.decorate(post)
	writeJSON(w, http.StatusOK, post)
}

// ToggleLike handles POST /posts/{slug}/like.
func (h *Posts) ToggleLike(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromCtx(r.Context())
	result, err := h.interaction.ToggleLike(r.Context(), caller, chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// decorate fills the image URL from the stored object key.
func (h *Posts) decorate(p *models.Post) {
	if h.storage != nil && p.ImageKey != nil {
		p.ImageURL = h.storage.FileURL(*p.ImageKey)
	}
}
