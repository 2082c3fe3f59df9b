package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"blogapi/internal/content"
	"blogapi/internal/middleware"
)

// Categories groups the category CRUD handlers.
type Categories struct {
	content *content.Service
}

// NewCategories creates the category handler group.
func NewCategories(svc *content.Service) *Categories {
	return &Categories{content: svc}
}

// List handles GET /categories. Every category is returned with its
// post count; the set is small enough that paging is not worth it.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.content.ListCategories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// Get handles GET /categories/{slug}.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	cat, err := h.content.GetCategory(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

type categoryRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Create handles POST /categories (admin only).
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	caller := middleware.CallerFromCtx(r.Context())
	cat, err := h.content.CreateCategory(r.Context(), caller, content.CategoryInput{
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cat)
}

// Update handles PUT /categories/{slug} (admin only).
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	caller := middleware.CallerFromCtx(r.Context())
	cat, err := h.content.UpdateCategory(r.Context(), caller, chi.URLParam(r, "slug"), content.CategoryInput{
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

// Delete handles DELETE /categories/{slug} (admin only). Posts in the
// category survive and become uncategorized.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromCtx(r.Context())
	if err := h.content.DeleteCategory(r.Context(), caller, chi.URLParam(r, "slug")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
