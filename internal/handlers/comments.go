package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"blogapi/internal/apperr"
	"blogapi/internal/content"
	"blogapi/internal/middleware"
)

// Comments groups the comment handlers.
type Comments struct {
	content *content.Service
}

// NewComments creates the comment handler group.
func NewComments(svc *content.Service) *Comments {
	return &Comments{content: svc}
}

// List handles GET /posts/{slug}/comments. Only approved comments are
// listed, newest first.
func (h *Comments) List(w http.ResponseWriter, r *http.Request) {
	pageNum, perPage, offset := pageParams(r)

	comments, total, err := h.content.ListComments(r.Context(), chi.URLParam(r, "slug"), perPage, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page{Items: comments, Total: total, Page: pageNum, PerPage: perPage})
}

// Create handles POST /posts/{slug}/comments. Anonymous commenting is
// allowed; an authenticated caller becomes the comment's author.
func (h *Comments) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Body string `json:"body"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	caller := middleware.CallerFromCtx(r.Context())
	comment, err := h.content.CreateComment(r.Context(), caller, chi.URLParam(r, "slug"), req.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// Delete handles DELETE /comments/{id}. The author or an administrator
// may delete; the removal is permanent.
func (h *Comments) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperr.New(apperr.Validation, "invalid comment id"))
		return
	}

	caller := middleware.CallerFromCtx(r.Context())
	if err := h.content.DeleteComment(r.Context(), caller, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
