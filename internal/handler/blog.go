package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bloglist/bloglist-go/internal/middleware"
	"github.com/bloglist/bloglist-go/internal/model"
	"github.com/bloglist/bloglist-go/internal/service"
)

// BlogService is the blog behaviour the handlers depend on.
type BlogService interface {
	List(ctx context.Context) ([]model.BlogResponse, error)
	Get(ctx context.Context, id string) (model.BlogResponse, error)
	Create(ctx context.Context, user *model.User, req model.BlogRequest) (model.BlogResponse, error)
	Update(ctx context.Context, id string, upd model.BlogUpdate) (model.BlogResponse, error)
	Delete(ctx context.Context, user *model.User, id string) error
	Stats(ctx context.Context) (model.BlogStats, error)
}

// BlogHandler handles HTTP requests for blog operations.
type BlogHandler struct {
	service BlogService
	logger  *slog.Logger
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(svc BlogService, logger *slog.Logger) *BlogHandler {
	return &BlogHandler{service: svc, logger: logger}
}

// HandleList handles GET /api/blogs requests.
func (h *BlogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, blogs)
}

// HandleGet handles GET /api/blogs/{id} requests.
func (h *BlogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	blog, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, blog)
}

// HandleCreate handles POST /api/blogs requests. The owner is the
// authenticated user; anonymous requests are rejected before the body is read.
func (h *BlogHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, h.logger, service.ErrAuthRequired)
		return
	}

	var req model.BlogRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	blog, err := h.service.Create(r.Context(), user, req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, blog)
}

// HandleUpdate handles PUT /api/blogs/{id} requests.
func (h *BlogHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var upd model.BlogUpdate
	if !decodeJSON(w, r, &upd) {
		return
	}

	blog, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, blog)
}

// HandleDelete handles DELETE /api/blogs/{id} requests.
func (h *BlogHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	if err := h.service.Delete(r.Context(), user, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleStats handles GET /api/blogs/stats requests.
func (h *BlogHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
