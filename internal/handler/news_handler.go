package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fitcert/backend/internal/model"
	"github.com/fitcert/backend/internal/repository"
	"github.com/fitcert/backend/internal/service"
)

// NewsHandler serves news articles: public listing/detail plus admin CRUD.
type NewsHandler struct {
	news service.NewsService
}

// NewNewsHandler creates a NewsHandler with the given service.
func NewNewsHandler(news service.NewsService) *NewsHandler {
	return &NewsHandler{news: news}
}

type newsListResponse struct {
	Articles []*model.Article `json:"articles"`
}

// List handles GET /api/news. Only published articles are exposed.
func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	opts := model.ArticleListOptions{PublishedOnly: true, Limit: 20, Offset: 0}
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			opts.Limit = n
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			opts.Offset = n
		}
	}

	articles, err := h.news.List(r.Context(), opts)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "list_failed")
		return
	}
	if articles == nil {
		articles = []*model.Article{}
	}
	writeJSON(w, http.StatusOK, newsListResponse{Articles: articles})
}

// Get handles GET /api/news/{id}.
func (h *NewsHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.news.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, repository.ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, "not_found")
		return
	}
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "lookup_failed")
		return
	}
	if !a.IsPublished() {
		writeJSONError(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// Create handles POST /api/admin/news.
func (h *NewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	var a model.Article
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if err := h.news.Create(r.Context(), &a); err != nil {
		if errors.Is(err, service.ErrInvalidArticle) {
			writeJSONError(w, http.StatusBadRequest, "invalid_article")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "create_failed")
		return
	}
	writeJSON(w, http.StatusCreated, &a)
}

// Update handles PUT /api/admin/news/{id}.
func (h *NewsHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	var a model.Article
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	a.ID = r.PathValue("id")
	if err := h.news.Update(r.Context(), &a); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidArticle):
			writeJSONError(w, http.StatusBadRequest, "invalid_article")
		case errors.Is(err, repository.ErrNotFound):
			writeJSONError(w, http.StatusNotFound, "not_found")
		default:
			writeJSONError(w, http.StatusInternalServerError, "update_failed")
		}
		return
	}
	writeJSON(w, http.StatusOK, &a)
}

// Delete handles DELETE /api/admin/news/{id}.
func (h *NewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	if err := h.news.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "not_found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "delete_failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
