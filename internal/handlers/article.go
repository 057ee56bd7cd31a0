package handlers

import (
	"net/http"

	"github.com/crucial707/newsdesk/internal/middleware"
	"github.com/crucial707/newsdesk/internal/models"
	"github.com/crucial707/newsdesk/internal/repo"
	"github.com/go-chi/render"
	"github.com/pkg/errors"
)

type ArticleHandler struct {
	Store repo.ArticleStore
}

// visible reports whether the requester may see a.
func visible(r *http.Request, a *models.Article) bool {
	if a.Status == models.StatusPublished {
		return true
	}
	u := middleware.UserFromContext(r.Context())
	return u != nil && u.IsAdmin
}

func parseFilter(w http.ResponseWriter, r *http.Request) (models.ArticleFilter, bool) {
	var filter models.ArticleFilter
	fields := make(map[string]string)

	category, err := models.ParseCategory(r.URL.Query().Get("category"))
	if err != nil {
		fields["category"] = err.Error()
	}
	filter.Category = category

	status, err := models.ParseStatus(r.URL.Query().Get("status"))
	if err != nil {
		fields["status"] = err.Error()
	}
	filter.Status = status

	if len(fields) > 0 {
		JSONValidationError(w, r, "invalid filter", fields, http.StatusBadRequest)
		return filter, false
	}
	return filter, true
}

//
// ==========================
// Categories
// ==========================
//

func (h *ArticleHandler) Categories(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, append([]models.Category{models.CategoryAll}, models.Categories()...))
}

//
// ==========================
// List Published Articles
// ==========================
//

// ListPublished answers an empty list for an unknown category; no published article can match it.
func (h *ArticleHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	category, err := models.ParseCategory(r.URL.Query().Get("category"))
	if err != nil {
		render.JSON(w, r, []models.Article{})
		return
	}
	filter := models.ArticleFilter{Category: category, Status: models.StatusPublished}

	articles, err := h.Store.ListArticles(r.Context(), filter)
	if err != nil {
		internalError(w, r, err)
		return
	}
	render.JSON(w, r, articles)
}

//
// ==========================
// Get Article By ID
// ==========================
//

func (h *ArticleHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		JSONError(w, r, "invalid article id", http.StatusBadRequest)
		return
	}

	article, err := h.Store.GetArticle(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, r, "article not found", http.StatusNotFound)
		return
	}
	if err != nil {
		internalError(w, r, err)
		return
	}
	if !visible(r, article) {
		JSONError(w, r, "article not found", http.StatusNotFound)
		return
	}

	render.JSON(w, r, article)
}

//
// ==========================
// List Articles (admin; any status)
// ==========================
//

func (h *ArticleHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	articles, err := h.Store.ListArticles(r.Context(), filter)
	if err != nil {
		internalError(w, r, err)
		return
	}
	render.JSON(w, r, articles)
}

//
// ==========================
// Create Article
// ==========================
//

func (h *ArticleHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var input models.InsertArticle
	if !decodeJSON(w, r, &input) {
		return
	}
	if err := models.Validate(input); err != nil {
		badInput(w, r, err)
		return
	}

	// The author is always the admin making the request.
	input.AuthorID = middleware.UserFromContext(r.Context()).ID

	article, err := h.Store.CreateArticle(r.Context(), input)
	if err != nil {
		internalError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, article)
}

//
// ==========================
// Update Article
// ==========================
//

func (h *ArticleHandler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		JSONError(w, r, "invalid article id", http.StatusBadRequest)
		return
	}

	var patch models.ArticlePatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if err := models.Validate(patch); err != nil {
		badInput(w, r, err)
		return
	}

	article, err := h.Store.UpdateArticle(r.Context(), id, patch)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, r, "article not found", http.StatusNotFound)
		return
	}
	if err != nil {
		internalError(w, r, err)
		return
	}
	render.JSON(w, r, article)
}

//
// ==========================
// Delete Article
// ==========================
//

func (h *ArticleHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		JSONError(w, r, "invalid article id", http.StatusBadRequest)
		return
	}

	removed, err := h.Store.DeleteArticle(r.Context(), id)
	if err != nil {
		internalError(w, r, err)
		return
	}
	if !removed {
		JSONError(w, r, "article not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
