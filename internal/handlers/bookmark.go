package handlers

import (
	"net/http"

	"github.com/crucial707/newsdesk/internal/middleware"
	"github.com/crucial707/newsdesk/internal/models"
	"github.com/crucial707/newsdesk/internal/repo"
	"github.com/go-chi/render"
	"github.com/pkg/errors"
)

// BookmarkStore is what BookmarkHandler reads and writes.
type BookmarkStore interface {
	repo.ArticleStore
	repo.BookmarkStore
}

// ==========================
// BookmarkHandler (all routes sit behind RequireAuth)
// ==========================
type BookmarkHandler struct {
	Store BookmarkStore
}

// ==========================
// List Bookmarks
// ==========================
func (h *BookmarkHandler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	items, err := h.Store.GetBookmarksByUser(r.Context(), user.ID)
	if err != nil {
		internalError(w, r, err)
		return
	}
	render.JSON(w, r, items)
}

// ==========================
// Create Bookmark
// ==========================
func (h *BookmarkHandler) CreateBookmark(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var input models.InsertBookmark
	if !decodeJSON(w, r, &input) {
		return
	}
	if err := models.Validate(input); err != nil {
		badInput(w, r, err)
		return
	}
	input.UserID = user.ID

	article, err := h.Store.GetArticle(r.Context(), input.ArticleID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && !visible(r, article)) {
		JSONError(w, r, "article not found", http.StatusNotFound)
		return
	}
	if err != nil {
		internalError(w, r, err)
		return
	}

	bookmark, err := h.Store.CreateBookmark(r.Context(), input)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, r, "article not found", http.StatusNotFound)
		return
	}
	if err != nil {
		internalError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, bookmark)
}

// ==========================
// Delete Bookmark
// ==========================
func (h *BookmarkHandler) DeleteBookmark(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	articleID, ok := parseID(r, "articleId")
	if !ok {
		JSONError(w, r, "invalid article id", http.StatusBadRequest)
		return
	}

	removed, err := h.Store.DeleteBookmark(r.Context(), user.ID, articleID)
	if err != nil {
		internalError(w, r, err)
		return
	}
	if !removed {
		JSONError(w, r, "bookmark not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ==========================
// Is Bookmarked
// ==========================
func (h *BookmarkHandler) IsBookmarked(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	articleID, ok := parseID(r, "articleId")
	if !ok {
		JSONError(w, r, "invalid article id", http.StatusBadRequest)
		return
	}

	_, err := h.Store.GetBookmark(r.Context(), user.ID, articleID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		internalError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]bool{"bookmarked": err == nil})
}
