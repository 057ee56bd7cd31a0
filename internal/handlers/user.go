package handlers

import (
	"net/http"

	"github.com/crucial707/newsdesk/internal/repo"
	"github.com/go-chi/render"
)

// ==========================
// UserHandler
// ==========================
type UserHandler struct {
	Store repo.UserStore
}

// ==========================
// List Users (admin roster; password hashes never leave the server)
// ==========================
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.ListUsers(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	render.JSON(w, r, users)
}
