package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/crucial707/newsdesk/internal/auth"
	"github.com/crucial707/newsdesk/internal/middleware"
	"github.com/crucial707/newsdesk/internal/models"
	"github.com/crucial707/newsdesk/internal/session"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/pkg/errors"
)

// Authenticator is the part of auth.Service the handlers need.
type Authenticator interface {
	Register(ctx context.Context, in models.InsertUser) (*models.User, *session.Session, error)
	Login(ctx context.Context, username, password string) (*models.User, *session.Session, error)
	Logout(ctx context.Context, sid string) error
}

// CookieIssuer turns a session into the cookie sent to the browser.
type CookieIssuer interface {
	Cookie(s *session.Session) (*http.Cookie, error)
	ClearCookie() *http.Cookie
}

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Auth    Authenticator
	Cookies CookieIssuer
}

// ==========================
// Register (creates the account and logs it in)
// ==========================
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input models.InsertUser
	if !decodeJSON(w, r, &input) {
		return
	}
	if err := models.Validate(input); err != nil {
		badInput(w, r, err)
		return
	}

	user, sess, err := h.Auth.Register(r.Context(), input)
	if errors.Is(err, auth.ErrUsernameTaken) {
		JSONValidationError(w, r, err.Error(), map[string]string{"username": "already exists"}, http.StatusBadRequest)
		return
	}
	if err != nil {
		internalError(w, r, err)
		return
	}

	h.respondWithSession(w, r, user, sess)
}

// ==========================
// Login
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input models.Credentials
	if !decodeJSON(w, r, &input) {
		return
	}
	if err := models.Validate(input); err != nil {
		badInput(w, r, err)
		return
	}

	user, sess, err := h.Auth.Login(r.Context(), input.Username, input.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		JSONError(w, r, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		internalError(w, r, err)
		return
	}

	h.respondWithSession(w, r, user, sess)
}

func (h *AuthHandler) respondWithSession(w http.ResponseWriter, r *http.Request, user *models.User, sess *session.Session) {
	cookie, err := h.Cookies.Cookie(sess)
	if err != nil {
		internalError(w, r, err)
		return
	}
	http.SetCookie(w, cookie)
	render.JSON(w, r, user)
}

// ==========================
// Logout (always succeeds for the client)
// ==========================
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.Logout(r.Context(), middleware.SessionIDFromContext(r.Context())); err != nil {
		slog.Warn("logout: could not destroy session",
			"request_id", chimw.GetReqID(r.Context()),
			"err", err)
	}
	http.SetCookie(w, h.Cookies.ClearCookie())
	render.JSON(w, r, map[string]bool{"ok": true})
}

// ==========================
// Current User (null when anonymous)
// ==========================
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, middleware.UserFromContext(r.Context()))
}
