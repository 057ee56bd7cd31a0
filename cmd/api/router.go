package main

import (
	"context"
	"net/http"

	"github.com/crucial707/newsdesk/internal/auth"
	"github.com/crucial707/newsdesk/internal/handlers"
	"github.com/crucial707/newsdesk/internal/middleware"
	"github.com/crucial707/newsdesk/internal/repo"
	"github.com/crucial707/newsdesk/internal/session"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// deps is everything the router needs, built once in main.
type deps struct {
	Store    repo.Store
	Sessions *session.Manager
	Auth     *auth.Service

	// AuthLimiter throttles /api/login and /api/register; nil disables it.
	AuthLimiter *middleware.IPRateLimiter
	CORSOrigins []string
	HSTS        bool

	// Checks are pinged by /ready.
	Checks map[string]handlers.Pinger
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func newRouter(d deps) http.Handler {
	authH := &handlers.AuthHandler{Auth: d.Auth, Cookies: d.Sessions}
	articleH := &handlers.ArticleHandler{Store: d.Store}
	bookmarkH := &handlers.BookmarkHandler{Store: d.Store}
	userH := &handlers.UserHandler{Store: d.Store}
	healthH := &handlers.HealthHandler{Checks: d.Checks}
	if healthH.Checks == nil {
		healthH.Checks = map[string]handlers.Pinger{"storage": d.Store}
	}

	throttle := func(next http.Handler) http.Handler { return next }
	if d.AuthLimiter != nil {
		throttle = d.AuthLimiter.Middleware
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(d.HSTS))
	r.Use(middleware.CORS(d.CORSOrigins))
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))
	r.Use(middleware.CurrentUser(d.Sessions, d.Auth))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.JSONError(w, r, "not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.JSONError(w, r, "method not allowed", http.StatusMethodNotAllowed)
	})

	// ===== Probes =====
	r.Get("/health", healthH.Health)
	r.Get("/ready", healthH.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// ===== Auth =====
		r.With(throttle).Post("/register", authH.Register)
		r.With(throttle).Post("/login", authH.Login)
		r.Post("/logout", authH.Logout)
		r.Get("/user", authH.CurrentUser)

		// ===== Public articles =====
		r.Get("/categories", articleH.Categories)
		r.Get("/articles", articleH.ListPublished)
		r.Get("/articles/{id}", articleH.GetArticle)

		// ===== Admin =====
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/articles", articleH.ListAll)
			r.Post("/articles", articleH.CreateArticle)
			r.Put("/articles/{id}", articleH.UpdateArticle)
			r.Delete("/articles/{id}", articleH.DeleteArticle)
			r.Get("/users", userH.ListUsers)
		})

		// ===== Bookmarks =====
		r.Route("/bookmarks", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/", bookmarkH.ListBookmarks)
			r.Post("/", bookmarkH.CreateBookmark)
			r.Get("/{articleId}", bookmarkH.IsBookmarked)
			r.Delete("/{articleId}", bookmarkH.DeleteBookmark)
		})
	})

	return r
}
