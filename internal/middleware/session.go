package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/crucial707/newsdesk/internal/models"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const (
	userKey      ctxKey = "user"
	sessionIDKey ctxKey = "session_id"
	userIDSink   ctxKey = "user_id_sink"
)

// SessionReader extracts the session id from a request cookie.
type SessionReader interface {
	SessionID(r *http.Request) (string, bool)
}

// UserResolver maps a session id to its user; (nil, nil) means anonymous.
type UserResolver interface {
	CurrentUser(ctx context.Context, sid string) (*models.User, error)
}

// CurrentUser attaches the session id and the logged-in user (if any) to the
// request context. It never rejects a request: any failure leaves it anonymous.
func CurrentUser(sessions SessionReader, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid, ok := sessions.SessionID(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithSessionID(r.Context(), sid)
			user, err := users.CurrentUser(ctx, sid)
			if err != nil {
				slog.Warn("could not resolve session user",
					"request_id", chimw.GetReqID(r.Context()),
					"err", err)
			}
			if user != nil {
				ctx = context.WithValue(ctx, userKey, user)
				if p, ok := ctx.Value(userIDSink).(*int); ok {
					*p = user.ID
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the logged-in user, or nil.
func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

// SessionIDFromContext returns the id of the session cookie that came with the request.
func SessionIDFromContext(ctx context.Context) string {
	sid, _ := ctx.Value(sessionIDKey).(string)
	return sid
}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// WithSessionID returns a copy of ctx carrying the session id.
func WithSessionID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sid)
}

// withUserIDSink lets an outer middleware learn the user id resolved further down the chain.
func withUserIDSink(ctx context.Context, p *int) context.Context {
	return context.WithValue(ctx, userIDSink, p)
}
