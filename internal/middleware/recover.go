package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Recoverer turns a panic into a 500 carrying an incident id, and logs the
// stack under the same id.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			incident := uuid.NewString()
			slog.Error("panic recovered",
				"incident", incident,
				"request_id", chimw.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"panic", rec,
				"stack", string(debug.Stack()))
			writeError(w, r, http.StatusInternalServerError, errorBody{
				Error:    "internal server error",
				Incident: incident,
			})
		}()
		next.ServeHTTP(w, r)
	})
}
