package handlers

import (
	"log/slog"
	"net/http"

	"github.com/crucial707/newsdesk/internal/models"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error    string            `json:"error"`
	Fields   map[string]string `json:"fields,omitempty"`
	Incident string            `json:"incident,omitempty"`
}

// JSONError sends a JSON error response with a single "error" field.
func JSONError(w http.ResponseWriter, r *http.Request, message string, status int) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: message})
}

// JSONValidationError sends a JSON error response with "error" and optional "fields" for field-level details.
// status is typically http.StatusBadRequest (400).
func JSONValidationError(w http.ResponseWriter, r *http.Request, message string, fields map[string]string, status int) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: message, Fields: fields})
}

// internalError logs err under a fresh incident id and sends a 500 that only carries the id.
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	incident := uuid.NewString()
	slog.Error("request failed",
		"incident", incident,
		"request_id", chimw.GetReqID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"err", err)
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, ErrorResponse{Error: ErrMessageInternal, Incident: incident})
}

// badInput answers a validation failure, or a 500 if err is something else.
func badInput(w http.ResponseWriter, r *http.Request, err error) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		JSONValidationError(w, r, verr.Error(), verr.Fields, http.StatusBadRequest)
		return
	}
	internalError(w, r, err)
}
