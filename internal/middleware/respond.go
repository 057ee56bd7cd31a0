package middleware

import (
	"net/http"

	"github.com/go-chi/render"
)

type errorBody struct {
	Error    string `json:"error"`
	Incident string `json:"incident,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, body errorBody) {
	render.Status(r, status)
	render.JSON(w, r, body)
}
