package client

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/crucial707/newsdesk/cmd/cli/config"
	"github.com/crucial707/newsdesk/internal/session"
	"github.com/go-resty/resty/v2"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("status %d: %s", e.Status, e.Message)
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+" "+msg)
	}
	return fmt.Sprintf("status %d: %s (%s)", e.Status, e.Message, strings.Join(parts, ", "))
}

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// New returns a client for the configured API that carries the stored session, if any.
func New() (*resty.Client, error) {
	c := resty.New().
		SetBaseURL(config.APIURL()).
		SetTimeout(15*time.Second).
		SetHeader("Accept", "application/json").
		SetError(&errorBody{})

	sid, err := config.LoadSession()
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if sid != "" {
		c.SetCookie(&http.Cookie{Name: session.DefaultCookieName, Value: sid})
	}
	return c, nil
}

// Check turns a transport error or a non-2xx response into an error.
func Check(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if !resp.IsError() {
		return nil
	}
	apiErr := &APIError{Status: resp.StatusCode(), Message: http.StatusText(resp.StatusCode())}
	if body, ok := resp.Error().(*errorBody); ok && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.Fields = body.Fields
	}
	return apiErr
}

// SessionCookie returns the session cookie value set by resp, if any.
func SessionCookie(resp *resty.Response) (string, bool) {
	for _, c := range resp.Cookies() {
		if c.Name == session.DefaultCookieName && c.Value != "" {
			return c.Value, true
		}
	}
	return "", false
}
