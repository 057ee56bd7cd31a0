package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultAPIURL   = "http://localhost:8080"
	sessionFileName = ".newsdesk_session"
)

// APIURL returns the base URL for the Newsdesk API.
// It can be overridden with the NEWSDESK_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("NEWSDESK_API_URL"); v != "" {
		return strings.TrimRight(v, "/")
	}
	return defaultAPIURL
}

// SessionPath is where the session cookie is kept between commands.
// NEWSDESK_SESSION_FILE overrides the default ~/.newsdesk_session.
func SessionPath() string {
	if v := os.Getenv("NEWSDESK_SESSION_FILE"); v != "" {
		return v
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, sessionFileName)
}

// SaveSession stores the signed session cookie value, readable by the owner only.
func SaveSession(value string) error {
	return os.WriteFile(SessionPath(), []byte(value), 0o600)
}

// LoadSession returns the stored cookie value, or "" when logged out.
func LoadSession() (string, error) {
	data, err := os.ReadFile(SessionPath())
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// ClearSession removes the stored cookie. It reports whether there was one.
func ClearSession() (bool, error) {
	err := os.Remove(SessionPath())
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}
