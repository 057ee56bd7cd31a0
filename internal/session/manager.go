package session

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const (
	// DefaultTTL is how long a session lives after login.
	DefaultTTL = 24 * time.Hour
	// DefaultCookieName is the name of the session cookie.
	DefaultCookieName = "newsdesk.sid"
)

// A Manager issues, resolves and destroys sessions and encodes them as cookies.
type Manager struct {
	Store      Store
	TTL        time.Duration
	CookieName string
	// Secure marks the cookie as HTTPS-only.
	Secure bool

	secret []byte
	now    func() time.Time
}

// NewManager returns a Manager signing cookies with secret.
func NewManager(store Store, secret []byte, ttl time.Duration, secure bool) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		Store:      store,
		TTL:        ttl,
		CookieName: DefaultCookieName,
		Secure:     secure,
		secret:     secret,
		now:        time.Now,
	}
}

// Issue creates and stores a new session for userID.
func (m *Manager) Issue(ctx context.Context, userID int) (*Session, error) {
	s := &Session{
		ID:        SecureToken(TokenLength),
		UserID:    userID,
		ExpiresAt: m.now().Add(m.TTL).UTC(),
	}
	if err := m.Store.Save(ctx, s); err != nil {
		return nil, errors.Wrap(err, "could not issue session")
	}
	return s, nil
}

// Resolve returns the user bound to the session id. Expired sessions are
// deleted and reported as ErrNotFound.
func (m *Manager) Resolve(ctx context.Context, id string) (int, error) {
	if id == "" {
		return 0, ErrNotFound
	}
	s, err := m.Store.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	if s.Expired(m.now()) {
		if err := m.Store.Delete(ctx, id); err != nil {
			return 0, err
		}
		return 0, ErrNotFound
	}
	return s.UserID, nil
}

// Destroy removes the session. Unknown ids are ignored.
func (m *Manager) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return m.Store.Delete(ctx, id)
}

// ==========================
// Cookie
// ==========================

type cookieClaims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// Cookie returns the signed cookie carrying s.
func (m *Manager) Cookie(s *Session) (*http.Cookie, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, cookieClaims{
		SID: s.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	})
	value, err := token.SignedString(m.secret)
	if err != nil {
		return nil, errors.Wrap(err, "could not sign session cookie")
	}

	return &http.Cookie{
		Name:     m.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  s.ExpiresAt,
		MaxAge:   int(m.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// ClearCookie returns a cookie that makes the client drop the session cookie.
func (m *Manager) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     m.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// SessionID returns the session id carried by the request cookie.
// Missing, tampered or expired cookies yield ok == false.
func (m *Manager) SessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(m.CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}

	var claims cookieClaims
	_, err = jwt.ParseWithClaims(c.Value, &claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || claims.SID == "" {
		return "", false
	}
	return claims.SID, true
}
