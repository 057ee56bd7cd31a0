package session

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func newTestManager(now *time.Time) (*Manager, *MemoryStore) {
	store := NewMemoryStore()
	store.now = func() time.Time { return *now }
	m := NewManager(store, testSecret, time.Hour, false)
	m.now = func() time.Time { return *now }
	return m, store
}

func requestWithCookie(c *http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if c != nil {
		r.AddCookie(c)
	}
	return r
}

func TestManager_IssueAndResolve(t *testing.T) {
	now := time.Now()
	m, _ := newTestManager(&now)
	ctx := context.Background()

	s, err := m.Issue(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, s.ID, TokenLength)
	assert.WithinDuration(t, now.Add(time.Hour), s.ExpiresAt, time.Second)

	userID, err := m.Resolve(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, userID)

	other, err := m.Issue(ctx, 7)
	require.NoError(t, err)
	assert.NotEqual(t, s.ID, other.ID, "each login gets its own session")
}

func TestManager_ResolveUnknown(t *testing.T) {
	now := time.Now()
	m, _ := newTestManager(&now)

	_, err := m.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Resolve(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_ResolveExpired(t *testing.T) {
	now := time.Now()
	m, store := newTestManager(&now)
	ctx := context.Background()

	s, err := m.Issue(ctx, 1)
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = m.Resolve(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, store.Len(), "expired session is deleted on access")
}

func TestManager_Destroy(t *testing.T) {
	now := time.Now()
	m, _ := newTestManager(&now)
	ctx := context.Background()

	s, err := m.Issue(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, m.Destroy(ctx, s.ID))

	_, err = m.Resolve(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, m.Destroy(ctx, s.ID), "destroying twice is harmless")
	assert.NoError(t, m.Destroy(ctx, ""))
}

func TestManager_CookieRoundTrip(t *testing.T) {
	now := time.Now()
	m, _ := newTestManager(&now)

	s, err := m.Issue(context.Background(), 3)
	require.NoError(t, err)

	c, err := m.Cookie(s)
	require.NoError(t, err)
	assert.Equal(t, DefaultCookieName, c.Name)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 3600, c.MaxAge)
	assert.NotEqual(t, s.ID, c.Value, "cookie carries a signed value")

	sid, ok := m.SessionID(requestWithCookie(c))
	require.True(t, ok)
	assert.Equal(t, s.ID, sid)
}

func TestManager_SessionIDRejectsBadCookies(t *testing.T) {
	now := time.Now()
	m, _ := newTestManager(&now)

	s, err := m.Issue(context.Background(), 3)
	require.NoError(t, err)
	good, err := m.Cookie(s)
	require.NoError(t, err)

	_, ok := m.SessionID(requestWithCookie(nil))
	assert.False(t, ok, "no cookie")

	_, ok = m.SessionID(requestWithCookie(&http.Cookie{Name: DefaultCookieName, Value: s.ID}))
	assert.False(t, ok, "unsigned session id")

	parts := strings.Split(good.Value, ".")
	require.Len(t, parts, 3)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf(`{"sid":"someone-else","exp":%d}`, now.Add(time.Hour).Unix())))
	tampered := *good
	tampered.Value = strings.Join(parts, ".")
	_, ok = m.SessionID(requestWithCookie(&tampered))
	assert.False(t, ok, "tampered signature")

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cookieClaims{
		SID:              s.ID,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
	}).SignedString([]byte("another-secret"))
	require.NoError(t, err)
	_, ok = m.SessionID(requestWithCookie(&http.Cookie{Name: DefaultCookieName, Value: forged}))
	assert.False(t, ok, "signed with another secret")

	now = now.Add(2 * time.Hour)
	_, ok = m.SessionID(requestWithCookie(good))
	assert.False(t, ok, "expired cookie")
}

func TestManager_ClearCookie(t *testing.T) {
	now := time.Now()
	m, _ := newTestManager(&now)

	c := m.ClearCookie()
	assert.Equal(t, DefaultCookieName, c.Name)
	assert.Empty(t, c.Value)
	assert.Negative(t, c.MaxAge)
}
