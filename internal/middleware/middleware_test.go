package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/crucial707/newsdesk/internal/models"
	"golang.org/x/time/rate"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestRequireAuth_Anonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/bookmarks", nil)
	rr := httptest.NewRecorder()

	RequireAuth(okHandler).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if body := decodeError(t, rr); body["error"] != "unauthorized" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestRequireAuth_LoggedIn(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/bookmarks", nil)
	req = req.WithContext(WithUser(req.Context(), &models.User{ID: 1}))
	rr := httptest.NewRecorder()

	RequireAuth(okHandler).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rr.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	cases := []struct {
		name string
		user *models.User
		want int
	}{
		{"anonymous", nil, http.StatusForbidden},
		{"reader", &models.User{ID: 2}, http.StatusForbidden},
		{"admin", &models.User{ID: 1, IsAdmin: true}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
			if tc.user != nil {
				req = req.WithContext(WithUser(req.Context(), tc.user))
			}
			rr := httptest.NewRecorder()

			RequireAdmin(okHandler).ServeHTTP(rr, req)

			if rr.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rr.Code)
			}
			if tc.want == http.StatusForbidden {
				if body := decodeError(t, rr); body["error"] != "forbidden" {
					t.Errorf("unexpected body: %v", body)
				}
			}
		})
	}
}

type fakeSessions struct{ sid string }

func (f fakeSessions) SessionID(r *http.Request) (string, bool) {
	return f.sid, f.sid != ""
}

type fakeUsers struct {
	user *models.User
	err  error
}

func (f fakeUsers) CurrentUser(ctx context.Context, sid string) (*models.User, error) {
	return f.user, f.err
}

func TestCurrentUser(t *testing.T) {
	cases := []struct {
		name     string
		sessions fakeSessions
		users    fakeUsers
		wantUser bool
		wantSID  string
	}{
		{"no cookie", fakeSessions{}, fakeUsers{user: &models.User{ID: 1}}, false, ""},
		{"valid session", fakeSessions{sid: "abc"}, fakeUsers{user: &models.User{ID: 1}}, true, "abc"},
		{"stale session", fakeSessions{sid: "abc"}, fakeUsers{}, false, "abc"},
		{"resolver error", fakeSessions{sid: "abc"}, fakeUsers{err: errors.New("db down")}, false, "abc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var gotUser *models.User
			var gotSID string
			h := CurrentUser(tc.sessions, tc.users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser = UserFromContext(r.Context())
				gotSID = SessionIDFromContext(r.Context())
			}))

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/user", nil))

			if rr.Code != http.StatusOK {
				t.Errorf("CurrentUser must never reject, got %d", rr.Code)
			}
			if (gotUser != nil) != tc.wantUser {
				t.Errorf("user present = %v, want %v", gotUser != nil, tc.wantUser)
			}
			if gotSID != tc.wantSID {
				t.Errorf("session id = %q, want %q", gotSID, tc.wantSID)
			}
		})
	}
}

func TestRecoverer(t *testing.T) {
	h := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	body := decodeError(t, rr)
	if body["error"] != "internal server error" {
		t.Errorf("unexpected error message: %v", body)
	}
	if body["incident"] == "" {
		t.Error("expected an incident id")
	}
}

func TestCORS_AllowsListedOriginWithCredentials(t *testing.T) {
	h := CORS([]string{"http://localhost:5173/"})(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("Allow-Credentials = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	req.Header.Set("Origin", "http://evil.example")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unlisted origin allowed: %q", got)
	}
}

func TestCORS_Preflight(t *testing.T) {
	h := CORS([]string{"http://localhost:5173"})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/login", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rr.Code)
	}
}

func TestCORS_WildcardIsIgnored(t *testing.T) {
	h := CORS([]string{"*"})(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("wildcard must not enable credentialed CORS, got %q", got)
	}
}

func TestIPRateLimiter(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1.0/60.0), 2)
	h := l.Middleware(okHandler)

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		req.RemoteAddr = ip + ":4321"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	if code := send("10.0.0.1"); code != http.StatusOK {
		t.Fatalf("first request: %d", code)
	}
	if code := send("10.0.0.1"); code != http.StatusOK {
		t.Fatalf("second request: %d", code)
	}
	if code := send("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("third request: expected 429, got %d", code)
	}
	if code := send("10.0.0.2"); code != http.StatusOK {
		t.Errorf("other client: expected 200, got %d", code)
	}
}

func TestIPRateLimiter_ForwardedFor(t *testing.T) {
	send := func(h http.Handler, xff string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		req.RemoteAddr = "192.0.2.10:4321"
		req.Header.Set("X-Forwarded-For", xff)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	// Rotating the header does not reset the bucket of a direct client.
	direct := NewIPRateLimiter(rate.Limit(1.0/60.0), 1).Middleware(okHandler)
	if code := send(direct, "203.0.113.1"); code != http.StatusOK {
		t.Fatalf("first request: %d", code)
	}
	if code := send(direct, "203.0.113.2"); code != http.StatusTooManyRequests {
		t.Errorf("spoofed header: expected 429, got %d", code)
	}

	proxied := NewIPRateLimiter(rate.Limit(1.0/60.0), 1)
	proxied.TrustProxy = true
	h := proxied.Middleware(okHandler)
	if code := send(h, "203.0.113.1, 10.0.0.1"); code != http.StatusOK {
		t.Fatalf("first proxied client: %d", code)
	}
	if code := send(h, "203.0.113.2, 10.0.0.1"); code != http.StatusOK {
		t.Errorf("second proxied client: expected 200, got %d", code)
	}
	if code := send(h, "203.0.113.1, 10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("repeat proxied client: expected 429, got %d", code)
	}
}

func TestIPRateLimiter_Cleanup(t *testing.T) {
	now := time.Now()
	l := NewIPRateLimiter(rate.Limit(1), 1)
	l.now = func() time.Time { return now }
	l.allow("10.0.0.1")

	if n := l.Cleanup(); n != 0 {
		t.Errorf("fresh bucket removed: %d", n)
	}
	now = now.Add(time.Hour)
	if n := l.Cleanup(); n != 1 {
		t.Errorf("expected idle bucket removed, got %d", n)
	}
}

func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(true)(okHandler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	for _, h := range []string{"X-Content-Type-Options", "X-Frame-Options", "Cache-Control", "Strict-Transport-Security"} {
		if rr.Header().Get(h) == "" {
			t.Errorf("missing header %s", h)
		}
	}
}
