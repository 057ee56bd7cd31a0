package bookmarks

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/crucial707/newsdesk/cmd/cli/config"
	"github.com/crucial707/newsdesk/internal/models"
	"github.com/crucial707/newsdesk/internal/session"
)

// fakeBookmarks is an in-process bookmarks API that requires the session cookie.
type fakeBookmarks struct {
	mu    sync.Mutex
	saved map[int]bool
}

func newAPI(t *testing.T) *fakeBookmarks {
	t.Helper()
	api := &fakeBookmarks{saved: make(map[int]bool)}

	mux := http.NewServeMux()
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if c, err := r.Cookie(session.DefaultCookieName); err != nil || c.Value != "signed-cookie" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}
			h(w, r)
		}
	}
	mux.HandleFunc("POST /api/bookmarks", authed(func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			ArticleID int `json:"articleId"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		api.mu.Lock()
		api.saved[in.ArticleID] = true
		api.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(models.Bookmark{ID: 1, UserID: 7, ArticleID: in.ArticleID})
	}))
	mux.HandleFunc("DELETE /api/bookmarks/{articleId}", authed(func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		defer api.mu.Unlock()
		if r.PathValue("articleId") != "3" || !api.saved[3] {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"bookmark not found"}`))
			return
		}
		delete(api.saved, 3)
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.HandleFunc("GET /api/bookmarks", authed(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]models.BookmarkWithArticle{{
			Bookmark: models.Bookmark{ID: 1, UserID: 7, ArticleID: 3, CreatedAt: time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)},
			Article:  models.Article{ID: 3, Title: "Rover lands", Category: models.CategoryScience},
		}})
	}))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	t.Setenv("NEWSDESK_API_URL", srv.URL)
	t.Setenv("NEWSDESK_SESSION_FILE", filepath.Join(t.TempDir(), "session"))
	return api
}

func (f *fakeBookmarks) has(id int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saved[id]
}

func login(t *testing.T) {
	t.Helper()
	if err := config.SaveSession("signed-cookie"); err != nil {
		t.Fatalf("save session: %v", err)
	}
}

func TestAddAndRemoveBookmark(t *testing.T) {
	api := newAPI(t)
	login(t)

	add := addCmd()
	var out bytes.Buffer
	add.SetOut(&out)
	if err := add.RunE(add, []string{"3"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !api.has(3) || !strings.Contains(out.String(), "Article 3 bookmarked.") {
		t.Fatalf("bookmark not saved, output: %s", out.String())
	}

	remove := removeCmd()
	out.Reset()
	remove.SetOut(&out)
	if err := remove.RunE(remove, []string{"3"}); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if api.has(3) || !strings.Contains(out.String(), "Bookmark on article 3 removed.") {
		t.Fatalf("bookmark not removed, output: %s", out.String())
	}

	err := remove.RunE(remove, []string{"3"})
	if err == nil || !strings.Contains(err.Error(), "status 404: bookmark not found") {
		t.Fatalf("expected not found error, got: %v", err)
	}
}

func TestAddBookmark_InvalidID(t *testing.T) {
	newAPI(t)
	login(t)

	add := addCmd()
	add.SetOut(&bytes.Buffer{})
	if err := add.RunE(add, []string{"abc"}); err == nil || !strings.Contains(err.Error(), "invalid article id") {
		t.Fatalf("expected invalid id error, got: %v", err)
	}
}

func TestAddBookmark_RequiresLogin(t *testing.T) {
	api := newAPI(t)

	add := addCmd()
	add.SetOut(&bytes.Buffer{})
	err := add.RunE(add, []string{"3"})
	if err == nil || !strings.Contains(err.Error(), "status 401: unauthorized") {
		t.Fatalf("expected unauthorized error, got: %v", err)
	}
	if api.has(3) {
		t.Fatal("anonymous add must not save a bookmark")
	}
}

func TestListBookmarks_TableOutput(t *testing.T) {
	newAPI(t)
	login(t)

	list := listCmd()
	var out bytes.Buffer
	list.SetOut(&out)
	if err := list.RunE(list, nil); err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"Rover lands", "Science", "2026-04-02"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %q in output, got: %s", want, out.String())
		}
	}
}
