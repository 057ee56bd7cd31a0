package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/crucial707/newsdesk/internal/models"
)

// MemoryStore keeps everything in maps. It is meant for development and tests.
// Identifiers come from per-kind counters and are never reused.
type MemoryStore struct {
	mu sync.RWMutex

	users     map[int]models.User
	articles  map[int]models.Article
	bookmarks map[int]models.Bookmark

	nextUserID     int
	nextArticleID  int
	nextBookmarkID int

	now func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:          make(map[int]models.User),
		articles:       make(map[int]models.Article),
		bookmarks:      make(map[int]models.Bookmark),
		nextUserID:     1,
		nextArticleID:  1,
		nextBookmarkID: 1,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// ==========================
// Users
// ==========================

func (s *MemoryStore) GetUser(ctx context.Context, id int) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreateUser(ctx context.Context, in models.InsertUser) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == in.Username {
			return nil, ErrConflict
		}
	}
	u := models.User{
		ID:           s.nextUserID,
		Username:     in.Username,
		PasswordHash: in.Password,
		FirstName:    copyString(in.FirstName),
		LastName:     copyString(in.LastName),
		IsAdmin:      false,
		CreatedAt:    s.now(),
	}
	s.nextUserID++
	s.users[u.ID] = u
	return cloneUser(u), nil
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) SetAdmin(ctx context.Context, id int, admin bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.IsAdmin = admin
	s.users[id] = u
	return nil
}

// ==========================
// Articles
// ==========================

func (s *MemoryStore) ListArticles(ctx context.Context, filter models.ArticleFilter) ([]models.Article, error) {
	status := effectiveStatus(filter)
	category := effectiveCategory(filter)

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Article, 0)
	for _, a := range s.articles {
		if a.Status != status {
			continue
		}
		if category != "" && a.Category != category {
			continue
		}
		out = append(out, *cloneArticle(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) GetArticle(ctx context.Context, id int) (*models.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.articles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneArticle(a), nil
}

func (s *MemoryStore) CreateArticle(ctx context.Context, in models.InsertArticle) (*models.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := in.Status
	if status == "" {
		status = models.StatusDraft
	}
	now := s.now()
	a := models.Article{
		ID:               s.nextArticleID,
		Title:            in.Title,
		Content:          in.Content,
		Summary:          copyString(in.Summary),
		AuthorID:         in.AuthorID,
		Category:         in.Category,
		FeaturedImageURL: copyString(in.FeaturedImageURL),
		Status:           status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	s.nextArticleID++
	s.articles[a.ID] = a
	return cloneArticle(a), nil
}

func (s *MemoryStore) UpdateArticle(ctx context.Context, id int, patch models.ArticlePatch) (*models.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(&a)
	a.Summary = copyString(a.Summary)
	a.FeaturedImageURL = copyString(a.FeaturedImageURL)
	a.UpdatedAt = s.now()
	s.articles[id] = a
	return cloneArticle(a), nil
}

func (s *MemoryStore) DeleteArticle(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.articles[id]; !ok {
		return false, nil
	}
	delete(s.articles, id)
	for bid, b := range s.bookmarks {
		if b.ArticleID == id {
			delete(s.bookmarks, bid)
		}
	}
	return true, nil
}

// ==========================
// Bookmarks
// ==========================

func (s *MemoryStore) GetBookmarks(ctx context.Context, userID int) ([]models.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bookmarksOf(userID), nil
}

func (s *MemoryStore) GetBookmarksByUser(ctx context.Context, userID int) ([]models.BookmarkWithArticle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.BookmarkWithArticle, 0)
	for _, b := range s.bookmarksOf(userID) {
		a, ok := s.articles[b.ArticleID]
		if !ok {
			continue
		}
		out = append(out, models.BookmarkWithArticle{Bookmark: b, Article: *cloneArticle(a)})
	}
	return out, nil
}

func (s *MemoryStore) GetBookmark(ctx context.Context, userID, articleID int) (*models.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b, ok := s.findBookmark(userID, articleID); ok {
		return &b, nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreateBookmark(ctx context.Context, in models.InsertBookmark) (*models.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.findBookmark(in.UserID, in.ArticleID); ok {
		return &b, nil
	}
	// Mirrors the foreign keys of the relational schema.
	if _, ok := s.users[in.UserID]; !ok {
		return nil, ErrNotFound
	}
	if _, ok := s.articles[in.ArticleID]; !ok {
		return nil, ErrNotFound
	}
	b := models.Bookmark{
		ID:        s.nextBookmarkID,
		UserID:    in.UserID,
		ArticleID: in.ArticleID,
		CreatedAt: s.now(),
	}
	s.nextBookmarkID++
	s.bookmarks[b.ID] = b
	return &b, nil
}

func (s *MemoryStore) DeleteBookmark(ctx context.Context, userID, articleID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.findBookmark(userID, articleID)
	if !ok {
		return false, nil
	}
	delete(s.bookmarks, b.ID)
	return true, nil
}

// bookmarksOf returns the user's bookmarks in id order. Caller holds the lock.
func (s *MemoryStore) bookmarksOf(userID int) []models.Bookmark {
	out := make([]models.Bookmark, 0)
	for _, b := range s.bookmarks {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// findBookmark scans for the (user, article) pair. Caller holds the lock.
func (s *MemoryStore) findBookmark(userID, articleID int) (models.Bookmark, bool) {
	for _, b := range s.bookmarks {
		if b.UserID == userID && b.ArticleID == articleID {
			return b, true
		}
	}
	return models.Bookmark{}, false
}

// cloneUser and cloneArticle detach returned records from the stored ones.
func cloneUser(u models.User) *models.User {
	u.FirstName = copyString(u.FirstName)
	u.LastName = copyString(u.LastName)
	return &u
}

func cloneArticle(a models.Article) *models.Article {
	a.Summary = copyString(a.Summary)
	a.FeaturedImageURL = copyString(a.FeaturedImageURL)
	return &a
}

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
