package repo

import (
	"context"
	"database/sql"

	"github.com/crucial707/newsdesk/internal/models"
	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique key is already taken.
	ErrConflict = errors.New("conflict")
)

// Backend kinds accepted by New.
const (
	KindMemory   = "memory"
	KindPostgres = "postgres"
)

// UserStore covers user records.
type UserStore interface {
	GetUser(ctx context.Context, id int) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// CreateUser stores u. u.Password must already hold the password hash.
	CreateUser(ctx context.Context, u models.InsertUser) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	// SetAdmin changes the admin flag. Only the bootstrap path calls it.
	SetAdmin(ctx context.Context, id int, admin bool) error
}

// ArticleStore covers article records.
type ArticleStore interface {
	ListArticles(ctx context.Context, filter models.ArticleFilter) ([]models.Article, error)
	GetArticle(ctx context.Context, id int) (*models.Article, error)
	CreateArticle(ctx context.Context, a models.InsertArticle) (*models.Article, error)
	UpdateArticle(ctx context.Context, id int, patch models.ArticlePatch) (*models.Article, error)
	// DeleteArticle removes the article and its bookmarks.
	DeleteArticle(ctx context.Context, id int) (bool, error)
}

// BookmarkStore covers bookmark records.
type BookmarkStore interface {
	GetBookmarks(ctx context.Context, userID int) ([]models.Bookmark, error)
	GetBookmarksByUser(ctx context.Context, userID int) ([]models.BookmarkWithArticle, error)
	GetBookmark(ctx context.Context, userID, articleID int) (*models.Bookmark, error)
	// CreateBookmark returns the existing bookmark when the pair is already bookmarked.
	CreateBookmark(ctx context.Context, b models.InsertBookmark) (*models.Bookmark, error)
	DeleteBookmark(ctx context.Context, userID, articleID int) (bool, error)
}

// Store is the full storage contract. MemoryStore and PostgresStore behave identically.
type Store interface {
	UserStore
	ArticleStore
	BookmarkStore
	Ping(ctx context.Context) error
}

// New returns the backend named by kind. db is only used by the postgres backend.
func New(kind string, db *sql.DB) (Store, error) {
	switch kind {
	case KindMemory:
		return NewMemoryStore(), nil
	case KindPostgres:
		if db == nil {
			return nil, errors.New("postgres storage requires a database connection")
		}
		return NewPostgresStore(db), nil
	}
	return nil, errors.Errorf("unknown storage kind %q", kind)
}

// effectiveStatus applies the default list status.
func effectiveStatus(f models.ArticleFilter) models.Status {
	if f.Status == "" {
		return models.StatusPublished
	}
	return f.Status
}

// effectiveCategory folds the "All" sentinel into no restriction.
func effectiveCategory(f models.ArticleFilter) models.Category {
	if f.Category == models.CategoryAll {
		return ""
	}
	return f.Category
}
