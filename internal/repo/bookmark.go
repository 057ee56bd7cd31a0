package repo

import (
	"context"
	"database/sql"

	"github.com/crucial707/newsdesk/internal/models"
	"github.com/pkg/errors"
)

const bookmarkColumns = `id, user_id, article_id, created_at`

func scanBookmark(row rowScanner) (*models.Bookmark, error) {
	var b models.Bookmark
	if err := row.Scan(&b.ID, &b.UserID, &b.ArticleID, &b.CreatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// ==========================
// List Bookmarks
// ==========================
func (r *PostgresStore) GetBookmarks(ctx context.Context, userID int) ([]models.Bookmark, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+bookmarkColumns+` FROM bookmarks WHERE user_id = $1 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "could not list bookmarks")
	}
	defer rows.Close()

	bookmarks := make([]models.Bookmark, 0)
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, errors.Wrap(err, "could not scan bookmark")
		}
		bookmarks = append(bookmarks, *b)
	}
	return bookmarks, rows.Err()
}

// ==========================
// List Bookmarks With Articles
// ==========================

// GetBookmarksByUser inner-joins articles, so a bookmark without its article never shows up.
func (r *PostgresStore) GetBookmarksByUser(ctx context.Context, userID int) ([]models.BookmarkWithArticle, error) {
	query := `
		SELECT b.id, b.user_id, b.article_id, b.created_at,
		       a.id, a.title, a.content, a.summary, a.author_id, a.category,
		       a.featured_image_url, a.status, a.created_at, a.updated_at
		FROM bookmarks b
		INNER JOIN articles a ON a.id = b.article_id
		WHERE b.user_id = $1
		ORDER BY b.id
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, errors.Wrap(err, "could not list bookmarked articles")
	}
	defer rows.Close()

	out := make([]models.BookmarkWithArticle, 0)
	for rows.Next() {
		var (
			item    models.BookmarkWithArticle
			summary sql.NullString
			image   sql.NullString
		)
		err := rows.Scan(
			&item.Bookmark.ID, &item.Bookmark.UserID, &item.Bookmark.ArticleID, &item.Bookmark.CreatedAt,
			&item.Article.ID, &item.Article.Title, &item.Article.Content, &summary, &item.Article.AuthorID,
			&item.Article.Category, &image, &item.Article.Status, &item.Article.CreatedAt, &item.Article.UpdatedAt,
		)
		if err != nil {
			return nil, errors.Wrap(err, "could not scan bookmarked article")
		}
		item.Article.Summary = nullString(summary)
		item.Article.FeaturedImageURL = nullString(image)
		out = append(out, item)
	}
	return out, rows.Err()
}

// ==========================
// Get Bookmark
// ==========================
func (r *PostgresStore) GetBookmark(ctx context.Context, userID, articleID int) (*models.Bookmark, error) {
	query := `
		SELECT ` + bookmarkColumns + `
		FROM bookmarks
		WHERE user_id = $1 AND article_id = $2
	`
	b, err := scanBookmark(r.DB.QueryRowContext(ctx, query, userID, articleID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not get bookmark")
	}
	return b, nil
}

// ==========================
// Create Bookmark
// ==========================

// CreateBookmark inserts the pair, or reads back the existing row when the unique
// (user_id, article_id) constraint already holds it.
func (r *PostgresStore) CreateBookmark(ctx context.Context, in models.InsertBookmark) (*models.Bookmark, error) {
	query := `
		INSERT INTO bookmarks (user_id, article_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, article_id) DO NOTHING
		RETURNING ` + bookmarkColumns

	b, err := scanBookmark(r.DB.QueryRowContext(ctx, query, in.UserID, in.ArticleID))
	switch {
	case err == nil:
		return b, nil
	case errors.Is(err, sql.ErrNoRows):
		return r.GetBookmark(ctx, in.UserID, in.ArticleID)
	case pqCode(err) == codeForeignKeyViolation:
		return nil, ErrNotFound
	}
	return nil, errors.Wrap(err, "could not create bookmark")
}

// ==========================
// Delete Bookmark
// ==========================
func (r *PostgresStore) DeleteBookmark(ctx context.Context, userID, articleID int) (bool, error) {
	b, err := r.GetBookmark(ctx, userID, articleID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	result, err := r.DB.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = $1`, b.ID)
	if err != nil {
		return false, errors.Wrap(err, "could not delete bookmark")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "could not delete bookmark")
	}
	return rows > 0, nil
}
