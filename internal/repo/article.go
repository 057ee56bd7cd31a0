package repo

import (
	"context"
	"database/sql"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/crucial707/newsdesk/internal/models"
	"github.com/pkg/errors"
)

var articleColumns = []string{
	"id", "title", "content", "summary", "author_id", "category",
	"featured_image_url", "status", "created_at", "updated_at",
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var (
		a       models.Article
		summary sql.NullString
		image   sql.NullString
	)
	err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Content,
		&summary,
		&a.AuthorID,
		&a.Category,
		&image,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Summary = nullString(summary)
	a.FeaturedImageURL = nullString(image)
	return &a, nil
}

// ========================
// LIST ARTICLES
// ========================

func (r *PostgresStore) ListArticles(ctx context.Context, filter models.ArticleFilter) ([]models.Article, error) {
	q := r.psql.Select(articleColumns...).
		From("articles").
		Where(sq.Eq{"status": string(effectiveStatus(filter))}).
		OrderBy("created_at DESC", "id DESC")
	if category := effectiveCategory(filter); category != "" {
		q = q.Where(sq.Eq{"category": string(category)})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "could not build article query")
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "could not list articles")
	}
	defer rows.Close()

	articles := make([]models.Article, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, errors.Wrap(err, "could not scan article")
		}
		articles = append(articles, *a)
	}
	return articles, rows.Err()
}

// ========================
// GET ARTICLE BY ID
// ========================

func (r *PostgresStore) GetArticle(ctx context.Context, id int) (*models.Article, error) {
	query, args, err := r.psql.Select(articleColumns...).
		From("articles").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "could not build article query")
	}

	a, err := scanArticle(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not get article")
	}
	return a, nil
}

// ========================
// CREATE ARTICLE
// ========================

func (r *PostgresStore) CreateArticle(ctx context.Context, in models.InsertArticle) (*models.Article, error) {
	status := in.Status
	if status == "" {
		status = models.StatusDraft
	}

	query, args, err := r.psql.Insert("articles").
		Columns("title", "content", "summary", "author_id", "category", "featured_image_url", "status", "created_at", "updated_at").
		Values(in.Title, in.Content, in.Summary, in.AuthorID, string(in.Category), in.FeaturedImageURL, string(status), sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix("RETURNING " + strings.Join(articleColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "could not build article insert")
	}

	a, err := scanArticle(r.DB.QueryRowContext(ctx, query, args...))
	if pqCode(err) == codeForeignKeyViolation {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not create article")
	}
	return a, nil
}

// ========================
// UPDATE ARTICLE BY ID
// ========================

func (r *PostgresStore) UpdateArticle(ctx context.Context, id int, patch models.ArticlePatch) (*models.Article, error) {
	q := r.psql.Update("articles")
	if patch.Title != nil {
		q = q.Set("title", *patch.Title)
	}
	if patch.Content != nil {
		q = q.Set("content", *patch.Content)
	}
	if patch.Summary != nil {
		q = q.Set("summary", *patch.Summary)
	}
	if patch.Category != nil {
		q = q.Set("category", string(*patch.Category))
	}
	if patch.FeaturedImageURL != nil {
		q = q.Set("featured_image_url", *patch.FeaturedImageURL)
	}
	if patch.Status != nil {
		q = q.Set("status", string(*patch.Status))
	}
	q = q.Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(articleColumns, ", "))

	query, args, err := q.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "could not build article update")
	}

	a, err := scanArticle(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not update article")
	}
	return a, nil
}

// ========================
// DELETE ARTICLE BY ID
// ========================

// DeleteArticle relies on the bookmarks foreign key (ON DELETE CASCADE) to drop bookmarks.
func (r *PostgresStore) DeleteArticle(ctx context.Context, id int) (bool, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return false, errors.Wrap(err, "could not delete article")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "could not delete article")
	}
	return rows > 0, nil
}
