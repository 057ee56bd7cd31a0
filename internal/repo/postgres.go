package repo

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// PostgresStore implements Store on top of database/sql and lib/pq.
// Identifier assignment and filtering are left to the database.
type PostgresStore struct {
	DB *sql.DB

	psql sq.StatementBuilderType
}

// NewPostgresStore returns a PostgresStore using db.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		DB:   db,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *PostgresStore) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

// pq error codes.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
