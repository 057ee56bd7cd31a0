package session

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

// PostgresStore keeps sessions in the sessions table.
type PostgresStore struct {
	DB *sql.DB
}

// NewPostgresStore returns a PostgresStore using db.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

// ==========================
// Save
// ==========================
func (p *PostgresStore) Save(ctx context.Context, s *Session) error {
	query := `
		INSERT INTO sessions (sid, user_id, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (sid) DO UPDATE SET user_id = EXCLUDED.user_id, expires_at = EXCLUDED.expires_at
	`
	_, err := p.DB.ExecContext(ctx, query, s.ID, s.UserID, s.ExpiresAt)
	return errors.Wrap(err, "could not save session")
}

// ==========================
// Get
// ==========================
func (p *PostgresStore) Get(ctx context.Context, id string) (*Session, error) {
	var s Session
	err := p.DB.QueryRowContext(ctx,
		`SELECT sid, user_id, expires_at FROM sessions WHERE sid = $1`,
		id,
	).Scan(&s.ID, &s.UserID, &s.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not get session")
	}
	return &s, nil
}

// ==========================
// Delete
// ==========================
func (p *PostgresStore) Delete(ctx context.Context, id string) error {
	_, err := p.DB.ExecContext(ctx, `DELETE FROM sessions WHERE sid = $1`, id)
	return errors.Wrap(err, "could not delete session")
}

// ==========================
// Delete Expired
// ==========================
func (p *PostgresStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	result, err := p.DB.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, errors.Wrap(err, "could not delete expired sessions")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "could not delete expired sessions")
	}
	return int(rows), nil
}
