package repo

import (
	"context"
	"database/sql"

	"github.com/crucial707/newsdesk/internal/models"
	"github.com/pkg/errors"
)

const userColumns = `id, username, password, first_name, last_name, is_admin, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u     models.User
		first sql.NullString
		last  sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &first, &last, &u.IsAdmin, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.FirstName = nullString(first)
	u.LastName = nullString(last)
	return &u, nil
}

// ==========================
// Get By ID
// ==========================
func (r *PostgresStore) GetUser(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not get user")
	}
	return user, nil
}

// ==========================
// Get By Username
// ==========================
func (r *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE username = $1
	`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not get user by username")
	}
	return user, nil
}

// ==========================
// Create User
// ==========================
func (r *PostgresStore) CreateUser(ctx context.Context, in models.InsertUser) (*models.User, error) {
	query := `
		INSERT INTO users (username, password, first_name, last_name, is_admin)
		VALUES ($1, $2, $3, $4, false)
		RETURNING ` + userColumns

	user, err := scanUser(r.DB.QueryRowContext(ctx, query, in.Username, in.Password, in.FirstName, in.LastName))
	if pqCode(err) == codeUniqueViolation {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not create user")
	}
	return user, nil
}

// ==========================
// List Users
// ==========================
func (r *PostgresStore) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "could not list users")
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, errors.Wrap(err, "could not scan user")
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// ==========================
// Set Admin
// ==========================
func (r *PostgresStore) SetAdmin(ctx context.Context, id int, admin bool) error {
	result, err := r.DB.ExecContext(ctx, `UPDATE users SET is_admin = $1 WHERE id = $2`, admin, id)
	if err != nil {
		return errors.Wrap(err, "could not update admin flag")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "could not update admin flag")
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
