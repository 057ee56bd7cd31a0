package repo

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/newsdesk/internal/models"
	"github.com/lib/pq"
)

var userRowColumns = []string{"id", "username", "password", "first_name", "last_name", "is_admin", "created_at"}

func TestPostgresStore_CreateUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	first := "Alice"
	mock.ExpectQuery(`INSERT INTO users \(username, password, first_name, last_name, is_admin\)`).
		WithArgs("alice@example.com", "hashed", "Alice", nil).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(1, "alice@example.com", "hashed", "Alice", nil, false, time.Now()))

	store := NewPostgresStore(db)
	user, err := store.CreateUser(context.Background(), models.InsertUser{
		Username:  "alice@example.com",
		Password:  "hashed",
		FirstName: &first,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.ID != 1 || user.Username != "alice@example.com" || user.IsAdmin {
		t.Errorf("unexpected user: %+v", user)
	}
	if user.FirstName == nil || *user.FirstName != "Alice" || user.LastName != nil {
		t.Errorf("unexpected names: first=%v last=%v", user.FirstName, user.LastName)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostgresStore_CreateUser_Duplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: codeUniqueViolation})

	store := NewPostgresStore(db)
	_, err = store.CreateUser(context.Background(), models.InsertUser{Username: "alice@example.com", Password: "hashed"})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostgresStore_GetUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, username, password, first_name, last_name, is_admin, created_at\s+FROM users\s+WHERE id = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(1, "bob@example.com", "hashed", nil, nil, true, time.Now()))

	store := NewPostgresStore(db)
	user, err := store.GetUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if user.ID != 1 || user.Username != "bob@example.com" || !user.IsAdmin {
		t.Errorf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostgresStore_GetUser_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM users\s+WHERE id = \$1`).
		WithArgs(999).
		WillReturnError(sql.ErrNoRows)

	store := NewPostgresStore(db)
	_, err = store.GetUser(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostgresStore_GetUserByUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM users\s+WHERE username = \$1`).
		WithArgs("carol@example.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(3, "carol@example.com", "hashed", "Carol", "Jones", false, time.Now()))

	store := NewPostgresStore(db)
	user, err := store.GetUserByUsername(context.Background(), "carol@example.com")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if user.PasswordHash != "hashed" {
		t.Errorf("password hash not scanned: %+v", user)
	}
	if user.LastName == nil || *user.LastName != "Jones" {
		t.Errorf("unexpected last name: %v", user.LastName)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostgresStore_ListUsers(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT .* FROM users ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(1, "a@example.com", "h1", nil, nil, true, now).
			AddRow(2, "b@example.com", "h2", nil, nil, false, now))

	store := NewPostgresStore(db)
	users, err := store.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 || users[0].ID != 1 || users[1].ID != 2 {
		t.Errorf("unexpected users: %+v", users)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostgresStore_SetAdmin(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE users SET is_admin = \$1 WHERE id = \$2`).
		WithArgs(true, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE users SET is_admin = \$1 WHERE id = \$2`).
		WithArgs(true, 42).
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewPostgresStore(db)
	if err := store.SetAdmin(context.Background(), 1, true); err != nil {
		t.Fatalf("SetAdmin: %v", err)
	}
	if err := store.SetAdmin(context.Background(), 42, true); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing user, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
