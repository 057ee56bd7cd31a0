package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/newsdesk/internal/repo"
)

func TestUserHandler_ListUsers(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT id, username, password, first_name, last_name, is_admin, created_at FROM users ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "first_name", "last_name", "is_admin", "created_at"}).
			AddRow(1, "admin@example.com", "$2a$10$hash", "Ada", nil, true, now).
			AddRow(2, "reader@example.com", "$2a$10$hash", nil, nil, false, now))

	h := &UserHandler{Store: repo.NewPostgresStore(db)}
	rr := httptest.NewRecorder()
	h.ListUsers(rr, asUser(requestWithChiURLParams("GET", "/api/admin/users", nil, nil), testAdmin))

	if rr.Code != http.StatusOK {
		t.Fatalf("ListUsers status: got %d, want 200", rr.Code)
	}
	var users []map[string]json.RawMessage
	decodeBody(t, rr, &users)
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	for _, u := range users {
		for _, forbidden := range []string{"password", "passwordHash", "PasswordHash"} {
			if _, ok := u[forbidden]; ok {
				t.Errorf("user leaks %s: %v", forbidden, u)
			}
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserHandler_ListUsers_StorageFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM users ORDER BY id`).
		WillReturnError(errors.New("connection refused"))

	h := &UserHandler{Store: repo.NewPostgresStore(db)}
	rr := httptest.NewRecorder()
	h.ListUsers(rr, asUser(requestWithChiURLParams("GET", "/api/admin/users", nil, nil), testAdmin))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("got %d, want 500", rr.Code)
	}
	var out ErrorResponse
	decodeBody(t, rr, &out)
	if out.Error != ErrMessageInternal || out.Incident == "" {
		t.Errorf("unexpected body: %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
