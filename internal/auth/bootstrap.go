package auth

import (
	"context"

	"github.com/crucial707/newsdesk/internal/models"
	"github.com/crucial707/newsdesk/internal/repo"
	"github.com/pkg/errors"
)

// AdminAccount describes the administrator created at bootstrap.
type AdminAccount struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
}

// EnsureAdmin makes sure an admin account named a.Username exists. A missing
// user is created with a.Password; an existing one keeps its password and is
// promoted. It is safe to call on every start.
func EnsureAdmin(ctx context.Context, store repo.UserStore, a AdminAccount) (*models.User, error) {
	if a.Username == "" || a.Password == "" {
		return nil, errors.New("admin username and password are required")
	}

	user, err := store.GetUserByUsername(ctx, a.Username)
	if errors.Is(err, repo.ErrNotFound) {
		in := models.InsertUser{
			Username:  a.Username,
			Password:  a.Password,
			FirstName: optional(a.FirstName),
			LastName:  optional(a.LastName),
		}
		if err := models.Validate(in); err != nil {
			return nil, err
		}
		hash, err := HashPassword(a.Password)
		if err != nil {
			return nil, errors.Wrap(err, "could not hash admin password")
		}
		in.Password = hash
		user, err = store.CreateUser(ctx, in)
		if err != nil {
			return nil, errors.Wrap(err, "could not create admin")
		}
	} else if err != nil {
		return nil, err
	}

	if !user.IsAdmin {
		if err := store.SetAdmin(ctx, user.ID, true); err != nil {
			return nil, errors.Wrap(err, "could not promote admin")
		}
		user.IsAdmin = true
	}
	return user, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
