// Package auth verifies credentials and binds users to sessions.
package auth

import (
	"context"

	"github.com/crucial707/newsdesk/internal/metrics"
	"github.com/crucial707/newsdesk/internal/models"
	"github.com/crucial707/newsdesk/internal/repo"
	"github.com/crucial707/newsdesk/internal/session"
	"github.com/pkg/errors"
)

var (
	// ErrInvalidCredentials is returned for an unknown username or a wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("username already exists")
)

// Service implements registration, login, logout and current-user lookup.
type Service struct {
	Store    repo.UserStore
	Sessions *session.Manager
}

// NewService returns a Service.
func NewService(store repo.UserStore, sessions *session.Manager) *Service {
	return &Service{Store: store, Sessions: sessions}
}

// Register creates the user and logs them in.
func (s *Service) Register(ctx context.Context, in models.InsertUser) (*models.User, *session.Session, error) {
	_, err := s.Store.GetUserByUsername(ctx, in.Username)
	switch {
	case err == nil:
		metrics.IncAuthAttempt("register", "conflict")
		return nil, nil, ErrUsernameTaken
	case !errors.Is(err, repo.ErrNotFound):
		metrics.IncAuthAttempt("register", "error")
		return nil, nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		metrics.IncAuthAttempt("register", "error")
		return nil, nil, errors.Wrap(err, "could not hash password")
	}
	in.Password = hash

	user, err := s.Store.CreateUser(ctx, in)
	if errors.Is(err, repo.ErrConflict) {
		metrics.IncAuthAttempt("register", "conflict")
		return nil, nil, ErrUsernameTaken
	}
	if err != nil {
		metrics.IncAuthAttempt("register", "error")
		return nil, nil, err
	}

	sess, err := s.Sessions.Issue(ctx, user.ID)
	if err != nil {
		metrics.IncAuthAttempt("register", "error")
		return nil, nil, err
	}
	metrics.IncAuthAttempt("register", "ok")
	return user, sess, nil
}

// Login checks the credentials and issues a new session.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, *session.Session, error) {
	user, err := s.Store.GetUserByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		CheckPassword(string(dummyHash), password)
		metrics.IncAuthAttempt("login", "invalid")
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		metrics.IncAuthAttempt("login", "error")
		return nil, nil, err
	}

	if !CheckPassword(user.PasswordHash, password) {
		metrics.IncAuthAttempt("login", "invalid")
		return nil, nil, ErrInvalidCredentials
	}

	sess, err := s.Sessions.Issue(ctx, user.ID)
	if err != nil {
		metrics.IncAuthAttempt("login", "error")
		return nil, nil, err
	}
	metrics.IncAuthAttempt("login", "ok")
	return user, sess, nil
}

// Logout destroys the session. An empty sid is a no-op.
func (s *Service) Logout(ctx context.Context, sid string) error {
	return s.Sessions.Destroy(ctx, sid)
}

// CurrentUser resolves the user behind sid. A missing or expired session, or a
// session whose user no longer exists, returns (nil, nil).
func (s *Service) CurrentUser(ctx context.Context, sid string) (*models.User, error) {
	userID, err := s.Sessions.Resolve(ctx, sid)
	if errors.Is(err, session.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	user, err := s.Store.GetUser(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
