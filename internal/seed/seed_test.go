package seed

import (
	"context"
	"testing"

	"github.com/crucial707/newsdesk/internal/auth"
	"github.com/crucial707/newsdesk/internal/models"
	"github.com/crucial707/newsdesk/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = auth.AdminAccount{Username: "admin@example.com", Password: "adminpassword", FirstName: "Admin", LastName: "User"}

func TestSampleArticles_AreValid(t *testing.T) {
	for _, a := range SampleArticles(1) {
		assert.NoError(t, models.Validate(a), a.Title)
		assert.Equal(t, models.StatusPublished, a.Status)
		assert.Equal(t, 1, a.AuthorID)
	}
}

func TestRun_SeedsOnce(t *testing.T) {
	ctx := context.Background()
	store := repo.NewMemoryStore()

	n, err := Run(ctx, store, Options{Admin: admin, Samples: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	u, err := store.GetUserByUsername(ctx, admin.Username)
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)

	list, err := store.ListArticles(ctx, models.ArticleFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 3)

	n, err = Run(ctx, store, Options{Admin: admin, Samples: true}, nil)
	require.NoError(t, err)
	assert.Zero(t, n, "a store with articles is left alone")
}

func TestRun_WithoutAdmin(t *testing.T) {
	store := repo.NewMemoryStore()
	n, err := Run(context.Background(), store, Options{Samples: true}, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	users, err := store.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestRun_AdminOnly(t *testing.T) {
	store := repo.NewMemoryStore()
	n, err := Run(context.Background(), store, Options{Admin: admin}, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	list, err := store.ListArticles(context.Background(), models.ArticleFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}
