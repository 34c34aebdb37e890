package repository

import (
	"context"
	"testing"

	"fantasyleague/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetByID(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("user not found", func(t *testing.T) {
		user, err := repo.GetByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("user found", func(t *testing.T) {
		created, err := repo.Create(ctx, "somebody", false)
		require.NoError(t, err)

		user, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.Equal(t, created.ID, user.ID)
		assert.Equal(t, "somebody", user.Username)
		assert.False(t, user.IsAdmin)
		assert.Equal(t, created.CreatedAt, user.CreatedAt)
	})
}

func TestUserRepository_Create(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("creates regular user", func(t *testing.T) {
		user, err := repo.Create(ctx, "player", false)
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.NotZero(t, user.ID)
		assert.Equal(t, "player", user.Username)
		assert.False(t, user.IsAdmin)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("creates admin", func(t *testing.T) {
		admin, err := repo.Create(ctx, "commissioner", true)
		require.NoError(t, err)
		assert.True(t, admin.IsAdmin)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := repo.Create(ctx, "taken", false)
		require.NoError(t, err)

		_, err = repo.Create(ctx, "taken", false)
		assert.Error(t, err)
	})
}
