package postgres

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VitaminP8/petforum/internal/storage"
	"github.com/VitaminP8/petforum/models"
)

func TestUserPostgresStorage_Create(t *testing.T) {
	ctx := context.Background()
	s := NewUserPostgresStorage()

	t.Run("Successful user creation", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		user, err := s.Create(ctx, "testuser", "password123")
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "testuser", user.Username)

		// Проверяем, что в БД лежит хеш, а не пароль
		var dbUser models.User
		require.NoError(t, DB.Where("username = ?", "testuser").First(&dbUser).Error)
		assert.NotEqual(t, "password123", dbUser.Password)
	})

	t.Run("Create user with duplicate username", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		_, err := s.Create(ctx, "duplicateuser", "password123")
		require.NoError(t, err)

		// уникальный индекс срабатывает даже без предварительного Exists
		_, err = s.Create(ctx, "duplicateuser", "anotherpassword")
		assert.True(t, storage.IsConflict(err))
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("Exists", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		exists, err := s.Exists(ctx, "someone")
		require.NoError(t, err)
		assert.False(t, exists)

		createTestUser(t, "someone")

		exists, err = s.Exists(ctx, "someone")
		require.NoError(t, err)
		assert.True(t, exists)
	})
}

func TestUserPostgresStorage_FindByCredentials(t *testing.T) {
	ctx := context.Background()
	s := NewUserPostgresStorage()

	oldDB := setupTestDB(t)
	defer teardownTestDB(oldDB)

	created, err := s.Create(ctx, "loginuser", "loginpassword123")
	require.NoError(t, err)

	t.Run("Successful lookup returns the same id", func(t *testing.T) {
		user, err := s.FindByCredentials(ctx, "loginuser", "loginpassword123")
		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)
	})

	t.Run("Wrong password", func(t *testing.T) {
		_, err := s.FindByCredentials(ctx, "loginuser", "wrongpassword")
		assert.True(t, storage.IsNotFound(err))
	})

	t.Run("Non-existent user", func(t *testing.T) {
		_, err := s.FindByCredentials(ctx, "nonexistentuser", "password123")
		assert.True(t, storage.IsNotFound(err))
	})
}

func TestUserPostgresStorage_Lookup(t *testing.T) {
	ctx := context.Background()
	s := NewUserPostgresStorage()

	oldDB := setupTestDB(t)
	defer teardownTestDB(oldDB)

	aliceID := createTestUser(t, "alice")
	bobID := createTestUser(t, "bob")

	t.Run("GetUserByID", func(t *testing.T) {
		user, err := s.GetUserByID(ctx, fmt.Sprint(aliceID))
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)

		_, err = s.GetUserByID(ctx, "999")
		assert.True(t, storage.IsNotFound(err))

		_, err = s.GetUserByID(ctx, "not-a-number")
		assert.True(t, storage.IsNotFound(err))
	})

	t.Run("Usernames", func(t *testing.T) {
		names, err := s.Usernames(ctx, []string{fmt.Sprint(aliceID), fmt.Sprint(bobID), "999", "junk"})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			fmt.Sprint(aliceID): "alice",
			fmt.Sprint(bobID):   "bob",
		}, names)
	})
}
