package postgres

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VitaminP8/petforum/internal/storage"
)

func TestCommentPostgresStorage_CreateComment(t *testing.T) {
	ctx := context.Background()
	s := NewCommentPostgresStorage()

	t.Run("Successful comment creation", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		userID := createTestUser(t, "commenter")
		postID := createTestPost(t, userID, "Title", "Content")

		comment, err := s.CreateComment(ctx, fmt.Sprint(userID), fmt.Sprint(postID), "Test comment")
		require.NoError(t, err)
		assert.NotEmpty(t, comment.ID)
		assert.Equal(t, fmt.Sprint(postID), comment.PostID)
		assert.Equal(t, "Test comment", comment.Content)
		assert.Equal(t, "commenter", comment.AuthorName)
	})

	t.Run("Post not found leaves nothing behind", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		userID := createTestUser(t, "commenter")

		_, err := s.CreateComment(ctx, fmt.Sprint(userID), "999", "Test comment")
		assert.True(t, storage.IsNotFound(err))

		_, err = s.CreateComment(ctx, fmt.Sprint(userID), "bad-id", "Test comment")
		assert.True(t, storage.IsNotFound(err))

		count, err := s.CountComments(ctx, "999")
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestCommentPostgresStorage_ListAndCount(t *testing.T) {
	ctx := context.Background()
	s := NewCommentPostgresStorage()

	oldDB := setupTestDB(t)
	defer teardownTestDB(oldDB)

	userID := createTestUser(t, "commenter")
	postID := fmt.Sprint(createTestPost(t, userID, "Title", "Content"))

	t.Run("No comments yet", func(t *testing.T) {
		count, err := s.CountComments(ctx, postID)
		require.NoError(t, err)
		assert.Equal(t, 0, count)

		comments, err := s.ListComments(ctx, postID)
		require.NoError(t, err)
		assert.Empty(t, comments)
	})

	for i := 1; i <= 3; i++ {
		_, err := s.CreateComment(ctx, fmt.Sprint(userID), postID, fmt.Sprintf("Comment %d", i))
		require.NoError(t, err)
	}

	t.Run("Newest first", func(t *testing.T) {
		comments, err := s.ListComments(ctx, postID)
		require.NoError(t, err)
		require.Len(t, comments, 3)
		assert.Equal(t, "Comment 3", comments[0].Content)
		assert.Equal(t, "Comment 1", comments[2].Content)
		assert.Equal(t, "commenter", comments[0].AuthorName)

		count, err := s.CountComments(ctx, postID)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("Listing for missing post", func(t *testing.T) {
		_, err := s.ListComments(ctx, "999")
		assert.True(t, storage.IsNotFound(err))
	})
}
