package memory

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/VitaminP8/petforum/internal/mocks"
	"github.com/VitaminP8/petforum/internal/model"
	"github.com/VitaminP8/petforum/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentMemoryStorage_CreateComment(t *testing.T) {
	ctx := context.Background()
	users, posts, authorID := newPostFixture(t)
	comments := NewCommentMemoryStorage(posts, users)

	post, err := posts.CreatePost(ctx, authorID, "Test Post", "Test Content")
	require.NoError(t, err)

	t.Run("Successful comment creation", func(t *testing.T) {
		comment, err := comments.CreateComment(ctx, authorID, post.ID, "Test Comment")
		require.NoError(t, err)
		assert.NotEmpty(t, comment.ID)
		assert.Equal(t, post.ID, comment.PostID)
		assert.Equal(t, "Test Comment", comment.Content)
		assert.Equal(t, authorID, comment.AuthorID)
		assert.Equal(t, "author", comment.AuthorName)
		assert.False(t, comment.CreatedAt.IsZero())
	})

	t.Run("Error when creating comment for non-existent post", func(t *testing.T) {
		before, err := comments.CountComments(ctx, "non-existent-post")
		require.NoError(t, err)

		_, err = comments.CreateComment(ctx, authorID, "non-existent-post", "Test Comment")
		assert.True(t, storage.IsNotFound(err))

		after, err := comments.CountComments(ctx, "non-existent-post")
		require.NoError(t, err)
		assert.Equal(t, before, after)

		comments.mu.Lock()
		_, touched := comments.byPost["non-existent-post"]
		comments.mu.Unlock()
		assert.False(t, touched)
	})

	t.Run("Error when author does not exist", func(t *testing.T) {
		_, err := comments.CreateComment(ctx, "999", post.ID, "Test Comment")
		assert.True(t, storage.IsNotFound(err))
	})
}

func TestCommentMemoryStorage_ListComments(t *testing.T) {
	ctx := context.Background()
	users, posts, authorID := newPostFixture(t)
	comments := NewCommentMemoryStorage(posts, users)
	comments.SetClock(fakeClock())

	post, err := posts.CreatePost(ctx, authorID, "Test Post", "Test Content")
	require.NoError(t, err)

	t.Run("Empty thread", func(t *testing.T) {
		list, err := comments.ListComments(ctx, post.ID)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	var lastID string
	for i := 0; i < 5; i++ {
		c, err := comments.CreateComment(ctx, authorID, post.ID, "Comment "+strconv.Itoa(i))
		require.NoError(t, err)
		lastID = c.ID
	}

	t.Run("Whole thread newest first", func(t *testing.T) {
		list, err := comments.ListComments(ctx, post.ID)
		require.NoError(t, err)
		require.Len(t, list, 5)
		assert.Equal(t, lastID, list[0].ID)

		for i := 1; i < len(list); i++ {
			assert.True(t, list[i-1].CreatedAt.After(list[i].CreatedAt),
				"Комментарии должны быть отсортированы по убыванию CreatedAt")
		}
		for _, c := range list {
			assert.Equal(t, "author", c.AuthorName)
		}
	})

	t.Run("Non-existent post", func(t *testing.T) {
		_, err := comments.ListComments(ctx, "non-existent-post")
		assert.True(t, storage.IsNotFound(err))
	})
}

func TestCommentMemoryStorage_UnknownAuthor(t *testing.T) {
	ctx := context.Background()
	postStorage := mocks.NewMockPostStorage()
	post, err := postStorage.CreatePost(ctx, "1", "Post", "Content")
	require.NoError(t, err)

	// без каталога пользователей имя автора неизвестно
	comments := NewCommentMemoryStorage(postStorage, nil)
	_, err = comments.CreateComment(ctx, "1", post.ID, "Hello")
	require.NoError(t, err)

	list, err := comments.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.UnknownAuthor, list[0].AuthorName)
}

func TestCommentMemoryStorage_CountComments(t *testing.T) {
	ctx := context.Background()
	postStorage := mocks.NewMockPostStorage()
	comments := NewCommentMemoryStorage(postStorage, nil)

	post, err := postStorage.CreatePost(ctx, "1", "Post", "Content")
	require.NoError(t, err)
	other, err := postStorage.CreatePost(ctx, "1", "Other", "Content")
	require.NoError(t, err)

	n, err := comments.CountComments(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	for i := 0; i < 3; i++ {
		_, err := comments.CreateComment(ctx, "1", post.ID, "Comment")
		require.NoError(t, err)
	}
	_, err = comments.CreateComment(ctx, "1", other.ID, "Elsewhere")
	require.NoError(t, err)

	n, err = comments.CountComments(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestCommentMemoryStorage_ConcurrentOperations(t *testing.T) {
	ctx := context.Background()
	postStorage := mocks.NewMockPostStorage()
	comments := NewCommentMemoryStorage(postStorage, nil)

	post, err := postStorage.CreatePost(ctx, "1", "Test Post", "Test Content")
	require.NoError(t, err)

	t.Run("Concurrent reading and writing", func(t *testing.T) {
		var wg sync.WaitGroup
		numReaders := 5
		numWriters := 10

		for i := 0; i < numReaders; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 5; j++ {
					_, err := comments.ListComments(ctx, post.ID)
					assert.NoError(t, err)
					time.Sleep(time.Millisecond)
				}
			}()
		}

		for i := 0; i < numWriters; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				_, err := comments.CreateComment(ctx, strconv.Itoa(idx+300), post.ID, "Write "+strconv.Itoa(idx))
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		n, err := comments.CountComments(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, numWriters, n)

		list, err := comments.ListComments(ctx, post.ID)
		require.NoError(t, err)
		ids := make(map[string]bool)
		for _, c := range list {
			ids[c.ID] = true
		}
		assert.Len(t, ids, numWriters)
	})
}
