package repository

import (
	"context"
	"testing"
	"time"

	"promptfeed/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPost(t *testing.T, repo PostRepository) *models.Post {
	t.Helper()
	post, err := repo.Create(context.Background(), models.CreatePostData{Prompt: "a quiet harbor", AuthorID: "1"}, "https://img.example/h.jpg")
	require.NoError(t, err)
	return post
}

func TestCommentRepository_AddWritesBothCopies(t *testing.T) {
	s := newTestStore(t)
	posts := NewPostRepository(s)
	comments := NewCommentRepository(s, WithClock(fixedClock(t0)), WithIDGenerator(sequentialIDs("c")))
	ctx := context.Background()
	post := seedPost(t, posts)

	c, err := comments.Add(ctx, models.CreateCommentData{PostID: post.ID, AuthorID: "2", Content: "Lovely light"})
	require.NoError(t, err)
	assert.Equal(t, "c1", c.ID)
	assert.Equal(t, post.ID, c.PostID)
	assert.Equal(t, "2", c.AuthorID)
	assert.Equal(t, "digitalartist", c.Author.Username)
	assert.Equal(t, 0, c.Likes)
	assert.Equal(t, []models.Comment{}, c.Replies)
	assert.Equal(t, "2024-06-01T12:00:00.000Z", c.CreatedAt)

	listed, err := comments.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, *c, listed[0])

	stored, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, stored.Comments, 1)
	assert.Equal(t, *c, stored.Comments[0])
}

func TestCommentRepository_AddChecksAuthorBeforePost(t *testing.T) {
	s := newTestStore(t)
	comments := NewCommentRepository(s)
	ctx := context.Background()

	_, err := comments.Add(ctx, models.CreateCommentData{PostID: "missing", AuthorID: "missing", Content: "hi"})
	assert.ErrorIs(t, err, models.ErrAuthorNotFound)

	_, err = comments.Add(ctx, models.CreateCommentData{PostID: "missing", AuthorID: "1", Content: "hi"})
	assert.ErrorIs(t, err, models.ErrPostNotFound)

	require.NoError(t, s.View(ctx, func(doc *models.Store) error {
		assert.Empty(t, doc.Comments)
		return nil
	}))
}

func TestCommentRepository_ListByPostOldestFirst(t *testing.T) {
	s := newTestStore(t)
	posts := NewPostRepository(s)
	comments := NewCommentRepository(s, WithClock(stepClock(t0, time.Second)), WithIDGenerator(sequentialIDs("c")))
	ctx := context.Background()
	first := seedPost(t, posts)
	second := seedPost(t, posts)

	for _, target := range []string{first.ID, second.ID, first.ID, first.ID} {
		_, err := comments.Add(ctx, models.CreateCommentData{PostID: target, AuthorID: "3", Content: "nice"})
		require.NoError(t, err)
	}

	listed, err := comments.ListByPost(ctx, first.ID)
	require.NoError(t, err)
	ids := make([]string, len(listed))
	for i, c := range listed {
		ids[i] = c.ID
	}
	assert.Equal(t, []string{"c1", "c3", "c4"}, ids)

	empty, err := comments.ListByPost(ctx, "none")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
