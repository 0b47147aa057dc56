package service

import (
	"context"
	"strings"
	"testing"

	"promptfeed/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_CreateComment(t *testing.T) {
	r := newRepos(t)
	svc := NewCommentService(r.comments)
	ctx := context.Background()
	post, err := r.posts.Create(ctx, models.CreatePostData{Prompt: "p", AuthorID: "1"}, "https://img/x.png")
	require.NoError(t, err)

	c, err := svc.CreateComment(ctx, CreateCommentInput{PostID: post.ID, AuthorID: "2", Content: "  great  "})
	require.NoError(t, err)
	assert.Equal(t, "great", c.Content)

	listed, err := svc.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, c.ID, listed[0].ID)
}

func TestCommentService_CreateCommentErrors(t *testing.T) {
	r := newRepos(t)
	svc := NewCommentService(r.comments)
	ctx := context.Background()
	post, err := r.posts.Create(ctx, models.CreatePostData{Prompt: "p", AuthorID: "1"}, "https://img/x.png")
	require.NoError(t, err)

	tests := []struct {
		name string
		in   CreateCommentInput
		code string
		msg  string
	}{
		{"missing content", CreateCommentInput{PostID: post.ID, AuthorID: "1"}, models.CodeValidation, "Content and author ID are required"},
		{"missing author", CreateCommentInput{PostID: post.ID, Content: "hi"}, models.CodeValidation, "Content and author ID are required"},
		{"blank", CreateCommentInput{PostID: post.ID, AuthorID: "1", Content: "   "}, models.CodeValidation, "Comment cannot be empty"},
		{"too long", CreateCommentInput{PostID: post.ID, AuthorID: "1", Content: strings.Repeat("x", 501)}, models.CodeValidation, "Comment must be less than 500 characters"},
		{"unknown author", CreateCommentInput{PostID: post.ID, AuthorID: "99", Content: "hi"}, models.CodeNotFound, "Author not found"},
		{"unknown post", CreateCommentInput{PostID: "nope", AuthorID: "1", Content: "hi"}, models.CodeNotFound, "Post not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateComment(ctx, tt.in)
			var appErr *models.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.msg, appErr.Message)
		})
	}
}
