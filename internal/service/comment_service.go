package service

import (
	"context"

	"promptfeed/internal/models"
	"promptfeed/internal/repository"
	"promptfeed/internal/validation"
)

type CommentService struct {
	commentRepo repository.CommentRepository
}

type CreateCommentInput struct {
	PostID   string
	AuthorID string
	Content  string
}

func NewCommentService(commentRepo repository.CommentRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo}
}

// CreateComment stores trimmed content. Unknown authors and posts surface as not-found errors.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.Content == "" || in.AuthorID == "" {
		return nil, models.NewValidationError("Content and author ID are required")
	}
	content, err := validation.ValidateCommentContent(in.Content)
	if err != nil {
		return nil, err
	}

	return s.commentRepo.Add(ctx, models.CreateCommentData{
		PostID:   in.PostID,
		AuthorID: in.AuthorID,
		Content:  content,
	})
}

// ListComments returns the post's comments oldest first; an unknown post has none.
func (s *CommentService) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	return s.commentRepo.ListByPost(ctx, postID)
}
