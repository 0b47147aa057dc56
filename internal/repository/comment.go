package repository

import (
	"context"

	"promptfeed/internal/models"
	"promptfeed/internal/store"
)

// CommentRepository defines the interface for comment data operations.
type CommentRepository interface {
	Add(ctx context.Context, data models.CreateCommentData) (*models.Comment, error)
	// ListByPost returns the post's comments oldest first.
	ListByPost(ctx context.Context, postID string) ([]models.Comment, error)
}

type commentRepository struct {
	store *store.Store
	opts  options
}

// NewCommentRepository creates a new comment repository.
func NewCommentRepository(s *store.Store, opts ...Option) CommentRepository {
	return &commentRepository{store: s, opts: buildOptions(opts)}
}

// Add writes the comment to the flat collection and to the parent post in one save.
// The author is checked before the post.
func (r *commentRepository) Add(ctx context.Context, data models.CreateCommentData) (*models.Comment, error) {
	var created models.Comment
	err := r.store.Update(ctx, func(doc *models.Store) error {
		author := doc.FindUser(data.AuthorID)
		if author == nil {
			return models.ErrAuthorNotFound
		}
		post := doc.FindPost(data.PostID)
		if post == nil {
			return models.ErrPostNotFound
		}

		created = models.Comment{
			ID:        r.opts.newID(),
			PostID:    data.PostID,
			AuthorID:  data.AuthorID,
			Author:    *author,
			Content:   data.Content,
			CreatedAt: models.FormatTimestamp(r.opts.now()),
			Likes:     0,
			Replies:   []models.Comment{},
		}
		doc.Comments = append(doc.Comments, created)
		post.Comments = append(post.Comments, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := r.store.View(ctx, func(doc *models.Store) error {
		for _, c := range doc.Comments {
			if c.PostID == postID {
				comments = append(comments, c)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortCommentsOldestFirst(comments)
	return comments, nil
}
