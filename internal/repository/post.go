package repository

import (
	"context"

	"promptfeed/internal/models"
	"promptfeed/internal/store"
)

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	// List returns posts newest first. A limit <= 0 returns every post.
	List(ctx context.Context, limit int) ([]models.Post, error)
	ListByUser(ctx context.Context, userID string) ([]models.Post, error)
	// GetByID returns (nil, nil) when the post does not exist.
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, data models.CreatePostData, imageURL string) (*models.Post, error)
	ToggleLike(ctx context.Context, postID, userID string) (*models.LikeResult, error)
}

type postRepository struct {
	store *store.Store
	opts  options
}

// NewPostRepository creates a new post repository.
func NewPostRepository(s *store.Store, opts ...Option) PostRepository {
	return &postRepository{store: s, opts: buildOptions(opts)}
}

func (r *postRepository) List(ctx context.Context, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.store.View(ctx, func(doc *models.Store) error {
		posts = append([]models.Post{}, doc.Posts...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortPostsNewestFirst(posts)
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID string) ([]models.Post, error) {
	posts := []models.Post{}
	err := r.store.View(ctx, func(doc *models.Store) error {
		for _, p := range doc.Posts {
			if p.Author.ID == userID {
				posts = append(posts, p)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortPostsNewestFirst(posts)
	return posts, nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var found *models.Post
	err := r.store.View(ctx, func(doc *models.Store) error {
		if p := doc.FindPost(id); p != nil {
			post := *p
			found = &post
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *postRepository) Create(ctx context.Context, data models.CreatePostData, imageURL string) (*models.Post, error) {
	var created models.Post
	err := r.store.Update(ctx, func(doc *models.Store) error {
		author := doc.FindUser(data.AuthorID)
		if author == nil {
			return models.ErrAuthorNotFound
		}

		tags := data.Tags
		if tags == nil {
			tags = []string{}
		}

		created = models.Post{
			ID:        r.opts.newID(),
			Author:    *author,
			Prompt:    data.Prompt,
			ImageURL:  imageURL,
			Caption:   data.Caption,
			CreatedAt: models.FormatTimestamp(r.opts.now()),
			Likes:     0,
			LikedBy:   []string{},
			Comments:  []models.Comment{},
			Shares:    0,
			Tags:      append([]string{}, tags...),
		}
		doc.Posts = append(doc.Posts, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *postRepository) ToggleLike(ctx context.Context, postID, userID string) (*models.LikeResult, error) {
	var result models.LikeResult
	err := r.store.Update(ctx, func(doc *models.Store) error {
		post := doc.FindPost(postID)
		if post == nil {
			return models.ErrPostNotFound
		}

		liked := true
		likedBy := make([]string, 0, len(post.LikedBy)+1)
		for _, id := range post.LikedBy {
			if id == userID {
				liked = false
				continue
			}
			likedBy = append(likedBy, id)
		}
		if liked {
			likedBy = append(likedBy, userID)
		}

		post.LikedBy = likedBy
		post.Likes = len(likedBy)
		result = models.LikeResult{Liked: liked, LikesCount: post.Likes}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
