package seed

import (
	"context"
	"fmt"
	"strings"

	"promptfeed/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

// PostWriter is the subset of the post repository the factory needs.
type PostWriter interface {
	Create(ctx context.Context, data models.CreatePostData, imageURL string) (*models.Post, error)
	ToggleLike(ctx context.Context, postID, userID string) (*models.LikeResult, error)
}

// CommentWriter is the subset of the comment repository the factory needs.
type CommentWriter interface {
	Add(ctx context.Context, data models.CreateCommentData) (*models.Comment, error)
}

// Options control how much demo content a Factory produces.
type Options struct {
	Posts              int
	MaxCommentsPerPost int
	Seed               int64
}

// Factory writes demo posts, likes and comments through the repositories so
// demo content follows the same rules as real traffic.
type Factory struct {
	posts    PostWriter
	comments CommentWriter
	opts     Options
	faker    *gofakeit.Faker
}

// NewFactory creates a Factory. Equal non-zero seeds give identical demo content;
// a zero Seed picks a random one.
func NewFactory(posts PostWriter, comments CommentWriter, opts Options) *Factory {
	if opts.Posts <= 0 {
		opts.Posts = 10
	}
	if opts.MaxCommentsPerPost < 0 {
		opts.MaxCommentsPerPost = 0
	}
	return &Factory{
		posts:    posts,
		comments: comments,
		opts:     opts,
		faker:    gofakeit.New(opts.Seed),
	}
}

// DemoPrompt builds a plausible image prompt.
func (f *Factory) DemoPrompt() string {
	return fmt.Sprintf("A %s %s in a %s, %s lighting",
		f.faker.Color(), f.faker.Animal(), f.faker.City(), strings.ToLower(f.faker.Adjective()))
}

// Run creates the configured number of demo posts and returns them.
func (f *Factory) Run(ctx context.Context) ([]*models.Post, error) {
	users := Users()
	created := make([]*models.Post, 0, f.opts.Posts)

	for i := 0; i < f.opts.Posts; i++ {
		author := users[f.faker.Number(0, len(users)-1)]
		prompt := f.DemoPrompt()
		post, err := f.posts.Create(ctx, models.CreatePostData{
			Prompt:   prompt,
			Caption:  f.faker.Sentence(6),
			AuthorID: author.ID,
			Tags:     []string{strings.ToLower(f.faker.Animal()), "demo"},
		}, fmt.Sprintf("https://picsum.photos/seed/%s/800/800", f.faker.UUID()))
		if err != nil {
			return created, fmt.Errorf("create demo post %d: %w", i, err)
		}

		for _, u := range users {
			if f.faker.Bool() {
				continue
			}
			res, err := f.posts.ToggleLike(ctx, post.ID, u.ID)
			if err != nil {
				return created, fmt.Errorf("like demo post %s: %w", post.ID, err)
			}
			post.Likes = res.LikesCount
		}

		if f.opts.MaxCommentsPerPost > 0 {
			n := f.faker.Number(0, f.opts.MaxCommentsPerPost)
			for j := 0; j < n; j++ {
				commenter := users[f.faker.Number(0, len(users)-1)]
				if _, err := f.comments.Add(ctx, models.CreateCommentData{
					PostID:   post.ID,
					AuthorID: commenter.ID,
					Content:  f.faker.Sentence(8),
				}); err != nil {
					return created, fmt.Errorf("comment demo post %s: %w", post.ID, err)
				}
			}
		}

		created = append(created, post)
	}

	return created, nil
}
