// Package service validates input and orchestrates repositories and the
// image generator for the HTTP layer.
package service

import (
	"context"
	"errors"
	"log/slog"

	"promptfeed/internal/generation"
	"promptfeed/internal/middleware"
	"promptfeed/internal/models"
	"promptfeed/internal/notifications"
	"promptfeed/internal/observability"
	"promptfeed/internal/repository"
)

// OrphanRecorder keeps generations whose post could not be saved.
type OrphanRecorder interface {
	RecordOrphan(ctx context.Context, o notifications.OrphanedGeneration) error
}

type PostService struct {
	postRepo  repository.PostRepository
	userRepo  repository.UserRepository
	generator generation.Generator
	validator *generation.Validator
	orphans   OrphanRecorder
	model     string
}

type CreatePostInput struct {
	Prompt       string
	Caption      string
	AuthorID     string
	Tags         []string
	SystemPrompt string
}

// CreatePostResult is the stored post plus the metadata of the generation that produced it.
type CreatePostResult struct {
	Post     *models.Post
	Metadata generation.Metadata
}

type ListPostsInput struct {
	Limit  int
	UserID string
}

// NewPostService wires the post workflow. A nil validator uses the built-in
// denylist, and an empty model lets the generator choose its default.
func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	generator generation.Generator,
	validator *generation.Validator,
	orphans OrphanRecorder,
	model string,
) *PostService {
	if validator == nil {
		validator = generation.NewValidator()
	}
	return &PostService{
		postRepo:  postRepo,
		userRepo:  userRepo,
		generator: generator,
		validator: validator,
		orphans:   orphans,
		model:     model,
	}
}

// CreatePost validates the request, checks the author exists, generates the
// image and stores the post. No image is generated for an unknown author.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*CreatePostResult, error) {
	if in.Prompt == "" || in.AuthorID == "" {
		return nil, models.NewValidationError("Prompt and author ID are required")
	}
	if err := s.validator.Validate(in.Prompt); err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, models.ErrAuthorNotFound
	}

	gen, err := s.generator.Generate(ctx, generation.Request{
		Prompt:       in.Prompt,
		Model:        s.model,
		SystemPrompt: in.SystemPrompt,
	})
	if err != nil {
		return nil, generationFailed(err)
	}

	post, err := s.postRepo.Create(ctx, models.CreatePostData{
		Prompt:       in.Prompt,
		Caption:      in.Caption,
		AuthorID:     in.AuthorID,
		Tags:         in.Tags,
		SystemPrompt: in.SystemPrompt,
	}, gen.ImageURL)
	if err != nil {
		s.recordOrphan(ctx, in, gen, err)
		return nil, err
	}

	return &CreatePostResult{Post: post, Metadata: gen.Metadata}, nil
}

func (s *PostService) recordOrphan(ctx context.Context, in CreatePostInput, gen *generation.Result, cause error) {
	observability.OrphanedGenerations.Inc()
	if s.orphans == nil {
		return
	}
	err := s.orphans.RecordOrphan(ctx, notifications.OrphanedGeneration{
		Prompt:   in.Prompt,
		AuthorID: in.AuthorID,
		ImageURL: gen.ImageURL,
		Model:    gen.Metadata.Model,
		Caption:  in.Caption,
		Tags:     in.Tags,
		Reason:   cause.Error(),
	})
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to record orphaned generation",
			slog.String("image_url", gen.ImageURL),
			slog.String("error", err.Error()),
		)
	}
}

// generationFailed prefixes the generator's message so clients see why creation failed.
func generationFailed(err error) error {
	msg := generation.ErrUpstream.Message
	var appErr *models.AppError
	if errors.As(err, &appErr) && appErr.Message != msg {
		msg = msg + ": " + appErr.Message
	}
	return models.NewUpstreamError(msg, err)
}

// ListPosts returns the user's posts when UserID is set, otherwise the newest Limit posts.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]models.Post, error) {
	if in.UserID != "" {
		return s.postRepo.ListByUser(ctx, in.UserID)
	}
	return s.postRepo.List(ctx, in.Limit)
}

func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.ErrPostNotFound
	}
	return post, nil
}

func (s *PostService) ToggleLike(ctx context.Context, postID, userID string) (*models.LikeResult, error) {
	if userID == "" {
		return nil, models.NewValidationError("User ID is required")
	}
	return s.postRepo.ToggleLike(ctx, postID, userID)
}
