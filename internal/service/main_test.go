package service

import (
	"context"
	"path/filepath"
	"testing"

	"promptfeed/internal/generation"
	"promptfeed/internal/models"
	"promptfeed/internal/notifications"
	"promptfeed/internal/repository"
	"promptfeed/internal/seed"
	"promptfeed/internal/store"

	"github.com/stretchr/testify/mock"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, req generation.Request) (*generation.Result, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*generation.Result)
	return res, args.Error(1)
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) RecordOrphan(ctx context.Context, o notifications.OrphanedGeneration) error {
	return m.Called(ctx, o).Error(0)
}

// failingPostRepo wraps a real repository but fails every Create.
type failingPostRepo struct {
	repository.PostRepository
	err error
}

func (r *failingPostRepo) Create(context.Context, models.CreatePostData, string) (*models.Post, error) {
	return nil, r.err
}

type repos struct {
	store    *store.Store
	users    repository.UserRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
}

func newRepos(t *testing.T) repos {
	t.Helper()
	s := store.New(store.NewFileBackend(filepath.Join(t.TempDir(), "db.json")), seed.Document)
	return repos{
		store:    s,
		users:    repository.NewUserRepository(s),
		posts:    repository.NewPostRepository(s),
		comments: repository.NewCommentRepository(s),
	}
}

func okResult(prompt string) *generation.Result {
	return &generation.Result{
		ImageURL: "https://img.example/gen.png",
		Metadata: generation.Metadata{Model: generation.DefaultModel, Prompt: prompt, GenerationTime: 1200},
	}
}
