package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"promptfeed/internal/cache"
	"promptfeed/internal/config"
	"promptfeed/internal/generation"
	"promptfeed/internal/models"
	"promptfeed/internal/seed"
	"promptfeed/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, req generation.Request) (*generation.Result, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*generation.Result)
	return res, args.Error(1)
}

// flakyBackend is a file backend whose saves can be switched to fail.
type flakyBackend struct {
	*store.FileBackend
	failSave atomic.Bool
}

func (b *flakyBackend) Save(ctx context.Context, doc *models.Store) error {
	if b.failSave.Load() {
		return errors.New("disk full at /var/lib/promptfeed/db.json")
	}
	return b.FileBackend.Save(ctx, doc)
}

type testEnv struct {
	server    *Server
	app       *fiber.App
	generator *mockGenerator
	backend   *flakyBackend
	redis     *redis.Client
}

type envOption func(*config.Config, *envSettings)

type envSettings struct {
	redis bool
}

func withRedis() envOption {
	return func(_ *config.Config, s *envSettings) { s.redis = true }
}

func withFlags(flags string) envOption {
	return func(cfg *config.Config, _ *envSettings) { cfg.FeatureFlags = flags }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Port:            "0",
		Env:             "test",
		FeatureFlags:    "user_cache=on,live_feed=on",
		GenerationModel: "test/model",
	}
	var settings envSettings
	for _, opt := range opts {
		opt(cfg, &settings)
	}

	backend := &flakyBackend{FileBackend: store.NewFileBackend(filepath.Join(t.TempDir(), "db.json"))}
	st := store.New(backend, seed.Document)

	var rdb *redis.Client
	if settings.redis {
		mr := miniredis.RunT(t)
		rdb = redis.NewClient(&redis.Options{Addr: mr.Addr()})
		cache.SetClient(rdb)
		t.Cleanup(func() { cache.SetClient(nil) })
	}

	gen := new(mockGenerator)
	s, err := NewServerWithDeps(cfg, st, rdb, gen)
	require.NoError(t, err)

	return &testEnv{
		server:    s,
		app:       s.NewApp(),
		generator: gen,
		backend:   backend,
		redis:     rdb,
	}
}

func okResult(prompt string) *generation.Result {
	return &generation.Result{
		ImageURL: "https://img.example/gen.png",
		Metadata: generation.Metadata{Model: "test/model", Prompt: prompt, GenerationTime: 900},
	}
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return body
}

func rawBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}

func jsonRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}
