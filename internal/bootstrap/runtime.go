// Package bootstrap builds the runtime dependencies shared by the server and feedctl.
package bootstrap

import (
	"fmt"
	"log/slog"
	"net/http"

	"promptfeed/internal/cache"
	"promptfeed/internal/config"
	"promptfeed/internal/database"
	"promptfeed/internal/generation"
	"promptfeed/internal/middleware"
	"promptfeed/internal/seed"
	"promptfeed/internal/store"

	"github.com/redis/go-redis/v9"
)

// Runtime is the set of long-lived handles the application works with.
type Runtime struct {
	Store *store.Store
	Redis *redis.Client
}

// InitRuntime opens the configured store backend and connects to Redis.
// Redis is optional: an empty or unreachable REDIS_URL yields a nil client.
func InitRuntime(cfg *config.Config) (*Runtime, error) {
	backend, err := OpenBackend(cfg)
	if err != nil {
		return nil, err
	}

	cache.InitRedis(cfg.RedisURL)

	return &Runtime{
		Store: store.New(backend, seed.Document),
		Redis: cache.GetClient(),
	}, nil
}

// OpenBackend returns the store backend selected by STORE_DRIVER.
func OpenBackend(cfg *config.Config) (store.Backend, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverFile, "":
		return store.NewFileBackend(cfg.StorePath), nil
	case config.StoreDriverSQLite, config.StoreDriverPostgres:
		db, err := database.Connect(cfg)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		backend, err := store.NewGormBackend(db)
		if err != nil {
			return nil, err
		}
		return backend, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// NewGenerator builds the image generation client. The request timeout lives on
// the HTTP client so the generator itself stays timeout-agnostic.
func NewGenerator(cfg *config.Config) *generation.Client {
	return generation.NewClient(generation.Config{
		BaseURL:    cfg.GenerationBaseURL,
		APIKey:     cfg.GenerationAPIKey,
		CustomerID: cfg.GenerationCustomerID,
		Model:      cfg.GenerationModel,
		HTTPClient: &http.Client{Timeout: cfg.GenerationTimeout},
	})
}

// NewPromptValidator loads PROMPT_DENYLIST_FILE when set. A missing or invalid
// file is logged and the built-in denylist is used alone.
func NewPromptValidator(cfg *config.Config) *generation.Validator {
	if cfg.PromptDenylistFile == "" {
		return generation.NewValidator()
	}
	terms, err := generation.LoadDenylist(cfg.PromptDenylistFile)
	if err != nil {
		middleware.Logger.Warn("prompt denylist not loaded",
			slog.String("path", cfg.PromptDenylistFile),
			slog.String("error", err.Error()),
		)
		return generation.NewValidator()
	}
	return generation.NewValidator(terms...)
}
