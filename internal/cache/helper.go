package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"promptfeed/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// GetJSON decodes the value at key into dest. It reports false on a miss,
// when Redis is disabled, or when the cached bytes do not decode.
func GetJSON(ctx context.Context, key string, dest interface{}) bool {
	client := GetClient()
	if client == nil {
		return false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			middleware.Logger.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		Invalidate(ctx, key)
		return false
	}
	return true
}

// SetJSON stores value at key. Failures are logged and otherwise ignored.
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	client := GetClient()
	if client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := client.Set(ctx, key, data, ttl).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// Aside serves dest from key when cached, otherwise runs load and caches dest
// on success. With Redis disabled it only runs load.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, load func() error) error {
	if GetJSON(ctx, key, dest) {
		return nil
	}
	if err := load(); err != nil {
		return err
	}
	SetJSON(ctx, key, dest, ttl)
	return nil
}
