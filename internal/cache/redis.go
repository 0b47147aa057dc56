// Package cache holds the shared Redis client and the user cache built on it.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"promptfeed/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

var shared atomic.Pointer[redis.Client]

// errorCounter increments the redis error metric for every failed command.
// A cache miss (redis.Nil) is not a failure.
type errorCounter struct{}

func (errorCounter) DialHook(next redis.DialHook) redis.DialHook { return next }

func (errorCounter) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		countError(cmd.Name(), err)
		return err
	}
}

func (errorCounter) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		countError("pipeline", err)
		return err
	}
}

func countError(name string, err error) {
	if err != nil && !errors.Is(err, redis.Nil) {
		middleware.RedisErrors.WithLabelValues(name).Inc()
	}
}

// Options accepts a redis:// URL or a bare host:port.
func Options(addr string) (*redis.Options, error) {
	if !strings.Contains(addr, "://") {
		return &redis.Options{Addr: addr}, nil
	}
	opts, err := redis.ParseURL(addr)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return opts, nil
}

// InitRedis connects the shared client. Redis is optional: an empty address,
// a bad URL or a failed ping leaves the client nil and is only logged.
func InitRedis(addr string) {
	_ = Close()
	if addr == "" {
		return
	}

	opts, err := Options(addr)
	if err != nil {
		middleware.Logger.Warn("Redis disabled: invalid REDIS_URL", slog.String("error", err.Error()))
		return
	}

	c := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		middleware.Logger.Warn("Redis unreachable, running without cache and fan-out",
			slog.String("addr", opts.Addr),
			slog.String("error", err.Error()),
		)
		_ = c.Close()
		return
	}

	SetClient(c)
	middleware.Logger.Info("Redis connected", slog.String("addr", opts.Addr))
}

// SetClient installs c as the shared client and instruments it. Tests use it
// with a miniredis-backed client.
func SetClient(c *redis.Client) {
	if c != nil {
		c.AddHook(errorCounter{})
	}
	shared.Store(c)
}

// GetClient returns the shared client, or nil when Redis is disabled.
func GetClient() *redis.Client {
	return shared.Load()
}

// Close closes and clears the shared client.
func Close() error {
	if c := shared.Swap(nil); c != nil {
		return c.Close()
	}
	return nil
}
