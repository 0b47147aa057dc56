// Package notifications fans feed events out to websocket clients and keeps
// the outbox of generations that could not be persisted.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"promptfeed/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const (
	// FeedChannel carries every feed event between server instances.
	FeedChannel = "feed:events"
	// OrphanListKey holds generations whose post could not be saved.
	OrphanListKey = "generation:orphans"
)

// Notifier provides helpers to publish feed events into Redis channels
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
// A nil client makes every method a no-op.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// Enabled reports whether the notifier is backed by Redis.
func (n *Notifier) Enabled() bool {
	return n != nil && n.rdb != nil
}

// PublishFeed sends an event payload to every subscribed instance.
func (n *Notifier) PublishFeed(ctx context.Context, payload string) error {
	if !n.Enabled() {
		return nil
	}
	return n.rdb.Publish(ctx, FeedChannel, payload).Err()
}

// StartFeedSubscriber subscribes to FeedChannel and calls onMessage for each
// payload until ctx is cancelled.
func (n *Notifier) StartFeedSubscriber(ctx context.Context, onMessage func(payload string)) error {
	if !n.Enabled() {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, FeedChannel)
	// Wait for the subscription to be confirmed so early publishes are not lost.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", FeedChannel, err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("panic in feed subscriber",
								slog.Any("panic", r),
								slog.String("stack", string(debug.Stack())),
							)
						}
					}()
					onMessage(msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// OrphanedGeneration is an image that was generated but never attached to a post.
type OrphanedGeneration struct {
	Prompt     string    `json:"prompt"`
	AuthorID   string    `json:"authorId"`
	ImageURL   string    `json:"imageUrl"`
	Model      string    `json:"model"`
	Caption    string    `json:"caption,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	Reason     string    `json:"reason"`
	RecordedAt time.Time `json:"recordedAt"`
}

// RecordOrphan appends o to the outbox list, or logs it at error level when Redis is off.
func (n *Notifier) RecordOrphan(ctx context.Context, o OrphanedGeneration) error {
	if o.RecordedAt.IsZero() {
		o.RecordedAt = time.Now().UTC()
	}
	if !n.Enabled() {
		middleware.Logger.ErrorContext(ctx, "generated image was not persisted",
			slog.String("prompt", o.Prompt),
			slog.String("author_id", o.AuthorID),
			slog.String("image_url", o.ImageURL),
			slog.String("model", o.Model),
			slog.String("reason", o.Reason),
		)
		return nil
	}

	data, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("marshal orphan: %w", err)
	}
	return n.rdb.RPush(ctx, OrphanListKey, data).Err()
}

// ListOrphans returns up to limit recorded orphans, oldest first. A limit <= 0 returns all.
func (n *Notifier) ListOrphans(ctx context.Context, limit int64) ([]OrphanedGeneration, error) {
	if !n.Enabled() {
		return []OrphanedGeneration{}, nil
	}
	stop := int64(-1)
	if limit > 0 {
		stop = limit - 1
	}
	raw, err := n.rdb.LRange(ctx, OrphanListKey, 0, stop).Result()
	if err != nil {
		return nil, err
	}

	out := make([]OrphanedGeneration, 0, len(raw))
	for _, item := range raw {
		var o OrphanedGeneration
		if err := json.Unmarshal([]byte(item), &o); err != nil {
			middleware.Logger.WarnContext(ctx, "skipping malformed orphan entry", slog.String("error", err.Error()))
			continue
		}
		out = append(out, o)
	}
	return out, nil
}
