// Package repository implements the data access layer over the feed store.
package repository

import (
	"sort"
	"time"

	"promptfeed/internal/models"

	"github.com/google/uuid"
)

// Option configures a repository.
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() string
}

// WithClock overrides the time source used for createdAt.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator overrides the id source for new records.
func WithIDGenerator(gen func() string) Option {
	return func(o *options) { o.newID = gen }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, newID: newID}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// newID returns a time-ordered UUIDv7, falling back to v4 if the clock source fails.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func sortPostsNewestFirst(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return models.ParseTimestamp(posts[i].CreatedAt).After(models.ParseTimestamp(posts[j].CreatedAt))
	})
}

func sortCommentsOldestFirst(comments []models.Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		return models.ParseTimestamp(comments[i].CreatedAt).Before(models.ParseTimestamp(comments[j].CreatedAt))
	})
}
