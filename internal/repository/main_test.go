package repository

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"promptfeed/internal/seed"
	"promptfeed/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(store.NewFileBackend(filepath.Join(t.TempDir(), "db.json")), seed.Document)
}

// stepClock returns a clock that advances by step on every call.
func stepClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := next
		next = next.Add(step)
		return t
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}
