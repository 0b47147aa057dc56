// Package store persists the feed document and serializes every
// read-modify-write cycle against it.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"promptfeed/internal/middleware"
	"promptfeed/internal/models"
	"promptfeed/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

var (
	// ErrNoDocument is returned by a Backend when nothing has been persisted yet.
	ErrNoDocument = errors.New("feed document does not exist")
	// ErrCorruptDocument is returned by a Backend when the stored bytes cannot be decoded.
	ErrCorruptDocument = errors.New("feed document is corrupt")
)

// Backend reads and writes the whole feed document.
type Backend interface {
	Name() string
	Load(ctx context.Context) (*models.Store, error)
	Save(ctx context.Context, doc *models.Store) error
	// Quarantine moves the current (corrupt) document aside and reports where.
	Quarantine(ctx context.Context) (string, error)
	Ping(ctx context.Context) error
	Close() error
}

// Seeder builds the document used when none exists or the stored one is corrupt.
type Seeder func() *models.Store

// Store is the single-writer handle over a Backend. All operations hold mu, so
// concurrent mutations cannot overwrite each other.
type Store struct {
	mu      sync.Mutex
	backend Backend
	seed    Seeder
}

// New returns a Store over backend that seeds new documents with seed.
func New(backend Backend, seed Seeder) *Store {
	return &Store{backend: backend, seed: seed}
}

// Backend exposes the underlying backend.
func (s *Store) Backend() Backend {
	return s.backend
}

// Load returns the current document, creating the seed document if none exists.
func (s *Store) Load(ctx context.Context) (*models.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Save overwrites the persisted document with doc.
func (s *Store) Save(ctx context.Context, doc *models.Store) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, doc)
}

// View loads the document and passes it to fn. Changes fn makes are discarded.
func (s *Store) View(ctx context.Context, fn func(doc *models.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	return fn(doc)
}

// Update loads the document, applies fn and saves the result once. If fn
// returns an error nothing is written and the error is returned unchanged.
func (s *Store) Update(ctx context.Context, fn func(doc *models.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.save(ctx, doc)
}

// Ping checks the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

// Close releases backend resources.
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) load(ctx context.Context) (doc *models.Store, err error) {
	ctx, span := observability.StartSpan(ctx, "store.load", attribute.String("store.backend", s.backend.Name()))
	defer func() { observability.EndSpan(span, err) }()
	defer observability.TrackStoreOperation("load", s.backend.Name())()

	doc, err = s.backend.Load(ctx)
	switch {
	case err == nil:
		doc.Normalize()
		return doc, nil
	case errors.Is(err, ErrNoDocument):
		doc = s.seed()
		doc.Normalize()
		if err = s.save(ctx, doc); err != nil {
			return nil, err
		}
		return doc, nil
	case errors.Is(err, ErrCorruptDocument):
		observability.StoreRecoveries.WithLabelValues(s.backend.Name()).Inc()
		moved, qerr := s.backend.Quarantine(ctx)
		if qerr != nil {
			middleware.Logger.ErrorContext(ctx, "failed to quarantine corrupt feed document",
				slog.String("backend", s.backend.Name()),
				slog.String("error", qerr.Error()),
			)
		} else {
			middleware.Logger.WarnContext(ctx, "corrupt feed document replaced by seed data",
				slog.String("backend", s.backend.Name()),
				slog.String("quarantined_to", moved),
				slog.String("cause", err.Error()),
			)
		}
		doc = s.seed()
		doc.Normalize()
		return doc, nil
	default:
		return nil, models.NewPersistenceError(fmt.Errorf("load feed document: %w", err))
	}
}

func (s *Store) save(ctx context.Context, doc *models.Store) (err error) {
	ctx, span := observability.StartSpan(ctx, "store.save", attribute.String("store.backend", s.backend.Name()))
	defer func() { observability.EndSpan(span, err) }()
	defer observability.TrackStoreOperation("save", s.backend.Name())()

	doc.Normalize()
	if err = s.backend.Save(ctx, doc); err != nil {
		return models.NewPersistenceError(fmt.Errorf("save feed document: %w", err))
	}
	return nil
}
