package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"promptfeed/internal/models"
)

// FileBackend keeps the feed document as indented JSON in a single file.
type FileBackend struct {
	path string
	now  func() time.Time
}

// NewFileBackend returns a FileBackend writing to path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path, now: time.Now}
}

// Name implements Backend.
func (b *FileBackend) Name() string { return "file" }

// Path returns the document location.
func (b *FileBackend) Path() string { return b.path }

func (b *FileBackend) ensureDir() error {
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	return nil
}

// Load implements Backend.
func (b *FileBackend) Load(_ context.Context) (*models.Store, error) {
	if err := b.ensureDir(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoDocument
		}
		return nil, err
	}

	var doc models.Store
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	return &doc, nil
}

// Save implements Backend. The document is written to a temporary file in the
// same directory and renamed over the target, so readers never see a torn write.
func (b *FileBackend) Save(_ context.Context, doc *models.Store) error {
	if err := b.ensureDir(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode feed document: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(b.path), filepath.Base(b.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, b.path)
}

// Quarantine implements Backend by renaming the document to <path>.corrupt-<unix>.
func (b *FileBackend) Quarantine(_ context.Context) (string, error) {
	dest := fmt.Sprintf("%s.corrupt-%d", b.path, b.now().Unix())
	if err := os.Rename(b.path, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// Ping implements Backend.
func (b *FileBackend) Ping(_ context.Context) error {
	return b.ensureDir()
}

// Close implements Backend.
func (b *FileBackend) Close() error { return nil }
