// Package storage persists rendered documents.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"billing/internal/logger"
)

var (
	// ErrEmptyName is returned when a document is saved without a name.
	ErrEmptyName = errors.New("storage: empty object name")

	// ErrNoBucket is returned when a cloud saver is configured without a bucket.
	ErrNoBucket = errors.New("storage: bucket is required")
)

// Saver stores the bytes of a rendered document under a name.
type Saver interface {
	Save(ctx context.Context, name string, data []byte) error
}

// FileSaver writes documents below Dir.
type FileSaver struct {
	Dir string

	log zerolog.Logger
}

// NewFileSaver creates a saver rooted at dir. The directory is created on
// first use.
func NewFileSaver(dir string) *FileSaver {
	return &FileSaver{Dir: dir, log: logger.WithComponent("file-saver")}
}

// Save writes data to Dir/name, creating intermediate directories.
func (s *FileSaver) Save(ctx context.Context, name string, data []byte) error {
	const op = "FileSaver.Save"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	clean, err := cleanName(name)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	path := filepath.Join(s.Dir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%s: failed to create directory: %w", op, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%s: failed to write %s: %w", op, path, err)
	}

	s.log.Debug().Str("path", path).Int("bytes", len(data)).Msg("Document written")
	return nil
}

// cleanName rejects empty names and keeps names from escaping the root.
func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	clean := filepath.ToSlash(filepath.Clean("/" + name))
	clean = strings.TrimPrefix(clean, "/")
	if clean == "" || clean == "." {
		return "", ErrEmptyName
	}
	return clean, nil
}
