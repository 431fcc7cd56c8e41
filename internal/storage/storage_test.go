package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSaverWritesBelowDir(t *testing.T) {
	dir := t.TempDir()
	s := NewFileSaver(dir)

	require.NoError(t, s.Save(context.Background(), "2024/invoice-0007.pdf", []byte("%PDF-1.3")))

	data, err := os.ReadFile(filepath.Join(dir, "2024", "invoice-0007.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(data))
}

func TestFileSaverKeepsNamesInsideDir(t *testing.T) {
	dir := t.TempDir()
	s := NewFileSaver(dir)

	require.NoError(t, s.Save(context.Background(), "../../escape.pdf", []byte("x")))
	_, err := os.Stat(filepath.Join(dir, "escape.pdf"))
	assert.NoError(t, err)
}

func TestFileSaverErrors(t *testing.T) {
	s := NewFileSaver(t.TempDir())

	err := s.Save(context.Background(), "  ", []byte("x"))
	assert.ErrorIs(t, err, ErrEmptyName)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = s.Save(ctx, "a.pdf", []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewGCSSaverRequiresBucket(t *testing.T) {
	_, err := NewGCSSaver(context.Background(), "", "invoices", "")
	assert.ErrorIs(t, err, ErrNoBucket)
}
