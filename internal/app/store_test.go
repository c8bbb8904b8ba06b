package app

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/uscisnews/internal/config"
	"github.com/deusflow/uscisnews/internal/storage"
)

func TestNewStore_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posted.json")
	cfg := &config.Config{StoreDriver: "file", PostedFile: path}

	s, closeFn, err := NewStore(context.Background(), cfg, slog.Default())
	require.NoError(t, err)
	defer closeFn()

	fs, ok := s.(*storage.FileStore)
	require.True(t, ok)
	assert.Equal(t, path, fs.Path())
}

func TestNewStore_UnknownDriver(t *testing.T) {
	cfg := &config.Config{StoreDriver: "mongo"}

	_, closeFn, err := NewStore(context.Background(), cfg, slog.Default())
	assert.Error(t, err)
	assert.NotNil(t, closeFn)
}
