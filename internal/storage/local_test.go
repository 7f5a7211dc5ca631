package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveDeleteURL(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "uploads")

	s, err := NewLocalStorage(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "a.png", strings.NewReader("data")))

	b, err := os.ReadFile(filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(b))
	assert.Equal(t, "/uploads/a.png", s.URL("a.png"))

	// Existing files are never overwritten.
	assert.Error(t, s.Save(ctx, "a.png", strings.NewReader("other")))

	require.NoError(t, s.Delete(ctx, "a.png"))
	_, err = os.Stat(filepath.Join(dir, "a.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	// Deleting a missing file is fine.
	assert.NoError(t, s.Delete(ctx, "a.png"))
}

func TestLocalStorage_RejectsPathsOutsideDir(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, path := range []string{"", ".", "..", "../x.png", "sub/x.png", `..\x.png`} {
		assert.ErrorIs(t, s.Save(context.Background(), path, strings.NewReader("x")), ErrInvalidPath, path)
	}
}
