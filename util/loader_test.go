package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-sealmask/images"
)

func TestLoadImageFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "height.PNG")
	require.NoError(t, images.Save(path, images.NewUniform(8, 4, 200)))

	file, err := LoadImageFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, file.Path)
	assert.Equal(t, images.FormatPNG, file.Format)
	assert.Greater(t, len(file.Data), 0)
}

func TestLoadImageFileErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("Missing", func(t *testing.T) {
		_, err := LoadImageFile(filepath.Join(dir, "missing.png"))
		require.Error(t, err)
		assert.Equal(t, ErrNotFound, errors.Cause(err))
	})

	t.Run("Directory", func(t *testing.T) {
		sub := filepath.Join(dir, "maps.png")
		require.NoError(t, os.Mkdir(sub, 0o755))
		_, err := LoadImageFile(sub)
		assert.Error(t, err)
	})

	t.Run("Unsupported extension", func(t *testing.T) {
		path := filepath.Join(dir, "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))
		_, err := LoadImageFile(path)
		require.Error(t, err)
		assert.Equal(t, images.ErrUnsupportedFormat, errors.Cause(err))
	})

	t.Run("Empty", func(t *testing.T) {
		path := filepath.Join(dir, "empty.jpg")
		require.NoError(t, os.WriteFile(path, nil, 0o644))
		_, err := LoadImageFile(path)
		assert.Error(t, err)
	})
}
