package mmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile(t *testing.T) {
	t.Run("ReadBack", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "blob")
		content := []byte("2\n3\n5\n7\n")
		require.NoError(t, os.WriteFile(path, content, 0o600))

		m, err := Open(path)
		require.NoError(t, err)
		defer m.Close()

		assert.Equal(t, content, m.Bytes())

		p := make([]byte, 2)
		n, err := m.ReadAt(p, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, []byte("3\n"), p)
	})

	t.Run("EmptyFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty")
		require.NoError(t, os.WriteFile(path, nil, 0o600))

		m, err := Open(path)
		require.NoError(t, err)
		assert.Empty(t, m.Bytes())
		require.NoError(t, m.Close())
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := Open(filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})
}
