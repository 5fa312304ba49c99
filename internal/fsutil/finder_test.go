package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"b.drv.json", "a.drv.JSON", "sub/c.drv.hcl", "notes.txt"} {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	}

	files, err := FindFilesByExtension(root, ".json", ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.drv.JSON"),
		filepath.Join(root, "b.drv.json"),
		filepath.Join(root, "sub", "c.drv.hcl"),
	}, files)

	_, err = FindFilesByExtension(filepath.Join(root, "missing"), ".json")
	assert.Error(t, err)

	assert.Panics(t, func() { _, _ = FindFilesByExtension(root) })
	assert.Panics(t, func() { _, _ = FindFilesByExtension(root, "") })
}
