package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tree creates files under a temp dir and returns it
func tree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("package a;\n"), 0644))
	}
	return root
}

func rel(t *testing.T, root string, files []string) []string {
	t.Helper()
	out := make([]string, 0, len(files))
	for _, f := range files {
		r, err := filepath.Rel(root, f)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(r))
	}
	return out
}

func TestFileScanner_Scan(t *testing.T) {
	root := tree(t,
		"user.serde",
		"notes.txt",
		"models/order.serde",
		"models/nested/item.serde",
		"vendor/lib.serde",
		".hidden/secret.serde",
		"testdata/fixture.serde",
	)
	scanner := NewFileScanner([]string{".serde"})

	t.Run("directory without recursion", func(t *testing.T) {
		files, err := scanner.Scan([]string{root})
		require.NoError(t, err)
		assert.Equal(t, []string{"user.serde"}, rel(t, root, files))
	})

	t.Run("recursive pattern", func(t *testing.T) {
		files, err := scanner.Scan([]string{root + "/..."})
		require.NoError(t, err)
		assert.Equal(t, []string{
			"models/nested/item.serde",
			"models/order.serde",
			"user.serde",
		}, rel(t, root, files))
	})

	t.Run("explicit file ignores extension", func(t *testing.T) {
		files, err := scanner.Scan([]string{filepath.Join(root, "notes.txt")})
		require.NoError(t, err)
		assert.Equal(t, []string{"notes.txt"}, rel(t, root, files))
	})

	t.Run("overlapping paths are deduplicated", func(t *testing.T) {
		files, err := scanner.Scan([]string{
			filepath.Join(root, "models") + "/...",
			filepath.Join(root, "models", "order.serde"),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"models/nested/item.serde", "models/order.serde"}, rel(t, root, files))
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := scanner.Scan([]string{filepath.Join(root, "missing")})
		assert.Error(t, err)
	})
}

func TestFileScanner_MultipleExtensions(t *testing.T) {
	root := tree(t, "a.serde", "b.jdecl", "c.java")
	scanner := NewFileScanner([]string{".serde", ".jdecl"})

	files, err := scanner.Scan([]string{root})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.serde", "b.jdecl"}, rel(t, root, files))
}
