package utils

import (
	"os"
	"path/filepath"

	"github.com/toyz/serdescan/internal/errors"
)

// SourceReader reads declaration files, caching content until a file changes
type SourceReader struct {
	cache *FileCache[string]
}

// NewSourceReader creates a reader with an empty cache
func NewSourceReader() *SourceReader {
	return &SourceReader{cache: NewFileCache[string]()}
}

// ReadFile returns the content of path. Failures are FileSystemErrors.
func (r *SourceReader) ReadFile(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.FileSystemErrorCode, "file path cannot be empty")
	}
	clean := filepath.Clean(path)

	if cached, ok := r.cache.Get(clean); ok {
		return cached, nil
	}

	content, err := os.ReadFile(clean)
	if err != nil {
		return "", errors.WrapFileSystemError("read", path, err)
	}

	text := string(content)
	// an uncacheable file is still returned
	_ = r.cache.Set(clean, text)
	return text, nil
}

// Invalidate drops path from the cache
func (r *SourceReader) Invalidate(path string) {
	r.cache.Delete(filepath.Clean(path))
}

// Cached returns the number of cached files
func (r *SourceReader) Cached() int {
	return r.cache.Size()
}
