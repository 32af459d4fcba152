package cli

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/toyz/serdescan/internal/errors"
)

// FileScanner finds declaration files under the configured paths
type FileScanner struct {
	extensions []string
}

// NewFileScanner creates a scanner for files with the given extensions
func NewFileScanner(extensions []string) *FileScanner {
	return &FileScanner{extensions: extensions}
}

// Scan resolves paths to declaration files. A directory is scanned without
// recursion unless written with a "/..." suffix; files are taken as given.
func (s *FileScanner) Scan(paths []string) ([]string, error) {
	var files []string

	for _, path := range paths {
		recursive := false
		if base, ok := strings.CutSuffix(path, "/..."); ok {
			recursive = true
			path = base
			if path == "" {
				path = "."
			}
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, errors.WrapFileSystemError("resolve", path, err)
		}

		info, err := os.Stat(abs)
		if err != nil {
			return nil, errors.WrapFileSystemError("stat", path, err)
		}
		if !info.IsDir() {
			files = append(files, abs)
			continue
		}

		found, err := s.scanDirectory(abs, recursive)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}

	files = lo.Uniq(files)
	sort.Strings(files)
	return files, nil
}

func (s *FileScanner) scanDirectory(root string, recursive bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if !recursive || s.skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if s.matches(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapFileSystemError("scan", root, err)
	}
	return files, nil
}

func (s *FileScanner) matches(name string) bool {
	return lo.ContainsBy(s.extensions, func(ext string) bool {
		return strings.HasSuffix(name, ext)
	})
}

// skipDir ignores hidden and vendored directories
func (s *FileScanner) skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "vendor" || name == "testdata"
}
