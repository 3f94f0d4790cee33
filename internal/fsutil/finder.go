// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// FindFiles returns the regular files under root matching any of the
// doublestar patterns. Patterns are slash-separated and relative to root.
// The result holds slash-separated paths relative to root, sorted and
// without duplicates.
func FindFiles(root string, patterns ...string) ([]string, error) {
	if len(patterns) == 0 {
		panic("at least one pattern is required")
	}

	fsys := os.DirFS(root)
	seen := make(map[string]struct{})
	var files []string
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid pattern %q", pattern)
		}
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q in %s: %w", pattern, root, err)
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

// Match reports whether the slash-separated relative path matches any of
// the patterns.
func Match(rel string, patterns ...string) bool {
	rel = filepath.ToSlash(rel)
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// FindFilesByExtension recursively searches the given root path for all files ending
// with the specified extension. It returns a slice of their full paths.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	rel, err := FindFiles(rootPath, "**/*"+extension)
	if err != nil {
		return nil, err
	}
	files := make([]string, len(rel))
	for i, r := range rel {
		files[i] = filepath.Join(rootPath, filepath.FromSlash(r))
	}
	return files, nil
}
