// Package fs implements the asset store on a local directory.
package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store answers asset probes against files under a root directory.
type Store struct {
	root string
}

// New creates a store rooted at dir.
func New(dir string) *Store {
	return &Store{root: dir}
}

// Root returns the asset directory.
func (s *Store) Root() string {
	return s.root
}

// Exists reports whether key names a regular file under the root.
// Keys that escape the root are rejected.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if key == "" || !filepath.IsLocal(key) || strings.ContainsRune(key, os.PathSeparator) {
		return false, fmt.Errorf("invalid asset key %q", key)
	}

	info, err := os.Stat(filepath.Join(s.root, key))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking asset %s: %w", key, err)
	}
	return info.Mode().IsRegular(), nil
}

// Path returns the file path of key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.root, key)
}
