// Package textcache caches cleaned book text on disk so reopening a
// book never refetches it from the catalog mirror.
package textcache

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrMiss = errors.New("text not cached")

// Cache stores one text file per book id.
type Cache struct {
	cacheDir string
}

// NewCache creates a text cache at the specified directory.
func NewCache(cacheDir string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache{cacheDir: cacheDir}, nil
}

// Get returns the cached text for a book, or ErrMiss.
func (c *Cache) Get(bookID string) (string, error) {
	data, err := os.ReadFile(c.path(bookID))
	if os.IsNotExist(err) {
		return "", ErrMiss
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Put writes text for a book. The write is atomic: a temp file in the
// cache directory is renamed into place.
func (c *Cache) Put(bookID, text string) error {
	tmpFile, err := os.CreateTemp(c.cacheDir, "text_tmp_")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath) // Clean up if we didn't rename
	}()

	if _, err := tmpFile.WriteString(text); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, c.path(bookID))
}

// Invalidate removes the cached text for a book.
func (c *Cache) Invalidate(bookID string) error {
	err := os.Remove(c.path(bookID))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// CacheDir returns the cache directory path.
func (c *Cache) CacheDir() string {
	return c.cacheDir
}

// path hashes the book id into the filename so arbitrary ids can
// never escape the cache directory.
func (c *Cache) path(bookID string) string {
	hash := sha256.Sum256([]byte(bookID))
	return filepath.Join(c.cacheDir, fmt.Sprintf("text_%x.txt", hash[:12]))
}
