// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package imagecache

import (
	"fmt"
	"log/slog"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize is the number of images remembered by default.
const DefaultSize = 64

// Cache maps image keys to paths of images created earlier in the same run.
type Cache struct {
	entries *lru.Cache[Key, string]
}

// New creates a new cache that remembers up to size images.
func New(size int) (*Cache, error) {
	entries, err := lru.New[Key, string](size)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}

	return &Cache{entries: entries}, nil
}

// Lookup returns the path of the image for key. Entries whose image file is
// gone are dropped and reported as miss.
func (c *Cache) Lookup(key Key) (string, bool) {
	if c == nil {
		return "", false
	}

	path, ok := c.entries.Get(key)
	if !ok {
		return "", false
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		slog.Debug("Drop stale image cache entry",
			slog.String("key", key.String()),
			slog.String("path", path))
		c.entries.Remove(key)

		return "", false
	}

	return path, true
}

// Store remembers path as image for key.
func (c *Cache) Store(key Key, path string) {
	if c == nil {
		return
	}

	c.entries.Add(key, path)
}

// Len returns the number of remembered images.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}

	return c.entries.Len()
}
