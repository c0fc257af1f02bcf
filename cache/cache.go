// Package cache is a file cache for rendered markdown fragments. Caching the
// render step instead of whole pages keeps the view counter accurate: the
// detail handler still runs on every request.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

const renderDir = "cache/render"

// Path returns the cache file for a piece of source content.
func Path(source string) string {
	return filepath.Join(renderDir, fmt.Sprintf("%s.html", hashKey(source)))
}

// hashKey hashes the source content; a changed post body gets a new key, so
// stale entries are never served, only orphaned.
func hashKey(source string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(source))
}

func ensureDir() error {
	return os.MkdirAll(renderDir, 0755)
}

// Put writes a rendered fragment for the given source content.
func Put(source, html string) error {
	if err := ensureDir(); err != nil {
		return err
	}
	return os.WriteFile(Path(source), []byte(html), 0644)
}

// Get reads the rendered fragment for the given source content if a fresh
// entry exists.
func Get(source string, maxAge time.Duration) (string, bool) {
	path := Path(source)

	info, err := os.Stat(path)
	if err != nil {
		return "", false
	}

	if time.Since(info.ModTime()) > maxAge {
		return "", false
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	return string(content), true
}

// Clear removes the cached fragment for the given source content.
func Clear(source string) error {
	err := os.Remove(Path(source))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ClearOld removes fragments older than maxAge; orphaned entries from edited
// posts go away here.
func ClearOld(maxAge time.Duration) error {
	return filepath.Walk(renderDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}

		if info.IsDir() {
			return nil
		}

		if !strings.HasSuffix(path, ".html") {
			return nil
		}

		if time.Since(info.ModTime()) > maxAge {
			os.Remove(path)
		}

		return nil
	})
}
