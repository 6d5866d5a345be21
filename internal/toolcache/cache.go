package toolcache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Cache is a keyed store of installed tool directories.
type Cache struct {
	root string
	log  *zap.SugaredLogger
}

// NewCache creates a cache rooted at root. A nil logger discards output.
func NewCache(root string, log *zap.SugaredLogger) (*Cache, error) {
	if root == "" {
		return nil, fmt.Errorf("tool cache root is required")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Cache{root: root, log: log}, nil
}

// Root returns the cache root directory.
func (c *Cache) Root() string {
	return c.root
}

func (c *Cache) entryPath(tool, version, arch string) string {
	return filepath.Join(c.root, tool, CleanVersion(version), arch)
}

// Find returns the cached directory for (tool, version, arch), or "" when
// there is no complete entry. Ranges and "latest" never match.
func (c *Cache) Find(tool, version, arch string) string {
	if tool == "" || arch == "" || !IsExplicitVersion(version) {
		return ""
	}

	path := c.entryPath(tool, version, arch)
	c.log.Debugf("checking tool cache path %s", path)

	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return ""
	}
	if _, err := os.Stat(path + ".complete"); err != nil {
		c.log.Debugf("tool cache entry %s has no completion marker", path)
		return ""
	}

	return path
}

// CacheDir copies the contents of src into the entry for (tool, version, arch)
// and marks it complete. Any previous entry is replaced. Writers of the same
// tool are serialized by a lock file.
func (c *Cache) CacheDir(ctx context.Context, src, tool, version, arch string) (string, error) {
	if tool == "" || arch == "" {
		return "", fmt.Errorf("tool and arch are required")
	}
	if !IsExplicitVersion(version) {
		return "", fmt.Errorf("cannot cache %s: %q is not an explicit version", tool, version)
	}

	info, err := os.Stat(src)
	if err != nil {
		return "", fmt.Errorf("stat source dir: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("source %s is not a directory", src)
	}

	lock, err := AcquireLock(ctx, filepath.Join(c.root, tool))
	if err != nil {
		return "", fmt.Errorf("lock tool cache: %w", err)
	}
	defer lock.Release()

	dest := c.entryPath(tool, version, arch)
	marker := dest + ".complete"

	if err := os.RemoveAll(marker); err != nil {
		return "", fmt.Errorf("remove completion marker: %w", err)
	}
	if err := os.RemoveAll(dest); err != nil {
		return "", fmt.Errorf("remove previous entry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}

	c.log.Debugf("caching %s into %s", src, dest)
	if err := os.CopyFS(dest, os.DirFS(src)); err != nil {
		os.RemoveAll(dest)
		return "", fmt.Errorf("copy into cache: %w", err)
	}

	if err := os.WriteFile(marker, nil, 0644); err != nil {
		return "", fmt.Errorf("write completion marker: %w", err)
	}

	return dest, nil
}
