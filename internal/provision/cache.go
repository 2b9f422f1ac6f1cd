package provision

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/nchapman/prefetch/internal/hf"
	"github.com/nchapman/prefetch/internal/logs"
)

// CacheResolver locates the directories checked for an existing model copy.
// An empty string means the location is unavailable.
type CacheResolver interface {
	LocalDir() string
	HubDir() string
}

// StaticCache is a CacheResolver over fixed paths.
type StaticCache struct {
	Local string
	Hub   string
}

func (c StaticCache) LocalDir() string { return c.Local }
func (c StaticCache) HubDir() string   { return c.Hub }

// CachePaths returns the candidate directories for modelID, local first.
func CachePaths(resolver CacheResolver, modelID string) []string {
	var paths []string
	if dir := resolver.LocalDir(); dir != "" {
		paths = append(paths, filepath.Join(dir, filepath.FromSlash(modelID)))
	}
	if dir := resolver.HubDir(); dir != "" {
		paths = append(paths, filepath.Join(dir, hf.RepoFolderName(modelID)))
	}
	return paths
}

// IsCached reports whether any candidate directory for modelID exists.
// Only existence is checked, not whether a previous download finished.
func IsCached(resolver CacheResolver, modelID string) bool {
	if strings.TrimSpace(modelID) == "" {
		return false
	}
	for _, path := range CachePaths(resolver, modelID) {
		info, err := os.Stat(path)
		if err != nil {
			logs.Debug("cache miss", "path", path)
			continue
		}
		if info.IsDir() {
			logs.Debug("cache hit", "path", path)
			return true
		}
	}
	return false
}
