package cli

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths locates the files of one app. Everything lives next to the config
// file, so a custom --config moves the cache along with it.
type Paths struct {
	root string
}

// NewPaths returns the default paths of appName, ~/.singing-materials/<app>.
func NewPaths(appName string) (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return &Paths{root: filepath.Join(home, DefaultBaseDir, appName)}, nil
}

// PathsOf returns the paths rooted at the directory holding cfg's file.
func PathsOf(cfg *Config) *Paths {
	return &Paths{root: cfg.Dir()}
}

// Root is the app directory.
func (p *Paths) Root() string {
	return p.root
}

// ConfigFile is the default config file.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.root, DefaultConfigFile)
}

// CacheDir holds the API response cache.
func (p *Paths) CacheDir() string {
	return filepath.Join(p.root, "cache")
}

// EnsureCacheDir creates CacheDir and returns it.
func (p *Paths) EnsureCacheDir() (string, error) {
	dir := p.CacheDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}
	return dir, nil
}
