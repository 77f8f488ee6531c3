package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/NU-CEM/singing-materials-online/pkg/cli"
	"github.com/NU-CEM/singing-materials-online/pkg/kv"
	"github.com/NU-CEM/singing-materials-online/pkg/materials"
)

// cacheTTL bounds how long API responses are reused.
const cacheTTL = 30 * 24 * time.Hour

const cacheOff = "off"

// resolveCacheDir picks the --cache-dir flag, then the context setting,
// then the cache directory next to the config file. It returns "" when
// caching is off.
func resolveCacheDir(c *cli.Context) (string, error) {
	dir := cacheDir
	if dir == "" && c != nil {
		dir = c.CacheDir
	}
	if dir == cacheOff {
		return "", nil
	}
	if dir != "" {
		return dir, nil
	}
	var paths *cli.Paths
	if cfg := getConfig(); cfg != nil {
		paths = cli.PathsOf(cfg)
	} else {
		var err error
		if paths, err = cli.NewPaths(appName); err != nil {
			return "", err
		}
	}
	return paths.EnsureCacheDir()
}

// openCache opens the badger response cache, or returns nil when caching
// is off.
func openCache(c *cli.Context) (*kv.Badger, error) {
	dir, err := resolveCacheDir(c)
	if err != nil || dir == "" {
		return nil, err
	}
	printVerbose("Cache: %s", dir)
	store, err := kv.NewBadger(kv.BadgerOptions{
		Dir:    dir,
		TTL:    cacheTTL,
		Logger: slog.Default(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache %s: %w", dir, err)
	}
	return store, nil
}

// createClient creates a Materials Project client from context configuration
func createClient(c *cli.Context) (*materials.Client, error) {
	apiKey, err := c.ResolveAPIKey()
	if err != nil {
		return nil, err
	}

	var opts []materials.Option
	if c.BaseURL != "" {
		opts = append(opts, materials.WithBaseURL(c.BaseURL))
	}
	if d := c.TimeoutDuration(); d > 0 {
		opts = append(opts, materials.WithTimeout(d))
	}
	if c.MaxRetries > 0 {
		opts = append(opts, materials.WithRetry(c.MaxRetries))
	}
	client := materials.NewClient(apiKey, opts...)
	printVerbose("API: %s (key %s)", client.BaseURL(), cli.MaskAPIKey(apiKey))
	return client, nil
}

// openSource returns the material source for the active context, cached
// unless caching is off. The returned func releases the cache.
func openSource() (materials.Source, func() error, error) {
	c, err := getContext()
	if err != nil {
		return nil, nil, err
	}
	client, err := createClient(c)
	if err != nil {
		return nil, nil, err
	}
	store, err := openCache(c)
	if err != nil {
		return nil, nil, err
	}
	if store == nil {
		return client, func() error { return nil }, nil
	}
	return materials.NewCached(client, store, slog.Default()), store.Close, nil
}
