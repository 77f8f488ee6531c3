package materials

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/NU-CEM/singing-materials-online/pkg/kv"
	"github.com/vmihailenco/msgpack/v5"
)

// CachePrefix is the key prefix under which Cached stores documents.
var CachePrefix = kv.Key{"mp"}

// Cached wraps a Source and keeps successful responses in a kv.Store,
// msgpack-encoded and keyed as mp:{kind}:{id}. Errors are never cached.
//
// Layout:
//
//	mp:bs:{id}      → msgpack-encoded BandStructure
//	mp:dos:{id}     → msgpack-encoded DOS
//	mp:formula:{id} → msgpack-encoded string
type Cached struct {
	src    Source
	store  kv.Store
	logger *slog.Logger
}

// NewCached returns a caching Source. A nil logger uses slog.Default().
func NewCached(src Source, store kv.Store, logger *slog.Logger) *Cached {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cached{src: src, store: store, logger: logger}
}

// BandStructure implements Source.
func (c *Cached) BandStructure(ctx context.Context, id string) (*BandStructure, error) {
	var bs BandStructure
	err := c.fetch(ctx, cacheKey("bs", id), &bs, func() (any, error) {
		return c.src.BandStructure(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return &bs, nil
}

// DOS implements Source.
func (c *Cached) DOS(ctx context.Context, id string) (*DOS, error) {
	var dos DOS
	err := c.fetch(ctx, cacheKey("dos", id), &dos, func() (any, error) {
		return c.src.DOS(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return &dos, nil
}

// Formula implements Source.
func (c *Cached) Formula(ctx context.Context, id string) (string, error) {
	var formula string
	err := c.fetch(ctx, cacheKey("formula", id), &formula, func() (any, error) {
		return c.src.Formula(ctx, id)
	})
	return formula, err
}

// Invalidate drops every cached document for id.
func (c *Cached) Invalidate(ctx context.Context, id string) error {
	for _, kind := range []string{"bs", "dos", "formula"} {
		if err := c.store.Delete(ctx, cacheKey(kind, id)); err != nil {
			return fmt.Errorf("materials: invalidate %s: %w", id, err)
		}
	}
	return nil
}

// fetch decodes key into out, or calls load, stores its result and decodes
// that into out. A corrupt cache entry is treated as a miss.
func (c *Cached) fetch(ctx context.Context, key kv.Key, out any, load func() (any, error)) error {
	data, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		if err := msgpack.Unmarshal(data, out); err == nil {
			c.logger.Debug("materials cache hit", "key", key.String())
			return nil
		}
		c.logger.Warn("materials cache entry corrupt", "key", key.String())
	case !errors.Is(err, kv.ErrNotFound):
		return fmt.Errorf("materials: read cache %s: %w", key, err)
	}

	v, err := load()
	if err != nil {
		return err
	}
	data, err = msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("materials: encode %s: %w", key, err)
	}
	if err := c.store.Set(ctx, key, data); err != nil {
		c.logger.Warn("materials cache write failed", "key", key.String(), "error", err)
	}
	return msgpack.Unmarshal(data, out)
}

func cacheKey(kind, id string) kv.Key {
	return kv.Key{CachePrefix[0], kind, id}
}

var _ Source = (*Cached)(nil)
