// Package kv is the local cache behind the Materials Project client.
//
// Keys are hierarchical paths such as Key{"phonon", "bs", "mp-149"} and are
// stored as their segments joined by ':'. Segments must not contain ':'.
//
// Badger keeps the cache on disk between runs; Memory is used in tests and
// when caching is disabled.
package kv

import (
	"bytes"
	"context"
	"errors"
	"iter"
	"strings"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("kv: not found")

// Separator joins key segments.
const Separator = ':'

// Key is a hierarchical path.
type Key []string

// String returns the encoded form of the key.
func (k Key) String() string {
	return strings.Join(k, string(Separator))
}

func (k Key) bytes() []byte {
	return []byte(k.String())
}

// prefix returns the encoded key followed by a separator so that
// Key{"a","b"} does not match "a:bc". An empty key matches everything.
func (k Key) prefix() []byte {
	if len(k) == 0 {
		return nil
	}
	return append(k.bytes(), Separator)
}

func decodeKey(b []byte) Key {
	parts := bytes.Split(b, []byte{Separator})
	k := make(Key, len(parts))
	for i, p := range parts {
		k[i] = string(p)
	}
	return k
}

// Entry is a key-value pair returned by List.
type Entry struct {
	Key   Key
	Value []byte
}

// Store is a key-value store with path-based keys.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key Key) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key Key, value []byte) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key Key) error

	// List iterates, in key order, over entries under prefix.
	List(ctx context.Context, prefix Key) iter.Seq2[Entry, error]

	// Close releases the store.
	Close() error
}

// Keys collects the keys under prefix.
func Keys(ctx context.Context, s Store, prefix Key) ([]Key, error) {
	var keys []Key
	for e, err := range s.List(ctx, prefix) {
		if err != nil {
			return keys, err
		}
		keys = append(keys, e.Key)
	}
	return keys, nil
}

// Purge deletes every key under prefix and returns how many were removed.
func Purge(ctx context.Context, s Store, prefix Key) (int, error) {
	keys, err := Keys(ctx, s, prefix)
	if err != nil {
		return 0, err
	}
	for i, k := range keys {
		if err := s.Delete(ctx, k); err != nil {
			return i, err
		}
	}
	return len(keys), nil
}
