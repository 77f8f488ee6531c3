// Package storage persists rendered artifacts (chord WAV files and
// density-of-states plots) on local disk or in an S3-compatible bucket.
//
// Callers address artifacts by forward-slash paths such as
// "mp-149/chord.wav"; the store decides where the bytes live.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// FileStore reads and writes artifacts by path.
//
// Paths are forward-slash separated and relative to the store root.
// Implementations must be safe for concurrent use.
type FileStore interface {
	// Read opens the named artifact. The caller must close it.
	// A missing artifact yields an error wrapping os.ErrNotExist.
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write creates or truncates the named artifact. Data is committed when
	// the returned writer is closed.
	Write(ctx context.Context, path string) (io.WriteCloser, error)

	// Delete removes the named artifact. Missing artifacts are not an error.
	Delete(ctx context.Context, path string) error

	// Exists reports whether the named artifact exists.
	Exists(ctx context.Context, path string) (bool, error)
}

// Put writes everything src produces to path and commits it.
func Put(ctx context.Context, fs FileStore, path string, src io.WriterTo) error {
	w, err := fs.Write(ctx, path)
	if err != nil {
		return fmt.Errorf("storage: open %s: %w", path, err)
	}
	if _, err := src.WriteTo(w); err != nil {
		w.Close()
		return fmt.Errorf("storage: write %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("storage: commit %s: %w", path, err)
	}
	return nil
}

// Open returns the store named by location. A location of the form
// s3://bucket/prefix selects an S3 bucket configured from the environment
// (see NewS3FromEnv); anything else is a local directory.
func Open(ctx context.Context, location string) (FileStore, error) {
	if !strings.HasPrefix(location, "s3://") {
		return NewLocal(location)
	}
	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("storage: parse %q: %w", location, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("storage: %q has no bucket", location)
	}
	return NewS3FromEnv(ctx, u.Host, strings.Trim(u.Path, "/"))
}
