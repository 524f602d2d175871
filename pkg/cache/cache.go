// Package cache stores computed layouts so repeated runs over an unchanged
// build skip the layout engine.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry under a local directory (CLI default)
//   - [RedisCache]: a shared Redis or Redis-compatible server
//   - [NullCache]: stores nothing (--no-cache)
//
// Keys come from a [Keyer], which hashes the layout graph together with the
// engine options so any change to either yields a new key.
package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Clear removes every entry and reports how many were removed.
	Clear(ctx context.Context) (int, error)
	Close() error
}

// DefaultTTL is how long a cached layout stays valid.
const DefaultTTL = 7 * 24 * time.Hour

// DefaultDir returns the per-user cache directory, following the platform
// convention ($XDG_CACHE_HOME on Linux).
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "splitgraph"), nil
}

// GetJSON decodes the value at key into v. It returns [ErrCacheMiss] when the
// key is absent or the stored value no longer decodes.
func GetJSON(ctx context.Context, c Cache, key string, v any) error {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(data, v); err != nil {
		_ = c.Delete(ctx, key)
		return ErrCacheMiss
	}
	return nil
}

// SetJSON stores v encoded as JSON.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}
