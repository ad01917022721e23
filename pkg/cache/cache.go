// Package cache provides byte-level caching for fetched graph documents.
//
// Backends:
//   - [FileCache]: JSON entry files under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the session service
//   - [NullCache]: stores nothing, used when caching is disabled
//
// Keys are produced by a [Keyer] so every backend uses the same layout, and
// a [ScopedKeyer] can isolate several deployments sharing one Redis.
package cache

import (
	"context"
	"time"
)

// Cache is implemented by every backend.
type Cache interface {
	// Get returns the cached bytes for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys.
type Keyer interface {
	// DocumentKey returns the key of a document fetched by a source of the
	// given kind ("http", "mongo") from ref.
	DocumentKey(kind, ref string) string
}

// DefaultKeyer produces "doc:<kind>:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key layout.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DocumentKey implements Keyer.
func (DefaultKeyer) DocumentKey(kind, ref string) string {
	return hashKey("doc:"+kind, ref)
}

// ScopedKeyer wraps a Keyer with a prefix.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer uses
// DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// DocumentKey implements Keyer.
func (k *ScopedKeyer) DocumentKey(kind, ref string) string {
	return k.prefix + k.inner.DocumentKey(kind, ref)
}
