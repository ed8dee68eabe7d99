// Package cache stores fetched roster bytes so repeated renders of the same
// remote source do not hit the network again.
//
// Three backends implement [Cache]:
//   - [FileCache]: JSON entries under the XDG cache directory (CLI default)
//   - [RedisCache]: shared entries for multi-instance servers
//   - [NullCache]: disables caching
//
// Keys are built by a [Keyer] so that every backend shares one naming scheme.
package cache

import (
	"context"
	"time"
)

// TTLRoster is how long a fetched roster is reused before being fetched again.
const TTLRoster = time.Hour

// Cache is a byte-oriented key/value store with per-entry expiration.
//
// Get reports (data, true, nil) on a hit and (nil, false, nil) on a miss.
// Backends treat corrupt or expired entries as misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// RosterKey returns the key for the raw bytes of a roster source.
	RosterKey(source string) string
}

// DefaultKeyer hashes sources into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard key builder.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// RosterKey returns "roster:<sha256(source)>".
func (DefaultKeyer) RosterKey(source string) string {
	return rosterKey("roster", source)
}

// ScopedKeyer prefixes every key, isolating tenants that share one backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer falls back to [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// RosterKey returns the prefixed roster key.
func (k *ScopedKeyer) RosterKey(source string) string {
	return k.prefix + k.inner.RosterKey(source)
}
