// Package cache stores computed layouts so repeated runs over the same graph
// and parameters skip the force simulation.
//
// # Backends
//
//   - [FileCache]: one file per key under a directory (CLI default)
//   - [RedisCache]: shared cache for several machines
//   - [NullCache]: never stores anything (--no-cache)
//
// # Keys
//
// A [Keyer] derives keys from a content hash of the graph plus every
// parameter that changes the result:
//
//	key := cache.NewDefaultKeyer().LayoutKey(cache.Hash(graphJSON), cache.LayoutKeyOpts{
//	    Area: 22, Gravity: 0.8, Speed: 0.01, Iterations: 2000, Seed: 42,
//	})
//
// # Layout Entries
//
// [LayoutStore] wraps a Cache and encodes position slices so they round-trip
// exactly; entries whose node count disagrees with the graph are misses.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values.
const (
	TTLLayout    = 30 * 24 * time.Hour
	TTLPositions = 0 // no expiry
)

// Cache is a byte-oriented key-value store with optional expiry.
// A zero ttl stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// LayoutKeyOpts holds everything besides the graph that determines a layout.
type LayoutKeyOpts struct {
	Area       float64 `json:"area"`
	Gravity    float64 `json:"gravity"`
	Speed      float64 `json:"speed"`
	Iterations int     `json:"iterations"`
	Seed       int64   `json:"seed"`
	// InitHash identifies explicit starting positions; empty for random
	// placement.
	InitHash string `json:"init_hash,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	// LayoutKey returns the key for a layout of the graph with the given
	// content hash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
}

// DefaultKeyer produces keys of the form "layout:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}
