package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang/snappy"

	"github.com/matzehuels/forcelayout/pkg/force"
)

// LayoutStore stores position slices in a Cache.
//
// Entries are JSON (which round-trips float64 exactly) compressed with
// snappy. Each entry records its node count; Load treats an entry whose
// count differs from the caller's graph as a miss and evicts it.
type LayoutStore struct {
	cache Cache
	ttl   time.Duration
}

type layoutEntry struct {
	Nodes     int           `json:"n"`
	Positions []force.Point `json:"positions"`
}

// NewLayoutStore wraps c. A zero ttl keeps entries without expiry.
func NewLayoutStore(c Cache, ttl time.Duration) *LayoutStore {
	if c == nil {
		c = NewNullCache()
	}
	return &LayoutStore{cache: c, ttl: ttl}
}

// Save stores positions under key and returns the encoded entry size.
func (s *LayoutStore) Save(ctx context.Context, key string, pos []force.Point) (int, error) {
	data, err := json.Marshal(layoutEntry{Nodes: len(pos), Positions: pos})
	if err != nil {
		return 0, fmt.Errorf("encode layout: %w", err)
	}
	enc := snappy.Encode(nil, data)
	if err := s.cache.Set(ctx, key, enc, s.ttl); err != nil {
		return 0, err
	}
	return len(enc), nil
}

// Load returns the positions stored under key for a graph with n nodes.
// Corrupt entries and entries for a different node count are misses.
func (s *LayoutStore) Load(ctx context.Context, key string, n int) ([]force.Point, bool, error) {
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}

	data, err := snappy.Decode(nil, raw)
	if err != nil {
		_ = s.cache.Delete(ctx, key)
		return nil, false, nil
	}
	var entry layoutEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		_ = s.cache.Delete(ctx, key)
		return nil, false, nil
	}
	if entry.Nodes != n || len(entry.Positions) != n {
		_ = s.cache.Delete(ctx, key)
		return nil, false, nil
	}
	return entry.Positions, true, nil
}
