// Package dedupe tracks ingested event ids so each video event is applied at most once.
package dedupe

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultMaxSize = 50_000

// Deduper records seen event IDs to ensure at-most-once processing.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets id so a retry is accepted. Used when an event was
	// recorded but could not be queued.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// NewInMemoryDeduper creates a deduper. With a positive max size the oldest
// recorded ids are evicted first; otherwise every id is kept.
func NewInMemoryDeduper(opts ...Option) Deduper {
	cfg := options{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.maxSize <= 0 {
		return &unboundedDeduper{seen: make(map[string]struct{})}
	}
	cache, err := lru.New[string, struct{}](cfg.maxSize)
	if err != nil {
		// only fails for non-positive sizes, handled above
		return &unboundedDeduper{seen: make(map[string]struct{})}
	}
	return &boundedDeduper{cache: cache}
}

// boundedDeduper keeps at most maxSize ids in an LRU.
type boundedDeduper struct {
	cache *lru.Cache[string, struct{}]
}

func (d *boundedDeduper) SeenAndRecord(_ context.Context, id string) bool {
	seen, _ := d.cache.ContainsOrAdd(id, struct{}{})
	return seen
}

func (d *boundedDeduper) Unrecord(_ context.Context, id string) {
	d.cache.Remove(id)
}

func (d *boundedDeduper) Size() int64 {
	return int64(d.cache.Len())
}

// unboundedDeduper never forgets an id.
type unboundedDeduper struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func (d *unboundedDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.seen[id]; ok {
		return true
	}
	d.seen[id] = struct{}{}
	return false
}

func (d *unboundedDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	delete(d.seen, id)
	d.mu.Unlock()
}

func (d *unboundedDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
