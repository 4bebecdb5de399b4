// Package dedupe tracks submitted event ids so every game event is applied at
// most once.
package dedupe

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// defaultMaxSize bounds the remembered ids when no option is given.
const defaultMaxSize = 50_000

// Deduper records seen event ids.
type Deduper interface {
	// SeenAndRecord reports whether id was already recorded and records it if not.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets id so a rejected submission can be retried.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// inMemoryDeduper remembers ids in an LRU cache when bounded. Lookups never
// refresh an id, so the oldest recorded id is evicted first. An unbounded
// deduper keeps every id in a map.
type inMemoryDeduper struct {
	maxSize int
	bounded *lru.Cache[string, struct{}]

	mu   sync.Mutex
	seen map[string]struct{}
}

// NewInMemoryDeduper returns a deduper bounded to 50k ids unless overridden.
// A non-positive WithMaxSize makes it unbounded.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	if d.maxSize > 0 {
		if c, err := lru.New[string, struct{}](d.maxSize); err == nil {
			d.bounded = c
			return d
		}
	}
	d.seen = make(map[string]struct{})
	return d
}

// SeenAndRecord implements Deduper.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	if d.bounded != nil {
		seen, _ := d.bounded.ContainsOrAdd(id, struct{}{})
		return seen
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.seen[id]; ok {
		return true
	}
	d.seen[id] = struct{}{}
	return false
}

// Unrecord implements Deduper.
func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	if d.bounded != nil {
		d.bounded.Remove(id)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, id)
}

// Size returns the number of remembered ids.
func (d *inMemoryDeduper) Size() int64 {
	if d.bounded != nil {
		return int64(d.bounded.Len())
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
