// Package dedupe remembers recently seen keys so repeated diagnostics are
// reported once.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen keys.
type Deduper interface {
	// SeenAndRecord reports whether key was already seen and records it if not.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord forgets key so it is reported again next time.
	Unrecord(ctx context.Context, key string)

	Size() int64
}

// inMemoryDeduper is a seen-set bounded by maxSize. When full, the oldest
// key is evicted first. A maxSize <= 0 disables eviction.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]int // key -> slot in ring, -1 when unbounded
	ring    []string
	next    int
	maxSize int
}

// NewInMemoryDeduper creates a deduper. The default bound is 1024 keys.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 1024,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]int)
	if d.maxSize > 0 {
		d.ring = make([]string, 0, d.maxSize)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		return true
	}
	if d.maxSize <= 0 {
		d.seen[key] = -1
		return false
	}

	if len(d.ring) < d.maxSize {
		d.seen[key] = len(d.ring)
		d.ring = append(d.ring, key)
		return false
	}

	// Ring is full: overwrite the oldest slot. A slot whose key was
	// unrecorded and recorded again elsewhere no longer owns that key.
	slot := d.next
	if old := d.ring[slot]; d.seen[old] == slot {
		delete(d.seen, old)
	}
	d.ring[slot] = key
	d.seen[key] = slot
	d.next = (slot + 1) % d.maxSize
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.seen, key)
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
