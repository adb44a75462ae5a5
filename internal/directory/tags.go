package directory

import (
	"sort"
	"sync"
)

// TagIndex is the append-only set of distinct tags across loaded packages.
// It grows monotonically within a session; there is no removal operation.
// Additions are idempotent and order-independent, so interleaved concurrent
// AddAll calls are safe.
type TagIndex struct {
	mu   sync.RWMutex
	tags map[string]struct{}
}

// NewTagIndex creates an empty tag index.
func NewTagIndex() *TagIndex {
	return &TagIndex{tags: make(map[string]struct{})}
}

// AddAll unions the given tags into the index.
func (t *TagIndex) AddAll(tags []string) {
	if len(tags) == 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, tag := range tags {
		t.tags[tag] = struct{}{}
	}
}

// Has reports whether a tag is present.
func (t *TagIndex) Has(tag string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.tags[tag]
	return ok
}

// Len returns the number of distinct tags.
func (t *TagIndex) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.tags)
}

// SortedList returns all tags in code-point order, for filter-UI population.
func (t *TagIndex) SortedList() []string {
	t.mu.RLock()
	out := make([]string, 0, len(t.tags))
	for tag := range t.tags {
		out = append(out, tag)
	}
	t.mu.RUnlock()

	sort.Strings(out)
	return out
}
