package compaction

import (
	"github.com/siltdb/silt/internal/eventlog"
)

// Index maps each application key to the position of its most recently
// observed occurrence. One Index is created per run and never shared, so no
// locking is needed; last-writer-wins makes correctness independent of
// internal storage order.
type Index struct {
	last map[string]eventlog.Position
}

// KeyPosition is one frozen (key, last-occurrence position) pair.
type KeyPosition struct {
	Key string
	Pos eventlog.Position
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{last: make(map[string]eventlog.Position)}
}

// Observe unconditionally overwrites the stored position for key.
func (ix *Index) Observe(key string, pos eventlog.Position) {
	ix.last[key] = pos
}

// Len returns the number of distinct keys observed.
func (ix *Index) Len() int { return len(ix.last) }

// Snapshot returns a copy of the final state. The order of the returned
// pairs is unspecified; callers impose their own.
func (ix *Index) Snapshot() []KeyPosition {
	out := make([]KeyPosition, 0, len(ix.last))
	for k, p := range ix.last {
		out = append(out, KeyPosition{Key: k, Pos: p})
	}
	return out
}
