package eventlog

import (
	"context"
	"sync"

	pebblestore "github.com/siltdb/silt/internal/storage/pebble"
)

// Segment provides append/seal/read operations on one log segment. Appends
// from concurrent producers are serialized internally; entries below the last
// confirmed offset are immutable and may be read without coordination.
type Segment struct {
	db *pebblestore.DB
	id ID

	mu     sync.Mutex
	count  uint64
	sealed bool
}

// ID returns the segment identifier.
func (s *Segment) ID() ID { return s.id }

// Append writes one entry as an atomic batch and returns its Position.
// Appending to a sealed segment fails with ErrSealed.
func (s *Segment) Append(ctx context.Context, entry []byte) (Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sealed {
		return Position{}, ErrSealed
	}

	off := s.count
	b := s.db.NewBatch()
	defer b.Close()

	if err := b.Set(keySegEntry(s.id, off), entry, nil); err != nil {
		return Position{}, err
	}
	if err := b.Set(keySegMeta(s.id), encodeSegMeta(off+1, false), nil); err != nil {
		return Position{}, err
	}
	if err := s.db.CommitBatch(ctx, b); err != nil {
		return Position{}, err
	}

	s.count = off + 1
	return Position{Segment: s.id, Offset: off}, nil
}

// Seal marks the segment immutable. The transition happens exactly once;
// sealing an already-sealed segment fails with ErrSealed.
func (s *Segment) Seal(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sealed {
		return ErrSealed
	}
	if err := s.db.Set(keySegMeta(s.id), encodeSegMeta(s.count, true)); err != nil {
		return err
	}
	s.sealed = true
	return nil
}

// Sealed reports whether the segment has been sealed.
func (s *Segment) Sealed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sealed
}

// Count returns the number of durably appended entries.
func (s *Segment) Count() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// LastConfirmed returns the offset of the last durably appended entry.
// ok is false when the segment is empty.
func (s *Segment) LastConfirmed() (off uint64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.count == 0 {
		return 0, false
	}
	return s.count - 1, true
}

func (s *Segment) writeMeta(ctx context.Context) error {
	b := s.db.NewBatch()
	defer b.Close()
	if err := b.Set(keySegMeta(s.id), encodeSegMeta(s.count, s.sealed), nil); err != nil {
		return err
	}
	return s.db.CommitBatch(ctx, b)
}
