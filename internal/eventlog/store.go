package eventlog

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"

	pebblestore "github.com/siltdb/silt/internal/storage/pebble"
	"github.com/siltdb/silt/pkg/id"
)

var (
	// ErrSegmentNotFound reports an unknown segment id.
	ErrSegmentNotFound = errors.New("eventlog: segment not found")
	// ErrEntryNotFound reports a missing entry offset.
	ErrEntryNotFound = errors.New("eventlog: entry not found")
	// ErrSealed reports a mutation attempted on a sealed segment.
	ErrSealed = errors.New("eventlog: segment is sealed")
)

// Store creates and opens log segments backed by a shared Pebble database.
// It hands out one Segment instance per id so that appenders and readers
// observe a single consistent view of the segment's count and sealed state.
type Store struct {
	db  *pebblestore.DB
	ids *id.Generator

	mu   sync.Mutex
	segs map[ID]*Segment
}

// NewStore returns a Store over db.
func NewStore(db *pebblestore.DB) *Store {
	return &Store{db: db, ids: id.NewGenerator(), segs: make(map[ID]*Segment)}
}

// Create allocates a fresh, empty, unsealed segment and persists its metadata.
func (s *Store) Create(ctx context.Context) (*Segment, error) {
	segID := s.ids.Next()
	seg := &Segment{db: s.db, id: segID}
	if err := seg.writeMeta(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.segs[segID] = seg
	s.mu.Unlock()
	return seg, nil
}

// Open returns the segment with the given id, loading its metadata from the
// store on first use.
func (s *Store) Open(segID ID) (*Segment, error) {
	s.mu.Lock()
	if seg, ok := s.segs[segID]; ok {
		s.mu.Unlock()
		return seg, nil
	}
	s.mu.Unlock()

	meta, err := s.db.Get(keySegMeta(segID))
	if err != nil {
		if pebblestore.IsNotFound(err) {
			return nil, ErrSegmentNotFound
		}
		return nil, err
	}
	count, sealed, err := decodeSegMeta(meta)
	if err != nil {
		return nil, err
	}
	seg := &Segment{db: s.db, id: segID, count: count, sealed: sealed}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.segs[segID]; ok {
		return existing, nil
	}
	s.segs[segID] = seg
	return seg, nil
}

// Segment metadata value: count(8B BE) | sealed(1B).
func encodeSegMeta(count uint64, sealed bool) []byte {
	b := make([]byte, 9)
	binary.BigEndian.PutUint64(b[:8], count)
	if sealed {
		b[8] = 1
	}
	return b
}

func decodeSegMeta(b []byte) (count uint64, sealed bool, err error) {
	if len(b) < 9 {
		return 0, false, errors.New("eventlog: corrupt segment metadata")
	}
	return binary.BigEndian.Uint64(b[:8]), b[8] == 1, nil
}
