package eventlog

import (
	"github.com/cockroachdb/pebble"

	pebblestore "github.com/siltdb/silt/internal/storage/pebble"
)

// Record is one physical entry read from a segment.
type Record struct {
	Pos   Position
	Bytes []byte
}

// ReadOptions bounds a forward scan. From and To are inclusive offsets.
type ReadOptions struct {
	From uint64
	To   uint64
	// Limit caps the records returned per call; 0 means no cap.
	Limit int
}

// Read scans entries in ascending offset order within [From, To]. It returns
// the batch and the offset to resume from; resume > To means the range is
// exhausted. An empty range yields an empty batch, not an error.
func (s *Segment) Read(opts ReadOptions) ([]Record, uint64, error) {
	capHint := 64
	if opts.Limit > 0 && opts.Limit < capHint {
		capHint = opts.Limit
	}
	recs := make([]Record, 0, capHint)
	if opts.From > opts.To {
		return recs, opts.From, nil
	}

	low := keySegEntry(s.id, opts.From)
	hi := keySegEntry(s.id, opts.To)
	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: low, UpperBound: append(hi, 0x00)})
	if err != nil {
		return nil, opts.From, err
	}
	defer iter.Close()

	resume := opts.From
	for ok := iter.First(); ok; ok = iter.Next() {
		if opts.Limit > 0 && len(recs) >= opts.Limit {
			break
		}
		off := offsetFromEntryKey(iter.Key())
		recs = append(recs, Record{
			Pos:   Position{Segment: s.id, Offset: off},
			Bytes: append([]byte(nil), iter.Value()...),
		})
		resume = off + 1
	}
	if err := iter.Error(); err != nil {
		return nil, resume, err
	}
	return recs, resume, nil
}

// EntryAt returns the raw bytes of the entry at the given offset.
func (s *Segment) EntryAt(off uint64) ([]byte, error) {
	b, err := s.db.Get(keySegEntry(s.id, off))
	if err != nil {
		if pebblestore.IsNotFound(err) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return b, nil
}
