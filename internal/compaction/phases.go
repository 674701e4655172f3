package compaction

import (
	"context"
	"fmt"
	"sort"

	"github.com/siltdb/silt/internal/entry"
	"github.com/siltdb/silt/internal/eventlog"
)

// phaseOne populates the index from the source's full prefix up to and
// including the boundary offset. Entries are scanned in batches; every keyed
// entry observed updates the index, keyless entries are skipped.
func phaseOne(ctx context.Context, source *eventlog.Segment, boundary uint64, ix *Index, readBatch int) (scanned uint64, err error) {
	from := uint64(0)
	for {
		if err := ctx.Err(); err != nil {
			return scanned, err
		}
		recs, resume, err := source.Read(eventlog.ReadOptions{From: from, To: boundary, Limit: readBatch})
		if err != nil {
			return scanned, fmt.Errorf("compaction: phase one read at %d: %w", from, err)
		}
		for _, rec := range recs {
			raw, err := entry.Decode(rec.Bytes)
			if err != nil {
				return scanned, fmt.Errorf("compaction: entry at %s: %w", rec.Pos, err)
			}
			scanned++
			if raw.HasKey {
				ix.Observe(raw.Key, rec.Pos)
			}
		}
		if resume > boundary || len(recs) == 0 {
			return scanned, nil
		}
		from = resume
	}
}

// phaseTwo drains the frozen index into the output segment in ascending
// last-occurrence position order, then seals it.
func phaseTwo(ctx context.Context, source *eventlog.Segment, output *eventlog.Segment, ix *Index) error {
	pairs := ix.Snapshot()
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Pos.Less(pairs[j].Pos) })

	for _, kp := range pairs {
		if err := ctx.Err(); err != nil {
			return err
		}
		b, err := source.EntryAt(kp.Pos.Offset)
		if err != nil {
			return fmt.Errorf("compaction: re-read %s: %w", kp.Pos, err)
		}
		raw, err := entry.Decode(b)
		if err != nil {
			return fmt.Errorf("compaction: entry at %s: %w", kp.Pos, err)
		}
		encoded, err := entry.EncodeKeyed(kp.Key, raw.Payload)
		if err != nil {
			return fmt.Errorf("compaction: encode key %q: %w", kp.Key, err)
		}
		if _, err := output.Append(ctx, encoded); err != nil {
			return fmt.Errorf("compaction: append to output: %w", err)
		}
	}
	if err := output.Seal(ctx); err != nil {
		return fmt.Errorf("compaction: seal output: %w", err)
	}
	return nil
}
