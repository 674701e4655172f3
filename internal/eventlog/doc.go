// Package eventlog implements Silt's append-only log segments.
//
// # Overview
//
// A segment is an ordered sequence of opaque binary entries persisted in
// Pebble. Entries are addressed by Position (segment id + 0-based offset) and
// are immutable once written. A segment is writable until it is sealed;
// sealing is a one-time transition that fixes the entry count forever.
//
// Keys are lexicographically ordered for efficient range scans:
//   - seg/{id16}/m           (segment metadata: entry count, sealed flag)
//   - seg/{id16}/e/{off_be8} (entries)
//
// API surface (internal)
//
//	store := eventlog.NewStore(db)
//	seg, _ := store.Create(ctx)
//	pos, _ := seg.Append(ctx, payload)
//	recs, next, _ := seg.Read(ReadOptions{From: 0, To: pos.Offset, Limit: 100})
//	_ = next // resume offset for the following batch
//	b, _ := seg.EntryAt(pos.Offset)
//	_ = seg.Seal(ctx)
//
// Reads never cache across Open calls: a segment re-opened for a second pass
// yields exactly the entries already durably appended, because entries below
// the last confirmed offset are immutable.
package eventlog
