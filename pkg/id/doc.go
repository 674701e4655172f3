// Package id provides a 128-bit, lexicographically sortable identifier used
// for Silt log segment ids.
//
// # Format
//
// The ID is 16 bytes big-endian: [8 bytes ms_timestamp][8 bytes sequence].
// Byte-wise comparison preserves chronological order, and IDs generated within
// the same millisecond remain strictly increasing by sequence. Segment ids
// therefore sort in creation order inside the Pebble keyspace without any
// extra bookkeeping.
//
// # Monotonicity
//
// The Generator ensures per-process monotonicity:
//   - If the system clock regresses, it pins to the last seen millisecond and
//     increments the sequence to avoid going backwards.
//   - If the sequence would overflow within a millisecond, it waits for the
//     next millisecond before emitting the next ID.
//
// Usage
//
//	g := id.NewGenerator()
//	segID := g.Next()
//	b := segID.Bytes()   // 16-byte representation, usable as a key fragment
//	s := segID.String()  // hex string
package id
