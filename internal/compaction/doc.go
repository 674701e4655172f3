// Package compaction implements Silt's two-phase topic compaction.
//
// # Algorithm
//
// A run is a well-defined function of a single snapshot of the source
// segment. The boundary (the source's last confirmed offset) is captured
// exactly once, up front; producers may keep appending, but entries past the
// boundary are invisible to the run.
//
// Phase one scans the source from its first entry through the boundary and
// records, per application key, the position of that key's latest occurrence
// (last writer wins). Keyless entries are read but not indexed.
//
// Phase two freezes the index, sorts the (key, position) pairs by ascending
// position of each key's last occurrence, re-reads every indexed entry, and
// appends its key and payload to a freshly created output segment. The
// output is then sealed. Sorting by last-occurrence position rather than by
// key keeps the relative order of keys in the compacted segment aligned with
// when each key was last touched.
//
// # Execution model
//
// A Compactor owns one worker goroutine; all runs, across all topics, are
// serialized on it. Submit enqueues a run and returns a Future. A cancelled
// run abandons its output segment: the segment is never sealed and its id is
// never surfaced.
package compaction
