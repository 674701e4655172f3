// Package topics maintains the registry of keyed topics and the service
// facade over publishing, reading, and compacting them.
//
// A topic is a named handle over one active source segment plus an optional
// pointer to its latest compacted segment. Compaction never mutates the
// source; it produces a fresh sealed segment and atomically swings the
// topic's compacted pointer to it.
package topics
