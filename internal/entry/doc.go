// Package entry implements the binary envelope shared by every Silt log
// entry:
//
//	[crc32c (4B BE)] [metadata length (4B BE)] [metadata] [payload]
//
// The checksum covers everything after itself and is verified before any
// field is trusted. The metadata block carries the optional application key:
//
//	[flags (1B, bit0 = has key)] [key length (2B BE)] [key bytes]
//
// Keyless entries are valid; they decode with HasKey=false and are skipped by
// compaction. Encoding is byte-for-byte deterministic for identical inputs,
// which keeps compacted output independently verifiable.
package entry
