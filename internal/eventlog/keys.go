package eventlog

import (
	"encoding/binary"

	"github.com/siltdb/silt/pkg/id"
)

// Keyspace helpers for Pebble keys.
//
// Layout (byte-wise, lexicographically sortable):
// - seg/{id16}/m
// - seg/{id16}/e/{off_be8}

var (
	segPrefix  = []byte("seg/")
	metaSuffix = []byte("/m")
	entrySeg   = []byte("/e/")
)

func appendBE8(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

// keySegMeta builds the segment metadata key.
func keySegMeta(segID id.ID) []byte {
	k := make([]byte, 0, len(segPrefix)+id.Size+len(metaSuffix))
	k = append(k, segPrefix...)
	k = append(k, segID[:]...)
	k = append(k, metaSuffix...)
	return k
}

// keySegEntry builds the entry key with a big-endian offset for proper ordering.
func keySegEntry(segID id.ID, off uint64) []byte {
	k := make([]byte, 0, len(segPrefix)+id.Size+len(entrySeg)+8)
	k = append(k, segPrefix...)
	k = append(k, segID[:]...)
	k = append(k, entrySeg...)
	k = appendBE8(k, off)
	return k
}

// offsetFromEntryKey extracts the trailing big-endian offset.
func offsetFromEntryKey(k []byte) uint64 {
	return binary.BigEndian.Uint64(k[len(k)-8:])
}
