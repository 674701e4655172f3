package entry

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"math"
)

// Envelope layout: crc32c | metaLen(4B BE) | metadata | payload.
const (
	checksumSize = 4
	metaLenSize  = 4
	headerSize   = checksumSize + metaLenSize
)

// Metadata block layout: flags(1B) | keyLen(2B BE) | key (key fields only when
// flagHasKey is set).
const (
	flagsSize  = 1
	keyLenSize = 2

	flagHasKey = 0x01
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

var (
	// ErrChecksum reports a stored checksum that does not match recomputed
	// content. The entry (and the log at that position) must be presumed
	// corrupt.
	ErrChecksum = errors.New("entry: checksum mismatch")
	// ErrTruncated reports an envelope shorter than its own framing claims.
	ErrTruncated = errors.New("entry: truncated envelope")
	// ErrMetadata reports a malformed metadata block.
	ErrMetadata = errors.New("entry: malformed metadata block")
	// ErrKeyTooLarge reports a key exceeding the metadata block's 16-bit
	// length prefix.
	ErrKeyTooLarge = errors.New("entry: key exceeds 64KiB")
)

// Metadata is the application-level header carried inside an entry.
type Metadata struct {
	Key    string
	HasKey bool
}

// Raw is a single decoded entry. Immutable once decoded: the byte slices are
// copies owned by the caller.
type Raw struct {
	// Meta is the byte-exact metadata block as stored on the wire.
	Meta []byte
	// Key is the application key; meaningful only when HasKey is true.
	Key    string
	HasKey bool
	// Payload is everything following the metadata block.
	Payload []byte
}

// Encode serializes metadata and payload into the envelope format. The result
// is byte-for-byte deterministic for identical inputs.
func Encode(md Metadata, payload []byte) ([]byte, error) {
	if md.HasKey && len(md.Key) > math.MaxUint16 {
		return nil, ErrKeyTooLarge
	}

	metaLen := flagsSize
	if md.HasKey {
		metaLen += keyLenSize + len(md.Key)
	}

	out := make([]byte, headerSize+metaLen+len(payload))
	binary.BigEndian.PutUint32(out[checksumSize:], uint32(metaLen))

	meta := out[headerSize : headerSize+metaLen]
	if md.HasKey {
		meta[0] = flagHasKey
		binary.BigEndian.PutUint16(meta[flagsSize:], uint16(len(md.Key)))
		copy(meta[flagsSize+keyLenSize:], md.Key)
	}
	copy(out[headerSize+metaLen:], payload)

	crc := crc32.Checksum(out[checksumSize:], castagnoli)
	binary.BigEndian.PutUint32(out[:checksumSize], crc)
	return out, nil
}

// EncodeKeyed serializes a keyed entry.
func EncodeKeyed(key string, payload []byte) ([]byte, error) {
	return Encode(Metadata{Key: key, HasKey: true}, payload)
}

// Decode parses and validates an envelope. The checksum is verified over the
// full remainder before any field is interpreted.
func Decode(b []byte) (Raw, error) {
	if len(b) < headerSize {
		return Raw{}, ErrTruncated
	}
	stored := binary.BigEndian.Uint32(b[:checksumSize])
	if crc := crc32.Checksum(b[checksumSize:], castagnoli); crc != stored {
		return Raw{}, fmt.Errorf("%w: stored %08x computed %08x", ErrChecksum, stored, crc)
	}

	metaLen := binary.BigEndian.Uint32(b[checksumSize:headerSize])
	if uint64(headerSize)+uint64(metaLen) > uint64(len(b)) {
		return Raw{}, ErrTruncated
	}
	meta := b[headerSize : headerSize+metaLen]
	payload := b[headerSize+metaLen:]

	md, err := decodeMetadata(meta)
	if err != nil {
		return Raw{}, err
	}

	return Raw{
		Meta:    append([]byte(nil), meta...),
		Key:     md.Key,
		HasKey:  md.HasKey,
		Payload: append([]byte(nil), payload...),
	}, nil
}

func decodeMetadata(meta []byte) (Metadata, error) {
	if len(meta) < flagsSize {
		return Metadata{}, ErrMetadata
	}
	flags := meta[0]
	if flags&flagHasKey == 0 {
		return Metadata{}, nil
	}
	if len(meta) < flagsSize+keyLenSize {
		return Metadata{}, ErrMetadata
	}
	keyLen := int(binary.BigEndian.Uint16(meta[flagsSize:]))
	if flagsSize+keyLenSize+keyLen > len(meta) {
		return Metadata{}, ErrMetadata
	}
	key := string(meta[flagsSize+keyLenSize : flagsSize+keyLenSize+keyLen])
	return Metadata{Key: key, HasKey: true}, nil
}
