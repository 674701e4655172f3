package entry

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestKeyedRoundTrip(t *testing.T) {
	b, err := EncodeKeyed("user-42", []byte("payload bytes"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	raw, err := Decode(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !raw.HasKey || raw.Key != "user-42" {
		t.Fatalf("key mismatch: %+v", raw)
	}
	if string(raw.Payload) != "payload bytes" {
		t.Fatalf("payload mismatch: %q", raw.Payload)
	}
}

func TestKeylessRoundTrip(t *testing.T) {
	b, err := Encode(Metadata{}, []byte("no key here"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	raw, err := Decode(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if raw.HasKey {
		t.Fatalf("expected keyless entry, got key %q", raw.Key)
	}
	if string(raw.Payload) != "no key here" {
		t.Fatalf("payload mismatch: %q", raw.Payload)
	}
}

func TestEmptyPayload(t *testing.T) {
	b, err := EncodeKeyed("k", nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	raw, err := Decode(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(raw.Payload) != 0 {
		t.Fatalf("expected empty payload, got %q", raw.Payload)
	}
}

func TestDeterministicEncoding(t *testing.T) {
	a, err := EncodeKeyed("k", []byte("v"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	b, err := EncodeKeyed("k", []byte("v"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("encoding not deterministic:\n%x\n%x", a, b)
	}
}

func TestChecksumVerifiedBeforeFields(t *testing.T) {
	b, err := EncodeKeyed("k", []byte("v"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// flip a payload bit; the checksum must catch it
	b[len(b)-1] ^= 0xff
	if _, err := Decode(b); !errors.Is(err, ErrChecksum) {
		t.Fatalf("want ErrChecksum, got %v", err)
	}
	// flip a metadata bit too
	b2, _ := EncodeKeyed("k", []byte("v"))
	b2[8] ^= 0x01
	if _, err := Decode(b2); !errors.Is(err, ErrChecksum) {
		t.Fatalf("want ErrChecksum for metadata corruption, got %v", err)
	}
}

func TestTruncatedEnvelope(t *testing.T) {
	if _, err := Decode([]byte{1, 2, 3}); !errors.Is(err, ErrTruncated) {
		t.Fatalf("want ErrTruncated, got %v", err)
	}
	b, _ := EncodeKeyed("key", []byte("payload"))
	// cut inside the metadata block: checksum fails first since it covers the
	// remainder, so any truncation surfaces as corruption
	if _, err := Decode(b[:headerSize+1]); err == nil {
		t.Fatalf("expected error for truncated entry")
	}
}

func TestKeyTooLarge(t *testing.T) {
	if _, err := EncodeKeyed(strings.Repeat("x", 1<<17), nil); !errors.Is(err, ErrKeyTooLarge) {
		t.Fatalf("want ErrKeyTooLarge, got %v", err)
	}
}

func TestMetaBlockPreservedVerbatim(t *testing.T) {
	b, err := EncodeKeyed("abc", []byte("p"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	raw, err := Decode(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := b[headerSize : len(b)-1] // metadata block precedes the 1-byte payload
	if !bytes.Equal(raw.Meta, want) {
		t.Fatalf("metadata not byte-exact: got %x want %x", raw.Meta, want)
	}
}
