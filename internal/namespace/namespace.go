package namespace

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/cockroachdb/pebble"

	pebblestore "github.com/siltdb/silt/internal/storage/pebble"
)

// ErrNotFound is returned by Get for a namespace that was never ensured.
var ErrNotFound = errors.New("namespace: not found")

// Meta holds namespace metadata and per-topic limits inherited by the
// topics created under it.
type Meta struct {
	Name            string `json:"name"`
	CreatedAtMs     int64  `json:"createdAtMs"`
	PayloadMaxBytes int    `json:"payloadMaxBytes"`
	KeyMaxBytes     int    `json:"keyMaxBytes"`
}

// Defaults returns opinionated defaults for new namespaces.
func Defaults() Meta {
	return Meta{
		PayloadMaxBytes: 1 << 20, // 1 MiB
		KeyMaxBytes:     1 << 10, // 1 KiB
	}
}

var nsMetaPrefix = []byte("nsmeta/")

// nsMetaKey builds metadata key for a namespace.
func nsMetaKey(ns string) []byte {
	k := make([]byte, 0, len(nsMetaPrefix)+len(ns))
	k = append(k, nsMetaPrefix...)
	k = append(k, ns...)
	return k
}

// Ensure creates a namespace meta record if absent, returning the effective
// meta. Idempotent: returns existing if already present. Zero fields of
// defaults fall back to the built-in Defaults.
func Ensure(db *pebblestore.DB, name string, defaults Meta) (Meta, error) {
	key := nsMetaKey(name)
	if b, err := db.Get(key); err == nil && len(b) > 0 {
		var m Meta
		if err := json.Unmarshal(b, &m); err == nil {
			return m, nil
		}
		// fallthrough to rewrite if corrupted
	}
	m := Defaults()
	if defaults.PayloadMaxBytes > 0 {
		m.PayloadMaxBytes = defaults.PayloadMaxBytes
	}
	if defaults.KeyMaxBytes > 0 {
		m.KeyMaxBytes = defaults.KeyMaxBytes
	}
	m.Name = name
	m.CreatedAtMs = time.Now().UnixMilli()
	bytes, err := json.Marshal(m)
	if err != nil {
		return Meta{}, err
	}
	if err := db.Set(key, bytes); err != nil {
		return Meta{}, err
	}
	return m, nil
}

// List returns the names of all known namespaces.
func List(db *pebblestore.DB) ([]string, error) {
	hi := append(append([]byte{}, nsMetaPrefix...), 0xFF)
	it, err := db.NewIter(&pebble.IterOptions{LowerBound: nsMetaPrefix, UpperBound: hi})
	if err != nil {
		return nil, err
	}
	defer func() { _ = it.Close() }()
	var out []string
	for ok := it.First(); ok; ok = it.Next() {
		k := it.Key()
		if len(k) > len(nsMetaPrefix) {
			out = append(out, string(k[len(nsMetaPrefix):]))
		}
	}
	return out, nil
}

// Get loads an existing namespace without creating it.
func Get(db *pebblestore.DB, name string) (Meta, error) {
	b, err := db.Get(nsMetaKey(name))
	if err != nil {
		if pebblestore.IsNotFound(err) {
			return Meta{}, ErrNotFound
		}
		return Meta{}, err
	}
	var m Meta
	if err := json.Unmarshal(b, &m); err != nil {
		return Meta{}, err
	}
	return m, nil
}
