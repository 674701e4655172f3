package eventlog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	pebblestore "github.com/siltdb/silt/internal/storage/pebble"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db)
}

func TestAppendAssignsDenseOffsets(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seg, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for i := 0; i < 5; i++ {
		pos, err := seg.Append(ctx, []byte{byte(i)})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if pos.Offset != uint64(i) {
			t.Fatalf("want offset %d, got %d", i, pos.Offset)
		}
		if pos.Segment != seg.ID() {
			t.Fatalf("position carries wrong segment id")
		}
	}
	if last, ok := seg.LastConfirmed(); !ok || last != 4 {
		t.Fatalf("last confirmed = %d, %v", last, ok)
	}
	if seg.Count() != 5 {
		t.Fatalf("count = %d", seg.Count())
	}
}

func TestLastConfirmedEmpty(t *testing.T) {
	store := newTestStore(t)
	seg, err := store.Create(context.Background())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, ok := seg.LastConfirmed(); ok {
		t.Fatalf("empty segment should have no last confirmed offset")
	}
}

func TestSealRejectsFurtherAppends(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seg, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := seg.Append(ctx, []byte("x")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := seg.Seal(ctx); err != nil {
		t.Fatalf("seal: %v", err)
	}
	if !seg.Sealed() {
		t.Fatalf("segment should report sealed")
	}
	if _, err := seg.Append(ctx, []byte("y")); !errors.Is(err, ErrSealed) {
		t.Fatalf("want ErrSealed, got %v", err)
	}
	if err := seg.Seal(ctx); !errors.Is(err, ErrSealed) {
		t.Fatalf("sealing twice should fail, got %v", err)
	}
	// count is fixed by the seal
	if seg.Count() != 1 {
		t.Fatalf("sealed count = %d", seg.Count())
	}
}

func TestOpenReturnsSharedInstance(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seg, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	again, err := store.Open(seg.ID())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if again != seg {
		t.Fatalf("expected the same segment instance")
	}
}

func TestOpenUnknownSegment(t *testing.T) {
	store := newTestStore(t)
	var bogus ID
	bogus[0] = 0xff
	if _, err := store.Open(bogus); !errors.Is(err, ErrSegmentNotFound) {
		t.Fatalf("want ErrSegmentNotFound, got %v", err)
	}
}

func TestMetaDurableAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	ctx := context.Background()
	store := NewStore(db)
	seg, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := seg.Append(ctx, []byte(fmt.Sprintf("e%d", i))); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := seg.Seal(ctx); err != nil {
		t.Fatalf("seal: %v", err)
	}
	segID := seg.ID()
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	db2, err := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("reopen pebble: %v", err)
	}
	t.Cleanup(func() { _ = db2.Close() })
	store2 := NewStore(db2)
	seg2, err := store2.Open(segID)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if seg2.Count() != 3 || !seg2.Sealed() {
		t.Fatalf("reopened segment lost state: count=%d sealed=%v", seg2.Count(), seg2.Sealed())
	}
}

func TestPositionOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	older, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	newer, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	a := Position{Segment: older.ID(), Offset: 9}
	b := Position{Segment: newer.ID(), Offset: 0}
	if !a.Less(b) {
		t.Fatalf("positions in an older segment must sort first")
	}
	c := Position{Segment: older.ID(), Offset: 10}
	if !a.Less(c) || c.Less(a) {
		t.Fatalf("offset ordering broken within a segment")
	}
	if a.Compare(a) != 0 {
		t.Fatalf("position should equal itself")
	}
}
