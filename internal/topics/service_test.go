package topics

import (
	"context"
	"errors"
	"testing"

	cfgpkg "github.com/siltdb/silt/internal/config"
	"github.com/siltdb/silt/internal/runtime"
	pebblestore "github.com/siltdb/silt/internal/storage/pebble"
	logpkg "github.com/siltdb/silt/pkg/log"
)

func newTestService(t *testing.T, mutate func(*cfgpkg.Config)) *Service {
	t.Helper()
	cfg := cfgpkg.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	rt, err := runtime.Open(runtime.Options{
		DataDir: t.TempDir(),
		Fsync:   pebblestore.FsyncModeNever,
		Config:  cfg,
		Logger:  logpkg.NewNop(),
	})
	if err != nil {
		t.Fatalf("open runtime: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })
	return NewWithLogger(rt, logpkg.NewNop())
}

func TestCreateIdempotent(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	t1, err := svc.Create(ctx, "", "orders")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	t2, err := svc.Create(ctx, "", "orders")
	if err != nil {
		t.Fatalf("create again: %v", err)
	}
	if t1.InstanceID != t2.InstanceID || t1.Source != t2.Source {
		t.Fatalf("create not idempotent: %+v vs %+v", t1, t2)
	}
	if t1.Namespace != "default" {
		t.Fatalf("empty namespace should resolve to default, got %q", t1.Namespace)
	}
}

func TestCreateRejectsBadName(t *testing.T) {
	svc := newTestService(t, nil)
	if _, err := svc.Create(context.Background(), "", "Bad Name!"); !errors.Is(err, ErrInvalidTopicName) {
		t.Fatalf("want ErrInvalidTopicName, got %v", err)
	}
}

func TestLookupWithoutAutoCreate(t *testing.T) {
	svc := newTestService(t, func(c *cfgpkg.Config) { c.AllowAutoCreateTopics = false })
	if _, err := svc.Lookup(context.Background(), "", "ghost"); !errors.Is(err, ErrTopicNotFound) {
		t.Fatalf("want ErrTopicNotFound, got %v", err)
	}
}

func TestPublishAndEntries(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	if _, err := svc.Publish(ctx, "", "orders", "a", []byte("A_1")); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if _, err := svc.Publish(ctx, "", "orders", "", []byte("keyless")); err != nil {
		t.Fatalf("publish keyless: %v", err)
	}
	pos, err := svc.Publish(ctx, "", "orders", "b", []byte("B_1"))
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if pos.Offset != 2 {
		t.Fatalf("offset = %d", pos.Offset)
	}

	entries, resume, err := svc.Entries(ctx, "", "orders", ReadOptions{From: 0, Limit: 10})
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 3 || resume != 3 {
		t.Fatalf("entries = %d, resume = %d", len(entries), resume)
	}
	if entries[1].HasKey {
		t.Fatalf("second entry should be keyless")
	}
	if entries[2].Key != "b" || string(entries[2].Payload) != "B_1" {
		t.Fatalf("wrong entry: %+v", entries[2])
	}
}

func TestPublishLimits(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	big := make([]byte, (1<<20)+1)
	if _, err := svc.Publish(ctx, "", "orders", "a", big); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("want ErrPayloadTooLarge, got %v", err)
	}
	longKey := make([]byte, (2<<10)+1)
	for i := range longKey {
		longKey[i] = 'k'
	}
	if _, err := svc.Publish(ctx, "", "orders", string(longKey), []byte("x")); !errors.Is(err, ErrKeyTooLarge) {
		t.Fatalf("want ErrKeyTooLarge, got %v", err)
	}
}

func TestCompactUpdatesPointer(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	mustPublish := func(key, payload string) {
		t.Helper()
		if _, err := svc.Publish(ctx, "", "orders", key, []byte(payload)); err != nil {
			t.Fatalf("publish %s: %v", key, err)
		}
	}
	mustPublish("a", "A_1")
	mustPublish("b", "B_1")
	mustPublish("a", "A_2")

	topic, err := svc.Compact(ctx, "", "orders")
	if err != nil {
		t.Fatalf("compact: %v", err)
	}
	if !topic.Compacted() {
		t.Fatalf("compacted pointer not set")
	}
	if topic.CompactedThrough != 2 {
		t.Fatalf("compacted through = %d", topic.CompactedThrough)
	}

	entries, _, err := svc.Entries(ctx, "", "orders", ReadOptions{Compacted: true})
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("compacted entries = %d", len(entries))
	}
	if entries[0].Key != "b" || entries[1].Key != "a" || string(entries[1].Payload) != "A_2" {
		t.Fatalf("wrong compacted view: %+v", entries)
	}
}

func TestCompactedReadBeforeCompaction(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	if _, err := svc.Publish(ctx, "", "orders", "a", []byte("A_1")); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if _, _, err := svc.Entries(ctx, "", "orders", ReadOptions{Compacted: true}); !errors.Is(err, ErrNotCompacted) {
		t.Fatalf("want ErrNotCompacted, got %v", err)
	}
}

func TestGetMergesCompactedAndTail(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	mustPublish := func(key, payload string) {
		t.Helper()
		if _, err := svc.Publish(ctx, "", "orders", key, []byte(payload)); err != nil {
			t.Fatalf("publish %s: %v", key, err)
		}
	}
	mustPublish("a", "A_1")
	mustPublish("b", "B_1")

	// Before any compaction Get scans the whole source.
	e, ok, err := svc.Get(ctx, "", "orders", "a")
	if err != nil || !ok {
		t.Fatalf("get: %v ok=%v", err, ok)
	}
	if string(e.Payload) != "A_1" {
		t.Fatalf("payload = %q", e.Payload)
	}

	if _, err := svc.Compact(ctx, "", "orders"); err != nil {
		t.Fatalf("compact: %v", err)
	}
	mustPublish("a", "A_2")

	e, ok, err = svc.Get(ctx, "", "orders", "a")
	if err != nil || !ok {
		t.Fatalf("get after compact: %v ok=%v", err, ok)
	}
	if string(e.Payload) != "A_2" {
		t.Fatalf("tail update lost: %q", e.Payload)
	}

	if _, ok, _ := svc.Get(ctx, "", "orders", "missing"); ok {
		t.Fatalf("unexpected hit for missing key")
	}
}

func TestListTopics(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	for _, name := range []string{"orders", "payments"} {
		if _, err := svc.Create(ctx, "", name); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	names, err := svc.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("names = %v", names)
	}
}
