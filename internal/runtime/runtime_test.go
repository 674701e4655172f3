package runtime

import (
	"context"
	"testing"

	cfgpkg "github.com/siltdb/silt/internal/config"
	pebblestore "github.com/siltdb/silt/internal/storage/pebble"
	logpkg "github.com/siltdb/silt/pkg/log"
)

func newTestRuntime(t *testing.T) *Runtime {
	t.Helper()
	rt, err := Open(Options{
		DataDir: t.TempDir(),
		Fsync:   pebblestore.FsyncModeAlways,
		Config:  cfgpkg.Default(),
		Logger:  logpkg.NewNop(),
	})
	if err != nil {
		t.Fatalf("open runtime: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })
	return rt
}

func TestOpenCloseHealth(t *testing.T) {
	rt := newTestRuntime(t)
	if err := rt.CheckHealth(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
}

func TestEnsureNamespaceAndCreateSegment(t *testing.T) {
	rt := newTestRuntime(t)
	if _, err := rt.EnsureNamespace("default"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	seg, err := rt.Logs().Create(context.Background())
	if err != nil {
		t.Fatalf("create segment: %v", err)
	}
	if seg.ID().IsZero() {
		t.Fatalf("segment id should be assigned")
	}
}

func TestRuntimeCompactorWired(t *testing.T) {
	rt := newTestRuntime(t)
	if rt.Compactor() == nil {
		t.Fatalf("compactor not wired")
	}
}
