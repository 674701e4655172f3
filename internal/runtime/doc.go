// Package runtime wires storage, config, the segment store, and the
// compaction worker into a single-node Silt instance. It exposes Open/Close,
// basic health checks, and accessors used by higher-level services.
//
// Example:
//
//	cfg := config.Default()
//	rt, _ := runtime.Open(runtime.Options{DataDir: "./data", Fsync: pebblestore.FsyncModeAlways, Config: cfg})
//	defer rt.Close()
//	// Health
//	_ = rt.CheckHealth(context.Background())
//	// Create a segment and append
//	seg, _ := rt.Logs().Create(context.Background())
//	_, _ = seg.Append(context.Background(), encoded)
package runtime
