package runtime

import (
	"context"
	"errors"

	"github.com/siltdb/silt/internal/compaction"
	cfgpkg "github.com/siltdb/silt/internal/config"
	"github.com/siltdb/silt/internal/eventlog"
	"github.com/siltdb/silt/internal/metrics"
	"github.com/siltdb/silt/internal/namespace"
	pebblestore "github.com/siltdb/silt/internal/storage/pebble"
	logpkg "github.com/siltdb/silt/pkg/log"
)

// Options for building the Runtime.
type Options struct {
	DataDir string
	Fsync   pebblestore.FsyncMode
	Config  cfgpkg.Config
	Logger  logpkg.Logger
}

// Runtime wires storage, config, the segment store, and the compaction
// worker for a single-node instance.
type Runtime struct {
	db        *pebblestore.DB
	config    cfgpkg.Config
	logger    logpkg.Logger
	logs      *eventlog.Store
	compactor *compaction.Compactor
}

// Open initializes the underlying storage and returns a Runtime.
func Open(opts Options) (*Runtime, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewLogger()
	}
	db, err := pebblestore.Open(pebblestore.Options{
		DataDir: opts.DataDir,
		Fsync:   opts.Fsync,
		Metrics: metrics.StorageHook{},
	})
	if err != nil {
		return nil, err
	}
	logs := eventlog.NewStore(db)
	rt := &Runtime{
		db:     db,
		config: opts.Config,
		logger: logger,
		logs:   logs,
		compactor: compaction.New(compaction.Options{
			Store:      logs,
			Logger:     logger.With(logpkg.Component("compaction")),
			QueueDepth: opts.Config.Compaction.QueueDepth,
			ReadBatch:  opts.Config.Compaction.ReadBatch,
		}),
	}
	return rt, nil
}

// Close drains the compaction worker and closes underlying resources.
func (r *Runtime) Close() error {
	if r.compactor != nil {
		r.compactor.Close()
	}
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// CheckHealth performs a simple health check.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.db == nil {
		return errors.New("db not open")
	}
	it, err := r.db.NewIter(nil)
	if err != nil {
		return err
	}
	it.Close()
	return nil
}

// EnsureNamespace creates a namespace record if absent, seeding limits from
// the configured topic defaults.
func (r *Runtime) EnsureNamespace(name string) (namespace.Meta, error) {
	return namespace.Ensure(r.db, name, namespace.Meta{
		PayloadMaxBytes: r.config.TopicDefaults.PayloadMaxBytes,
		KeyMaxBytes:     r.config.TopicDefaults.KeyMaxBytes,
	})
}

// Logs returns the segment store.
func (r *Runtime) Logs() *eventlog.Store { return r.logs }

// Compactor returns the shared compaction worker.
func (r *Runtime) Compactor() *compaction.Compactor { return r.compactor }

// DB exposes the underlying DB for advanced operations (internal use only).
func (r *Runtime) DB() *pebblestore.DB { return r.db }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }

// Logger returns the root logger.
func (r *Runtime) Logger() logpkg.Logger { return r.logger }
