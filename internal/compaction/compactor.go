package compaction

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/siltdb/silt/internal/eventlog"
	"github.com/siltdb/silt/internal/metrics"
	logpkg "github.com/siltdb/silt/pkg/log"
)

// ErrEmptyLog reports a compaction attempt on a source with zero entries at
// the captured boundary. No output segment is created.
var ErrEmptyLog = errors.New("compaction: source log is empty")

// ErrClosed reports a submission to a Compactor that has been shut down.
var ErrClosed = errors.New("compaction: compactor closed")

const defaultReadBatch = 512

// Options configures a Compactor.
type Options struct {
	Store  *eventlog.Store
	Logger logpkg.Logger
	// QueueDepth bounds pending submissions; Submit blocks once it is full.
	QueueDepth int
	// ReadBatch is the number of entries fetched per phase-one scan call.
	ReadBatch int
}

// Compactor runs two-phase compactions on a dedicated single worker
// goroutine, serializing runs across all topics. The worker is injected at
// construction rather than shared process-wide, so tests can own their own
// instance.
type Compactor struct {
	store     *eventlog.Store
	logger    logpkg.Logger
	readBatch int

	jobs chan *job
	done chan struct{}
}

type job struct {
	ctx    context.Context
	source eventlog.ID
	fut    *Future
}

// Future is the eventual result of one submitted run.
type Future struct {
	done     chan struct{}
	id       eventlog.ID
	boundary uint64
	err      error
}

func (f *Future) finish(id eventlog.ID, boundary uint64, err error) {
	f.id = id
	f.boundary = boundary
	f.err = err
	close(f.done)
}

// Done is closed when the run reaches a terminal state.
func (f *Future) Done() <-chan struct{} { return f.done }

// Boundary returns the source offset the run compacted through. Valid only
// after Done for a successful run.
func (f *Future) Boundary() uint64 {
	<-f.done
	return f.boundary
}

// Wait blocks until the run completes or ctx is cancelled, returning the
// sealed output segment id.
func (f *Future) Wait(ctx context.Context) (eventlog.ID, error) {
	select {
	case <-f.done:
		return f.id, f.err
	case <-ctx.Done():
		return eventlog.ID{}, ctx.Err()
	}
}

// New starts a Compactor with one worker goroutine.
func New(opts Options) *Compactor {
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewLogger().With(logpkg.Component("compaction"))
	}
	depth := opts.QueueDepth
	if depth <= 0 {
		depth = 64
	}
	readBatch := opts.ReadBatch
	if readBatch <= 0 {
		readBatch = defaultReadBatch
	}
	c := &Compactor{
		store:     opts.Store,
		logger:    logger,
		readBatch: readBatch,
		jobs:      make(chan *job, depth),
		done:      make(chan struct{}),
	}
	go c.worker()
	return c
}

// Close stops the worker after draining queued runs.
func (c *Compactor) Close() {
	close(c.jobs)
	<-c.done
}

// Submit enqueues a compaction of the given source segment and returns its
// Future. The run observes ctx: cancellation abandons the output segment.
func (c *Compactor) Submit(ctx context.Context, source eventlog.ID) *Future {
	fut := &Future{done: make(chan struct{})}
	defer func() {
		if r := recover(); r != nil {
			fut.finish(eventlog.ID{}, 0, ErrClosed)
		}
	}()
	c.jobs <- &job{ctx: ctx, source: source, fut: fut}
	return fut
}

// Compact submits a run and waits for its result.
func (c *Compactor) Compact(ctx context.Context, source eventlog.ID) (eventlog.ID, error) {
	return c.Submit(ctx, source).Wait(ctx)
}

func (c *Compactor) worker() {
	defer close(c.done)
	for j := range c.jobs {
		id, boundary, err := c.run(j.ctx, j.source)
		j.fut.finish(id, boundary, err)
	}
}

// run executes one full compaction. On any failure after the output segment
// was created, the segment is abandoned: never sealed, never returned.
func (c *Compactor) run(ctx context.Context, sourceID eventlog.ID) (eventlog.ID, uint64, error) {
	start := time.Now()
	runLog := c.logger.With(
		logpkg.Str("run", uuid.NewString()),
		logpkg.Str("source", sourceID.String()),
	)

	source, err := c.store.Open(sourceID)
	if err != nil {
		metrics.CompactionRuns.WithLabelValues("error").Inc()
		return eventlog.ID{}, 0, err
	}

	// The boundary is captured exactly once; everything after it belongs to
	// a future run.
	boundary, ok := source.LastConfirmed()
	if !ok {
		metrics.CompactionRuns.WithLabelValues("empty").Inc()
		runLog.Warn("source log empty, rejecting run")
		return eventlog.ID{}, 0, ErrEmptyLog
	}

	output, err := c.store.Create(ctx)
	if err != nil {
		metrics.CompactionRuns.WithLabelValues("error").Inc()
		return eventlog.ID{}, 0, err
	}
	runLog = runLog.With(logpkg.Str("output", output.ID().String()))

	ix := NewIndex()
	scanned, err := phaseOne(ctx, source, boundary, ix, c.readBatch)
	if err != nil {
		return eventlog.ID{}, 0, c.abandon(runLog, err)
	}
	metrics.CompactionEntriesScanned.Add(float64(scanned))

	if err := phaseTwo(ctx, source, output, ix); err != nil {
		return eventlog.ID{}, 0, c.abandon(runLog, err)
	}

	metrics.CompactionRuns.WithLabelValues("ok").Inc()
	metrics.CompactionKeysWritten.Add(float64(ix.Len()))
	metrics.CompactionDuration.Observe(time.Since(start).Seconds())
	runLog.Info("compaction complete",
		logpkg.Uint64("boundary", boundary),
		logpkg.Uint64("scanned", scanned),
		logpkg.Int("keys", ix.Len()),
		logpkg.Str("elapsed", time.Since(start).String()),
	)
	return output.ID(), boundary, nil
}

// abandon records the terminal status for a failed or cancelled run. The
// output segment stays unsealed and unreferenced.
func (c *Compactor) abandon(runLog logpkg.Logger, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		metrics.CompactionRuns.WithLabelValues("cancelled").Inc()
		runLog.Warn("run cancelled, output abandoned", logpkg.Err(err))
		return err
	}
	metrics.CompactionRuns.WithLabelValues("error").Inc()
	runLog.Error("run failed, output abandoned", logpkg.Err(err))
	return err
}
