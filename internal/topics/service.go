package topics

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/google/uuid"

	"github.com/siltdb/silt/internal/entry"
	"github.com/siltdb/silt/internal/eventlog"
	"github.com/siltdb/silt/internal/metrics"
	"github.com/siltdb/silt/internal/namespace"
	"github.com/siltdb/silt/internal/runtime"
	logpkg "github.com/siltdb/silt/pkg/log"
)

// Service provides the topic registry plus publish, read, get, and compact
// operations over it.
type Service struct {
	rt     *runtime.Runtime
	logger logpkg.Logger
	nameRe *regexp.Regexp
}

// New returns a Service using a default logger.
func New(rt *runtime.Runtime) *Service {
	return NewWithLogger(rt, nil)
}

// NewWithLogger constructs the service with an injected logger.
func NewWithLogger(rt *runtime.Runtime, logger logpkg.Logger) *Service {
	if logger == nil {
		logger = logpkg.NewLogger().With(logpkg.Component("topics"))
	}
	re := regexp.MustCompile("^(?:" + rt.Config().TopicNameRegex + ")$")
	return &Service{rt: rt, logger: logger, nameRe: re}
}

// EnsureNamespace resolves and creates the namespace if absent. Empty maps
// to the configured default.
func (s *Service) EnsureNamespace(ctx context.Context, ns string) (namespace.Meta, error) {
	if ns == "" {
		ns = s.rt.Config().DefaultNamespaceName
	}
	return s.rt.EnsureNamespace(ns)
}

func (s *Service) readTopic(ns, name string) (Topic, bool) {
	b, err := s.rt.DB().Get(topicMetaKey(ns, name))
	if err != nil || len(b) == 0 {
		return Topic{}, false
	}
	var t Topic
	if err := json.Unmarshal(b, &t); err != nil {
		return Topic{}, false
	}
	return t, true
}

func (s *Service) writeTopic(t Topic) error {
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return s.rt.DB().Set(topicMetaKey(t.Namespace, t.Name), b)
}

// Create registers a topic and allocates its source segment. Idempotent:
// creating an existing topic returns the existing record.
func (s *Service) Create(ctx context.Context, ns, name string) (Topic, error) {
	metaNS, err := s.EnsureNamespace(ctx, ns)
	if err != nil {
		return Topic{}, err
	}
	if !s.nameRe.MatchString(name) {
		return Topic{}, fmt.Errorf("%w: %q", ErrInvalidTopicName, name)
	}
	if t, ok := s.readTopic(metaNS.Name, name); ok {
		return t, nil
	}
	source, err := s.rt.Logs().Create(ctx)
	if err != nil {
		return Topic{}, err
	}
	now := time.Now().UnixMilli()
	t := Topic{
		Namespace:   metaNS.Name,
		Name:        name,
		InstanceID:  uuid.NewString(),
		Source:      source.ID(),
		CreatedAtMs: now,
		UpdatedAtMs: now,
	}
	if err := s.writeTopic(t); err != nil {
		return Topic{}, err
	}
	s.logger.With(
		logpkg.Str("ns", t.Namespace),
		logpkg.Str("topic", t.Name),
		logpkg.Str("source", t.Source.String()),
	).Info("topic created")
	return t, nil
}

// Lookup resolves an existing topic, optionally auto-creating it when the
// configuration allows.
func (s *Service) Lookup(ctx context.Context, ns, name string) (Topic, error) {
	metaNS, err := s.EnsureNamespace(ctx, ns)
	if err != nil {
		return Topic{}, err
	}
	if t, ok := s.readTopic(metaNS.Name, name); ok {
		return t, nil
	}
	if s.rt.Config().AllowAutoCreateTopics {
		return s.Create(ctx, metaNS.Name, name)
	}
	return Topic{}, fmt.Errorf("%w: %s/%s", ErrTopicNotFound, metaNS.Name, name)
}

// List returns the names of all topics in a namespace.
func (s *Service) List(ctx context.Context, ns string) ([]string, error) {
	metaNS, err := s.EnsureNamespace(ctx, ns)
	if err != nil {
		return nil, err
	}
	prefix := topicListPrefix(metaNS.Name)
	hi := append(append([]byte{}, prefix...), 0xFF)
	it, err := s.rt.DB().NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: hi})
	if err != nil {
		return nil, err
	}
	defer func() { _ = it.Close() }()
	var out []string
	suffix := []byte("/meta")
	for ok := it.First(); ok; ok = it.Next() {
		k := it.Key()
		rest := k[len(prefix):]
		if len(rest) <= len(suffix) {
			continue
		}
		if string(rest[len(rest)-len(suffix):]) != string(suffix) {
			continue
		}
		out = append(out, string(rest[:len(rest)-len(suffix)]))
	}
	return out, nil
}

// Publish appends one entry to the topic's source segment. An empty key
// publishes a keyless entry, which compaction ignores.
func (s *Service) Publish(ctx context.Context, ns, name, key string, payload []byte) (eventlog.Position, error) {
	t0 := time.Now()
	metaNS, err := s.EnsureNamespace(ctx, ns)
	if err != nil {
		return eventlog.Position{}, err
	}
	t, err := s.Lookup(ctx, metaNS.Name, name)
	if err != nil {
		return eventlog.Position{}, err
	}
	if metaNS.PayloadMaxBytes > 0 && len(payload) > metaNS.PayloadMaxBytes {
		return eventlog.Position{}, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(payload))
	}
	if metaNS.KeyMaxBytes > 0 && len(key) > metaNS.KeyMaxBytes {
		return eventlog.Position{}, fmt.Errorf("%w: %d bytes", ErrKeyTooLarge, len(key))
	}

	var encoded []byte
	if key != "" {
		encoded, err = entry.EncodeKeyed(key, payload)
	} else {
		encoded, err = entry.Encode(entry.Metadata{}, payload)
	}
	if err != nil {
		return eventlog.Position{}, err
	}

	source, err := s.rt.Logs().Open(t.Source)
	if err != nil {
		return eventlog.Position{}, err
	}
	pos, err := source.Append(ctx, encoded)
	if err != nil {
		return eventlog.Position{}, err
	}
	metrics.TopicPublishes.WithLabelValues(metaNS.Name).Inc()
	s.logger.With(
		logpkg.Str("ns", metaNS.Name),
		logpkg.Str("topic", name),
		logpkg.Uint64("offset", pos.Offset),
		logpkg.Int("bytes", len(payload)),
		logpkg.Int64("dur_ms", time.Since(t0).Milliseconds()),
	).Debug("topics.publish")
	return pos, nil
}

// Compact runs a full compaction of the topic's source segment and, on
// success, swings the topic's compacted pointer to the new sealed segment.
func (s *Service) Compact(ctx context.Context, ns, name string) (Topic, error) {
	metaNS, err := s.EnsureNamespace(ctx, ns)
	if err != nil {
		return Topic{}, err
	}
	t, err := s.Lookup(ctx, metaNS.Name, name)
	if err != nil {
		return Topic{}, err
	}
	fut := s.rt.Compactor().Submit(ctx, t.Source)
	outID, err := fut.Wait(ctx)
	if err != nil {
		return Topic{}, err
	}
	t.LastCompacted = outID
	t.CompactedThrough = fut.Boundary()
	t.UpdatedAtMs = time.Now().UnixMilli()
	if err := s.writeTopic(t); err != nil {
		return Topic{}, err
	}
	s.logger.With(
		logpkg.Str("ns", t.Namespace),
		logpkg.Str("topic", t.Name),
		logpkg.Str("compacted", outID.String()),
		logpkg.Uint64("through", t.CompactedThrough),
	).Info("topic compacted")
	return t, nil
}

// ReadOptions bounds an Entries call.
type ReadOptions struct {
	From  uint64
	Limit int
	// Compacted reads the latest compacted segment instead of the source.
	Compacted bool
}

// Entries reads decoded entries from the topic in offset order and returns
// the offset to resume from.
func (s *Service) Entries(ctx context.Context, ns, name string, opts ReadOptions) ([]Entry, uint64, error) {
	metaNS, err := s.EnsureNamespace(ctx, ns)
	if err != nil {
		return nil, 0, err
	}
	t, err := s.Lookup(ctx, metaNS.Name, name)
	if err != nil {
		return nil, 0, err
	}
	segID := t.Source
	if opts.Compacted {
		if !t.Compacted() {
			return nil, 0, fmt.Errorf("%w: %s/%s", ErrNotCompacted, t.Namespace, t.Name)
		}
		segID = t.LastCompacted
	}
	seg, err := s.rt.Logs().Open(segID)
	if err != nil {
		return nil, 0, err
	}
	last, ok := seg.LastConfirmed()
	if !ok || opts.From > last {
		return nil, opts.From, nil
	}
	recs, resume, err := seg.Read(eventlog.ReadOptions{From: opts.From, To: last, Limit: opts.Limit})
	if err != nil {
		return nil, opts.From, err
	}
	out := make([]Entry, 0, len(recs))
	for _, rec := range recs {
		raw, err := entry.Decode(rec.Bytes)
		if err != nil {
			return nil, opts.From, fmt.Errorf("topics: entry at %s: %w", rec.Pos, err)
		}
		out = append(out, Entry{
			Key:     raw.Key,
			HasKey:  raw.HasKey,
			Payload: raw.Payload,
			Pos:     rec.Pos,
			Offset:  rec.Pos.Offset,
		})
	}
	return out, resume, nil
}

// Get returns the latest value for a key. It consults the compacted segment
// first, then any source entries published after the compacted boundary, so
// the answer is current even between compactions.
func (s *Service) Get(ctx context.Context, ns, name, key string) (Entry, bool, error) {
	metaNS, err := s.EnsureNamespace(ctx, ns)
	if err != nil {
		return Entry{}, false, err
	}
	t, err := s.Lookup(ctx, metaNS.Name, name)
	if err != nil {
		return Entry{}, false, err
	}

	var found Entry
	var ok bool
	tailFrom := uint64(0)
	if t.Compacted() {
		e, hit, err := s.scanForKey(t.LastCompacted, 0, key)
		if err != nil {
			return Entry{}, false, err
		}
		if hit {
			found, ok = e, true
		}
		tailFrom = t.CompactedThrough + 1
	}
	e, hit, err := s.scanForKey(t.Source, tailFrom, key)
	if err != nil {
		return Entry{}, false, err
	}
	if hit {
		found, ok = e, true
	}
	return found, ok, nil
}

// scanForKey walks a segment from the given offset and returns the last
// occurrence of key.
func (s *Service) scanForKey(segID eventlog.ID, from uint64, key string) (Entry, bool, error) {
	seg, err := s.rt.Logs().Open(segID)
	if err != nil {
		return Entry{}, false, err
	}
	last, ok := seg.LastConfirmed()
	if !ok || from > last {
		return Entry{}, false, nil
	}
	batch := s.rt.Config().Compaction.ReadBatch
	var found Entry
	var hit bool
	for from <= last {
		recs, resume, err := seg.Read(eventlog.ReadOptions{From: from, To: last, Limit: batch})
		if err != nil {
			return Entry{}, false, err
		}
		for _, rec := range recs {
			raw, err := entry.Decode(rec.Bytes)
			if err != nil {
				return Entry{}, false, fmt.Errorf("topics: entry at %s: %w", rec.Pos, err)
			}
			if raw.HasKey && raw.Key == key {
				found = Entry{Key: raw.Key, HasKey: true, Payload: raw.Payload, Pos: rec.Pos, Offset: rec.Pos.Offset}
				hit = true
			}
		}
		if len(recs) == 0 || resume > last {
			break
		}
		from = resume
	}
	return found, hit, nil
}
