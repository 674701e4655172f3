package topics

import (
	"errors"

	"github.com/siltdb/silt/internal/eventlog"
)

var (
	// ErrTopicNotFound is returned when a topic was never created and
	// auto-creation is disabled.
	ErrTopicNotFound = errors.New("topics: topic not found")
	// ErrInvalidTopicName is returned for names rejected by the configured
	// topic name pattern.
	ErrInvalidTopicName = errors.New("topics: invalid topic name")
	// ErrPayloadTooLarge is returned when a publish exceeds the namespace
	// payload limit.
	ErrPayloadTooLarge = errors.New("topics: payload exceeds limit")
	// ErrKeyTooLarge is returned when a publish key exceeds the namespace
	// key limit.
	ErrKeyTooLarge = errors.New("topics: key exceeds limit")
	// ErrNotCompacted is returned when a compacted read is requested for a
	// topic that has never been compacted.
	ErrNotCompacted = errors.New("topics: topic has no compacted segment")
)

// Topic is the persisted registry record for one keyed topic.
type Topic struct {
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
	// InstanceID distinguishes recreations of the same topic name.
	InstanceID string `json:"instanceId"`
	// Source is the segment all publishes append to.
	Source eventlog.ID `json:"source"`
	// LastCompacted points at the most recent sealed compaction output, or
	// zero if the topic was never compacted.
	LastCompacted eventlog.ID `json:"lastCompacted,omitempty"`
	// CompactedThrough is the highest source offset covered by
	// LastCompacted. Only meaningful when LastCompacted is set.
	CompactedThrough uint64 `json:"compactedThrough,omitempty"`
	CreatedAtMs      int64  `json:"createdAtMs"`
	UpdatedAtMs      int64  `json:"updatedAtMs"`
}

// Compacted reports whether the topic has a usable compacted segment.
func (t Topic) Compacted() bool { return !t.LastCompacted.IsZero() }

// Entry is one decoded topic entry returned by reads.
type Entry struct {
	Key     string            `json:"key,omitempty"`
	HasKey  bool              `json:"hasKey"`
	Payload []byte            `json:"payload"`
	Pos     eventlog.Position `json:"-"`
	Offset  uint64            `json:"offset"`
}
