package controllers

// Common request/response types for HTTP controllers

// nsCreateReq represents a request to create a new namespace.
type nsCreateReq struct {
	Namespace string `json:"namespace"`
}

// topicCreateReq represents a request to create a new topic.
type topicCreateReq struct {
	Namespace string `json:"namespace"`
	Topic     string `json:"topic"`
}

// publishReq represents a request to publish an entry to a topic.
type publishReq struct {
	Namespace string `json:"namespace"`
	Topic     string `json:"topic"`
	Key       string `json:"key"`
	Payload   []byte `json:"payload"`
}

// publishResp carries the assigned position of a published entry.
type publishResp struct {
	Segment string `json:"segment"`
	Offset  uint64 `json:"offset"`
}

// compactReq represents a request to compact a topic.
type compactReq struct {
	Namespace string `json:"namespace"`
	Topic     string `json:"topic"`
}

// compactResp describes the topic after a successful compaction.
type compactResp struct {
	Compacted        string `json:"compacted"`
	CompactedThrough uint64 `json:"compactedThrough"`
}

// entryRespItem represents one entry in a read response.
type entryRespItem struct {
	Key     string `json:"key,omitempty"`
	HasKey  bool   `json:"hasKey"`
	Payload []byte `json:"payload"`
	Offset  uint64 `json:"offset"`
}

// entriesResp is the paginated read response.
type entriesResp struct {
	Entries []entryRespItem `json:"entries"`
	Resume  uint64          `json:"resume"`
}

// getResp is the latest-value lookup response.
type getResp struct {
	Key     string `json:"key"`
	Payload []byte `json:"payload"`
	Offset  uint64 `json:"offset"`
}
