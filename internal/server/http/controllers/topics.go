package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/siltdb/silt/internal/compaction"
	"github.com/siltdb/silt/internal/runtime"
	topicsvc "github.com/siltdb/silt/internal/topics"
)

// TopicsController handles topic HTTP endpoints.
//
// It provides endpoints for creating topics, publishing keyed entries,
// reading entries, latest-value lookups, and triggering compaction.
type TopicsController struct {
	rt     *runtime.Runtime
	topics *topicsvc.Service
}

// NewTopicsController creates a new topics controller.
func NewTopicsController(rt *runtime.Runtime, svc *topicsvc.Service) *TopicsController {
	return &TopicsController{
		rt:     rt,
		topics: svc,
	}
}

// RegisterRoutes registers topic routes with the given mux.
func (c *TopicsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/topics", c.handleList)
	mux.HandleFunc("/v1/topics/create", c.handleCreate)
	mux.HandleFunc("/v1/topics/publish", c.handlePublish)
	mux.HandleFunc("/v1/topics/compact", c.handleCompact)
	mux.HandleFunc("/v1/topics/entries", c.handleEntries)
	mux.HandleFunc("/v1/topics/get", c.handleGet)
}

// topicError maps service errors to HTTP status codes.
func topicError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, topicsvc.ErrTopicNotFound), errors.Is(err, topicsvc.ErrNotCompacted):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, topicsvc.ErrInvalidTopicName):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, topicsvc.ErrPayloadTooLarge), errors.Is(err, topicsvc.ErrKeyTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, compaction.ErrEmptyLog):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// handleList lists the topics of a namespace.
func (c *TopicsController) handleList(w http.ResponseWriter, r *http.Request) {
	names, err := c.topics.List(r.Context(), r.URL.Query().Get("namespace"))
	if err != nil {
		topicError(w, err)
		return
	}
	writeJSON(w, map[string]any{"topics": names})
}

// handleCreate registers a topic and allocates its source segment.
//
// Returns 201 Created; creating an existing topic is a no-op.
func (c *TopicsController) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req topicCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if _, err := c.topics.Create(r.Context(), req.Namespace, req.Topic); err != nil {
		topicError(w, err)
		return
	}
	writeCreated(w)
}

// handlePublish appends one entry to a topic and returns its position.
func (c *TopicsController) handlePublish(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req publishReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	pos, err := c.topics.Publish(r.Context(), req.Namespace, req.Topic, req.Key, req.Payload)
	if err != nil {
		topicError(w, err)
		return
	}
	writeJSON(w, publishResp{Segment: pos.Segment.String(), Offset: pos.Offset})
}

// handleCompact synchronously compacts a topic.
//
// Blocks until the single compaction worker finishes the run, then returns
// the new compacted segment id.
func (c *TopicsController) handleCompact(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req compactReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	topic, err := c.topics.Compact(r.Context(), req.Namespace, req.Topic)
	if err != nil {
		topicError(w, err)
		return
	}
	writeJSON(w, compactResp{
		Compacted:        topic.LastCompacted.String(),
		CompactedThrough: topic.CompactedThrough,
	})
}

// handleEntries reads decoded entries from a topic.
//
// Query parameters: namespace, topic, from (offset), limit, compacted.
func (c *TopicsController) handleEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entries, resume, err := c.topics.Entries(r.Context(), q.Get("namespace"), q.Get("topic"), topicsvc.ReadOptions{
		From:      parseOffset(q.Get("from")),
		Limit:     parseLimit(q.Get("limit")),
		Compacted: parseBool(q.Get("compacted")),
	})
	if err != nil {
		topicError(w, err)
		return
	}
	resp := entriesResp{Entries: make([]entryRespItem, 0, len(entries)), Resume: resume}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, entryRespItem{
			Key:     e.Key,
			HasKey:  e.HasKey,
			Payload: e.Payload,
			Offset:  e.Offset,
		})
	}
	writeJSON(w, resp)
}

// handleGet returns the latest value for a key, or 404 when absent.
func (c *TopicsController) handleGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	e, ok, err := c.topics.Get(r.Context(), q.Get("namespace"), q.Get("topic"), q.Get("key"))
	if err != nil {
		topicError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "key not found")
		return
	}
	writeJSON(w, getResp{Key: e.Key, Payload: e.Payload, Offset: e.Offset})
}
