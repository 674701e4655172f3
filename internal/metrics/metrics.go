// Package metrics defines Silt's Prometheus collectors and the exposition
// handler mounted on the HTTP server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CompactionRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "silt_compaction_runs_total",
		Help: "Total compaction runs by terminal status (ok, empty, error, cancelled)",
	}, []string{"status"})

	CompactionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "silt_compaction_run_seconds",
		Help:    "Wall-clock duration of successful compaction runs",
		Buckets: prometheus.DefBuckets,
	})

	CompactionEntriesScanned = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "silt_compaction_entries_scanned_total",
		Help: "Source entries scanned during phase one across all runs",
	})

	CompactionKeysWritten = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "silt_compaction_keys_written_total",
		Help: "Distinct keys written to compacted segments across all runs",
	})

	TopicPublishes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "silt_topic_publishes_total",
		Help: "Entries published per namespace",
	}, []string{"namespace"})

	StorageBatchCommits = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "silt_storage_batch_commit_seconds",
		Help:    "Latency of Pebble batch commits",
		Buckets: prometheus.DefBuckets,
	})

	StorageBatchBytes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "silt_storage_batch_bytes_total",
		Help: "Bytes committed through Pebble batches",
	})
)

func init() {
	prometheus.MustRegister(
		CompactionRuns,
		CompactionDuration,
		CompactionEntriesScanned,
		CompactionKeysWritten,
		TopicPublishes,
		StorageBatchCommits,
		StorageBatchBytes,
	)
}

// Handler returns the Prometheus exposition handler.
func Handler() http.Handler { return promhttp.Handler() }
