package metrics

import "time"

// StorageHook adapts the Prometheus collectors to the pebblestore.MetricsHook
// interface so storage latencies flow into the shared registry.
type StorageHook struct{}

func (StorageHook) ObserveWrite(time.Duration, int) {}

func (StorageHook) ObserveRead(time.Duration, int) {}

func (StorageHook) ObserveBatchCommit(elapsed time.Duration, _ int, bytes int) {
	StorageBatchCommits.Observe(elapsed.Seconds())
	StorageBatchBytes.Add(float64(bytes))
}
