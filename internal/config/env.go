package config

import (
	"os"
	"strconv"
)

// FromEnv overlays SILT_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("SILT_ALLOW_AUTO_CREATE_TOPICS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.AllowAutoCreateTopics = b
		}
	}
	if v := os.Getenv("SILT_DEFAULT_NAMESPACE_NAME"); v != "" {
		cfg.DefaultNamespaceName = v
	}
	if v := os.Getenv("SILT_TOPIC_NAME_REGEX"); v != "" {
		cfg.TopicNameRegex = v
	}
	if v := os.Getenv("SILT_TOPIC_DEFAULTS_PAYLOAD_MAX_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TopicDefaults.PayloadMaxBytes = n
		}
	}
	if v := os.Getenv("SILT_TOPIC_DEFAULTS_KEY_MAX_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TopicDefaults.KeyMaxBytes = n
		}
	}
	if v := os.Getenv("SILT_COMPACTION_QUEUE_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Compaction.QueueDepth = n
		}
	}
	if v := os.Getenv("SILT_COMPACTION_READ_BATCH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Compaction.ReadBatch = n
		}
	}
}
