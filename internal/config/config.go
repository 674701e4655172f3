package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	AllowAutoCreateTopics bool          `json:"allowAutoCreateTopics" yaml:"allowAutoCreateTopics"`
	DefaultNamespaceName  string        `json:"defaultNamespaceName" yaml:"defaultNamespaceName"`
	TopicNameRegex        string        `json:"topicNameRegex" yaml:"topicNameRegex"`
	TopicDefaults         TopicDefaults `json:"topicDefaults" yaml:"topicDefaults"`
	Compaction            Compaction    `json:"compaction" yaml:"compaction"`
}

// TopicDefaults captures per-topic baseline limits.
type TopicDefaults struct {
	PayloadMaxBytes int `json:"payloadMaxBytes" yaml:"payloadMaxBytes"`
	KeyMaxBytes     int `json:"keyMaxBytes" yaml:"keyMaxBytes"`
}

// Compaction holds tunables for the compaction worker.
type Compaction struct {
	// QueueDepth bounds pending compaction submissions before Submit blocks.
	QueueDepth int `json:"queueDepth" yaml:"queueDepth"`
	// ReadBatch is the number of entries fetched per storage scan iteration
	// during phase one.
	ReadBatch int `json:"readBatch" yaml:"readBatch"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		AllowAutoCreateTopics: true,
		DefaultNamespaceName:  "default",
		TopicNameRegex:        "[a-z0-9-_]{1,128}",
		TopicDefaults: TopicDefaults{
			PayloadMaxBytes: 1 << 20,
			KeyMaxBytes:     2 << 10,
		},
		Compaction: Compaction{
			QueueDepth: 64,
			ReadBatch:  512,
		},
	}
}

// Load reads configuration from a JSON or YAML file (by extension). If path
// is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	return cfg, nil
}
