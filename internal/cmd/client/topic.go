package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

// NewTopicCommand constructs the `topic` command group and subcommands.
func NewTopicCommand(baseURL BaseURLFunc) *cobra.Command {
	topicCmd := &cobra.Command{Use: "topic", Short: "Topic operations"}

	topicCmd.AddCommand(
		newTopicCreateCommand(baseURL),
		newTopicPublishCommand(baseURL),
		newTopicEntriesCommand(baseURL),
		newTopicCompactCommand(baseURL),
		newTopicGetCommand(baseURL),
		newTopicListCommand(baseURL),
	)

	return topicCmd
}

// newTopicCreateCommand constructs the `topic create` subcommand.
func newTopicCreateCommand(baseURL BaseURLFunc) *cobra.Command {
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create topic",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ns, _ := cmd.Flags().GetString("namespace")
			name, _ := cmd.Flags().GetString("name")
			if name == "" {
				return fmt.Errorf("--name is required")
			}
			body := map[string]string{"namespace": ns, "topic": name}
			if err := postJSON(baseURL, "/v1/topics/create", body, nil); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "created")
			return nil
		},
	}
	createCmd.Flags().StringP("namespace", "n", "default", "Namespace")
	createCmd.Flags().String("name", "", "Topic name")
	return createCmd
}

// newTopicPublishCommand constructs the `topic publish` subcommand.
func newTopicPublishCommand(baseURL BaseURLFunc) *cobra.Command {
	publishCmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish an entry to a topic",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ns, _ := cmd.Flags().GetString("namespace")
			topic, _ := cmd.Flags().GetString("topic")
			key, _ := cmd.Flags().GetString("key")
			data, _ := cmd.Flags().GetString("data")
			if topic == "" {
				return fmt.Errorf("--topic is required")
			}
			body := map[string]any{
				"namespace": ns,
				"topic":     topic,
				"key":       key,
				"payload":   []byte(data),
			}
			var resp struct {
				Segment string `json:"segment"`
				Offset  uint64 `json:"offset"`
			}
			if err := postJSON(baseURL, "/v1/topics/publish", body, &resp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "segment=%s offset=%d\n", resp.Segment, resp.Offset)
			return nil
		},
	}
	publishCmd.Flags().StringP("namespace", "n", "default", "Namespace")
	publishCmd.Flags().String("topic", "", "Topic")
	publishCmd.Flags().String("key", "", "Entry key (empty publishes a keyless entry)")
	publishCmd.Flags().String("data", "", "Entry payload")
	return publishCmd
}

// newTopicEntriesCommand constructs the `topic entries` subcommand.
func newTopicEntriesCommand(baseURL BaseURLFunc) *cobra.Command {
	entriesCmd := &cobra.Command{
		Use:   "entries",
		Short: "Read entries from a topic",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ns, _ := cmd.Flags().GetString("namespace")
			topic, _ := cmd.Flags().GetString("topic")
			from, _ := cmd.Flags().GetUint64("from")
			limit, _ := cmd.Flags().GetInt("limit")
			compacted, _ := cmd.Flags().GetBool("compacted")
			if topic == "" {
				return fmt.Errorf("--topic is required")
			}
			q := url.Values{}
			q.Set("namespace", ns)
			q.Set("topic", topic)
			q.Set("from", strconv.FormatUint(from, 10))
			if limit > 0 {
				q.Set("limit", strconv.Itoa(limit))
			}
			if compacted {
				q.Set("compacted", "true")
			}
			var resp struct {
				Entries []struct {
					Key     string `json:"key"`
					HasKey  bool   `json:"hasKey"`
					Payload []byte `json:"payload"`
					Offset  uint64 `json:"offset"`
				} `json:"entries"`
				Resume uint64 `json:"resume"`
			}
			if err := getJSON(baseURL, "/v1/topics/entries", q, &resp); err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, e := range resp.Entries {
				de := decodedEntry(e.Key, e.Payload)
				de["offset"] = e.Offset
				_ = enc.Encode(de)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "resume=%d\n", resp.Resume)
			return nil
		},
	}
	entriesCmd.Flags().StringP("namespace", "n", "default", "Namespace")
	entriesCmd.Flags().String("topic", "", "Topic")
	entriesCmd.Flags().Uint64("from", 0, "Start offset")
	entriesCmd.Flags().Int("limit", 0, "Max entries (0 = server default)")
	entriesCmd.Flags().Bool("compacted", false, "Read the latest compacted segment")
	return entriesCmd
}

// newTopicCompactCommand constructs the `topic compact` subcommand.
func newTopicCompactCommand(baseURL BaseURLFunc) *cobra.Command {
	compactCmd := &cobra.Command{
		Use:   "compact",
		Short: "Compact a topic, keeping the latest entry per key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ns, _ := cmd.Flags().GetString("namespace")
			topic, _ := cmd.Flags().GetString("topic")
			if topic == "" {
				return fmt.Errorf("--topic is required")
			}
			body := map[string]string{"namespace": ns, "topic": topic}
			var resp struct {
				Compacted        string `json:"compacted"`
				CompactedThrough uint64 `json:"compactedThrough"`
			}
			if err := postJSON(baseURL, "/v1/topics/compact", body, &resp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "compacted=%s through=%d\n", resp.Compacted, resp.CompactedThrough)
			return nil
		},
	}
	compactCmd.Flags().StringP("namespace", "n", "default", "Namespace")
	compactCmd.Flags().String("topic", "", "Topic")
	return compactCmd
}

// newTopicGetCommand constructs the `topic get` subcommand.
func newTopicGetCommand(baseURL BaseURLFunc) *cobra.Command {
	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Get the latest value for a key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ns, _ := cmd.Flags().GetString("namespace")
			topic, _ := cmd.Flags().GetString("topic")
			key, _ := cmd.Flags().GetString("key")
			if topic == "" || key == "" {
				return fmt.Errorf("--topic and --key are required")
			}
			q := url.Values{}
			q.Set("namespace", ns)
			q.Set("topic", topic)
			q.Set("key", key)
			var resp struct {
				Key     string `json:"key"`
				Payload []byte `json:"payload"`
				Offset  uint64 `json:"offset"`
			}
			if err := getJSON(baseURL, "/v1/topics/get", q, &resp); err != nil {
				return err
			}
			de := decodedEntry(resp.Key, resp.Payload)
			de["offset"] = resp.Offset
			return json.NewEncoder(cmd.OutOrStdout()).Encode(de)
		},
	}
	getCmd.Flags().StringP("namespace", "n", "default", "Namespace")
	getCmd.Flags().String("topic", "", "Topic")
	getCmd.Flags().String("key", "", "Entry key")
	return getCmd
}

// newTopicListCommand constructs the `topic list` subcommand.
func newTopicListCommand(baseURL BaseURLFunc) *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List topics in a namespace",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ns, _ := cmd.Flags().GetString("namespace")
			q := url.Values{}
			q.Set("namespace", ns)
			var resp struct {
				Topics []string `json:"topics"`
			}
			if err := getJSON(baseURL, "/v1/topics", q, &resp); err != nil {
				return err
			}
			for _, name := range resp.Topics {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	listCmd.Flags().StringP("namespace", "n", "default", "Namespace")
	return listCmd
}
