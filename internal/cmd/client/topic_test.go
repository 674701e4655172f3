package client

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newFakeServer(t *testing.T) (*httptest.Server, BaseURLFunc) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/topics/create", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("/v1/topics/publish", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Key     string `json:"key"`
			Payload []byte `json:"payload"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"segment": "00ff", "offset": 7})
	})
	mux.HandleFunc("/v1/topics/entries", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"entries": []map[string]any{
				{"key": "a", "hasKey": true, "payload": []byte(`{"v":1}`), "offset": 0},
			},
			"resume": 1,
		})
	})
	mux.HandleFunc("/v1/topics/compact", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"compacted": "00aa", "compactedThrough": 4})
	})
	mux.HandleFunc("/v1/topics/get", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") == "missing" {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "key not found"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"key": "a", "payload": []byte("hello"), "offset": 3})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, func() string { return srv.URL }
}

func runCommand(t *testing.T, baseURL BaseURLFunc, args ...string) (string, error) {
	t.Helper()
	root := NewRoot(baseURL)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestTopicPublishCommand(t *testing.T) {
	_, baseURL := newFakeServer(t)
	out, err := runCommand(t, baseURL, "topic", "publish", "--topic", "demo", "--key", "a", "--data", "hello")
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !strings.Contains(out, "segment=00ff offset=7") {
		t.Fatalf("output: %q", out)
	}
}

func TestTopicEntriesCommand(t *testing.T) {
	_, baseURL := newFakeServer(t)
	out, err := runCommand(t, baseURL, "topic", "entries", "--topic", "demo")
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if !strings.Contains(out, `"payload_json"`) || !strings.Contains(out, "resume=1") {
		t.Fatalf("output: %q", out)
	}
}

func TestTopicCompactCommand(t *testing.T) {
	_, baseURL := newFakeServer(t)
	out, err := runCommand(t, baseURL, "topic", "compact", "--topic", "demo")
	if err != nil {
		t.Fatalf("compact: %v", err)
	}
	if !strings.Contains(out, "compacted=00aa through=4") {
		t.Fatalf("output: %q", out)
	}
}

func TestTopicGetCommandErrors(t *testing.T) {
	_, baseURL := newFakeServer(t)
	if _, err := runCommand(t, baseURL, "topic", "get", "--topic", "demo", "--key", "missing"); err == nil {
		t.Fatalf("expected error for missing key")
	}
	out, err := runCommand(t, baseURL, "topic", "get", "--topic", "demo", "--key", "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !strings.Contains(out, "hello") {
		t.Fatalf("output: %q", out)
	}
}

func TestTopicCreateRequiresName(t *testing.T) {
	_, baseURL := newFakeServer(t)
	if _, err := runCommand(t, baseURL, "topic", "create"); err == nil {
		t.Fatalf("expected error without --name")
	}
}
