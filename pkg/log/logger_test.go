package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func newCaptureLogger(level Level, f Formatter) (Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := NewLogger(WithLevel(level), WithFormatter(f), WithOutput(NewWriterOutput(&buf)))
	return l, &buf
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newCaptureLogger(WarnLevel, &TextFormatter{DisableTimestamp: true})
	l.Debug("dropped")
	l.Info("dropped too")
	l.Warn("kept")
	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("low-level entries should be filtered: %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Fatalf("warn entry missing: %q", out)
	}
}

func TestWithFieldsPropagate(t *testing.T) {
	l, buf := newCaptureLogger(InfoLevel, &TextFormatter{DisableTimestamp: true})
	l = l.With(Component("compaction"), Str("topic", "orders"))
	l.Info("run complete", Int("keys", 3))
	out := buf.String()
	for _, want := range []string{"component=compaction", "topic=orders", "keys=3", "run complete"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}

func TestJSONFormatter(t *testing.T) {
	l, buf := newCaptureLogger(InfoLevel, &JSONFormatter{})
	l.Info("hello", Str("k", "v"))
	var obj map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &obj); err != nil {
		t.Fatalf("invalid json output: %v", err)
	}
	if obj["msg"] != "hello" || obj["k"] != "v" || obj["level"] != "INFO" {
		t.Fatalf("unexpected object: %v", obj)
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"debug": DebugLevel, "info": InfoLevel, "": InfoLevel, "warn": WarnLevel, "error": ErrorLevel} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("shout"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
