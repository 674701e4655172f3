package config

import (
	"os"
	"strings"
	"testing"
)

func TestDefaultDataDirXDGOverride(t *testing.T) {
	originalXDG := os.Getenv("XDG_DATA_HOME")
	t.Cleanup(func() {
		if originalXDG != "" {
			os.Setenv("XDG_DATA_HOME", originalXDG)
		} else {
			os.Unsetenv("XDG_DATA_HOME")
		}
	})
	os.Setenv("XDG_DATA_HOME", "/custom/data")

	if got := DefaultDataDir(); got != "/custom/data/silt" {
		t.Errorf("expected /custom/data/silt, got %s", got)
	}
}

func TestDefaultDataDirNoHome(t *testing.T) {
	originalHome := os.Getenv("HOME")
	os.Unsetenv("HOME")
	t.Cleanup(func() {
		if originalHome != "" {
			os.Setenv("HOME", originalHome)
		}
	})

	result := DefaultDataDir()
	if result == "" {
		t.Error("expected non-empty result even when HOME is not set")
	}
	if result != "./data" {
		t.Errorf("expected fallback to './data', got %s", result)
	}
}

func TestDefaultDataDirConsistency(t *testing.T) {
	a := DefaultDataDir()
	b := DefaultDataDir()
	if a != b {
		t.Errorf("DefaultDataDir should be consistent, got %s and %s", a, b)
	}
	if !strings.Contains(strings.ToLower(a), "silt") && a != "./data" {
		t.Errorf("expected data dir to reference silt, got %s", a)
	}
}

func TestIsDir(t *testing.T) {
	if !isDir(".") {
		t.Errorf("expected . to be a directory")
	}
	if isDir("/non/existent/path/that/does/not/exist") {
		t.Errorf("expected missing path to not be a directory")
	}
}
