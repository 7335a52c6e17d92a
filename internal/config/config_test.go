package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/csheth/aidaily/internal/daily"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BaseURL != daily.DefaultBaseURL {
		t.Fatalf("BaseURL = %q, want default", cfg.BaseURL)
	}
	if cfg.HistoryRange != string(daily.RangeAll) {
		t.Fatalf("HistoryRange = %q, want %q", cfg.HistoryRange, daily.RangeAll)
	}
	if cfg.RequestTimeout() != daily.DefaultTimeout {
		t.Fatalf("RequestTimeout() = %v, want %v", cfg.RequestTimeout(), daily.DefaultTimeout)
	}
	if cfg.AltScreen == nil || !*cfg.AltScreen {
		t.Fatal("AltScreen should default to enabled")
	}
}

func TestLoadParsesAndValidates(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "base_url: https://daily.example.com/ai-daily/v1\ndefault_history_range: \"7\"\nrequest_timeout_seconds: 10\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BaseURL != "https://daily.example.com/ai-daily/v1" {
		t.Fatalf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.HistoryRange != "7" {
		t.Fatalf("HistoryRange = %q, want 7", cfg.HistoryRange)
	}
	if cfg.RequestTimeout() != 10*time.Second {
		t.Fatalf("RequestTimeout() = %v, want 10s", cfg.RequestTimeout())
	}
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("AIDAILY_TEST_HOST", "https://env.example.com")

	path := writeConfig(t, "base_url: ${AIDAILY_TEST_HOST}/ai-daily/v1\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BaseURL != "https://env.example.com/ai-daily/v1" {
		t.Fatalf("BaseURL = %q, env var not expanded", cfg.BaseURL)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"bad range", "default_history_range: \"14\"\n"},
		{"bad url", "base_url: daily.example.com\n"},
		{"negative timeout", "request_timeout_seconds: -5\n"},
		{"bad yaml", "base_url: [unclosed\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
