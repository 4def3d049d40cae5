package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigPollingFromFile(t *testing.T) {
	path := writeConfig(t, `
webhook:
  trigger_url: http://n8n.local/trigger
  chat_url: http://n8n.local/chat
polling:
  interval: 1s
  rotate_interval: 2s
  timeout: 5m
  completion_delay: 500ms
`)
	cfg, err := LoadConfig(path, false)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Polling.Interval != time.Second {
		t.Errorf("interval = %v, want 1s", cfg.Polling.Interval)
	}
	if cfg.Polling.RotateInterval != 2*time.Second {
		t.Errorf("rotate_interval = %v, want 2s", cfg.Polling.RotateInterval)
	}
	if cfg.Polling.Timeout != 5*time.Minute {
		t.Errorf("timeout = %v, want 5m", cfg.Polling.Timeout)
	}
	if cfg.Polling.CompletionDelay != 500*time.Millisecond {
		t.Errorf("completion_delay = %v, want 500ms", cfg.Polling.CompletionDelay)
	}
}

func TestLoadConfigPollingDefaults(t *testing.T) {
	path := writeConfig(t, `
webhook:
  trigger_url: http://n8n.local/trigger
  chat_url: http://n8n.local/chat
`)
	cfg, err := LoadConfig(path, false)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Polling != DefaultPollingConfig() {
		t.Errorf("polling = %+v, want defaults %+v", cfg.Polling, DefaultPollingConfig())
	}
}

func TestDefaultPollingConfig(t *testing.T) {
	def := DefaultPollingConfig()
	if def.Interval != 2*time.Second || def.RotateInterval != 3*time.Second {
		t.Errorf("cadence = %v/%v, want 2s/3s", def.Interval, def.RotateInterval)
	}
	if def.Timeout != 15*time.Minute {
		t.Errorf("timeout = %v, want 15m", def.Timeout)
	}
	if def.CompletionDelay != 2*time.Second {
		t.Errorf("completion_delay = %v, want 2s", def.CompletionDelay)
	}
}

func TestLoadConfigRequiresWebhookURLs(t *testing.T) {
	t.Setenv("N8N_WEBHOOK_URL", "")
	path := writeConfig(t, `
webhook:
  chat_url: http://n8n.local/chat
`)
	if _, err := LoadConfig(path, false); err == nil {
		t.Fatal("expected error for missing trigger_url")
	}
}
