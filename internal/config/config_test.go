package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Setenv("TEST_DANMAKU_TOKEN", "tok")
	yaml := `
server:
  url: ws://127.0.0.1:8765/danmaku
  handshake_timeout: 5s
  headers:
    Authorization: Bearer ${TEST_DANMAKU_TOKEN}
control:
  addr: 127.0.0.1:9000
overlay:
  window: main-overlay
log:
  level: debug
metrics:
  enabled: true
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.URL != "ws://127.0.0.1:8765/danmaku" {
		t.Errorf("Server.URL = %q, want %q", cfg.Server.URL, "ws://127.0.0.1:8765/danmaku")
	}
	if cfg.Server.HandshakeTimeout != 5*time.Second {
		t.Errorf("Server.HandshakeTimeout = %v, want 5s", cfg.Server.HandshakeTimeout)
	}
	if got := cfg.Server.Headers["Authorization"]; got != "Bearer tok" {
		t.Errorf("Server.Headers[Authorization] = %q, want %q", got, "Bearer tok")
	}
	if cfg.Control.Addr != "127.0.0.1:9000" {
		t.Errorf("Control.Addr = %q, want %q", cfg.Control.Addr, "127.0.0.1:9000")
	}
	if cfg.Overlay.Window != "main-overlay" {
		t.Errorf("Overlay.Window = %q, want %q", cfg.Overlay.Window, "main-overlay")
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want true")
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_DANMAKU_URL", "wss://danmaku.example.com/ws")

	yaml := `
server:
  url: ${TEST_DANMAKU_URL}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.URL != "wss://danmaku.example.com/ws" {
		t.Errorf("Server.URL = %q, want %q", cfg.Server.URL, "wss://danmaku.example.com/ws")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	path := writeTempFile(t, "server: {}\n")

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.Control.Addr != DefaultControlAddr {
		t.Errorf("Control.Addr = %q, want default %q", cfg.Control.Addr, DefaultControlAddr)
	}
	if cfg.Events.QueueCapacity != DefaultQueueCapacity {
		t.Errorf("Events.QueueCapacity = %d, want default %d", cfg.Events.QueueCapacity, DefaultQueueCapacity)
	}
	if cfg.Overlay.Window != DefaultOverlayWindow {
		t.Errorf("Overlay.Window = %q, want default %q", cfg.Overlay.Window, DefaultOverlayWindow)
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want default %q", cfg.Log.Level, DefaultLogLevel)
	}
	if cfg.Server.HandshakeTimeout != 0 {
		t.Errorf("Server.HandshakeTimeout = %v, want 0", cfg.Server.HandshakeTimeout)
	}
}

func TestLoadUnlimited(t *testing.T) {
	yaml := `
server:
  read_limit: -1
events:
  queue_limit: -1
`
	cfg, err := LoadAndValidate(writeTempFile(t, yaml))
	if err != nil {
		t.Fatalf("LoadAndValidate failed: %v", err)
	}

	if cfg.Server.ReadLimit != Unlimited {
		t.Errorf("Server.ReadLimit = %d, want %d", cfg.Server.ReadLimit, Unlimited)
	}
	if got := cfg.Server.FrameLimit(); got != 0 {
		t.Errorf("FrameLimit() = %d, want 0", got)
	}
	if got := cfg.Events.GrowthLimit(); got != 0 {
		t.Errorf("GrowthLimit() = %d, want 0", got)
	}
}

func TestDefaultLimits(t *testing.T) {
	cfg := Default()

	if got := cfg.Server.FrameLimit(); got != DefaultReadLimit {
		t.Errorf("FrameLimit() = %d, want %d", got, DefaultReadLimit)
	}
	if got := cfg.Events.GrowthLimit(); got != DefaultQueueLimit {
		t.Errorf("GrowthLimit() = %d, want %d", got, DefaultQueueLimit)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load of missing file should fail")
	}

	path := writeTempFile(t, "server: [unclosed\n")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "parse config yaml") {
		t.Errorf("Load of bad yaml = %v, want parse error", err)
	}

	path = writeTempFile(t, "log:\n  level: loud\n")
	if _, err := LoadAndValidate(path); err == nil || !strings.Contains(err.Error(), "validate config") {
		t.Errorf("LoadAndValidate = %v, want validate error", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return *Default()
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "defaults",
			mutate:  func(*Config) {},
			wantErr: "",
		},
		{
			name:    "http scheme",
			mutate:  func(c *Config) { c.Server.URL = "http://localhost:8765" },
			wantErr: `server.url scheme must be ws or wss, got "http"`,
		},
		{
			name:    "negative handshake timeout",
			mutate:  func(c *Config) { c.Server.HandshakeTimeout = -time.Second },
			wantErr: "server.handshake_timeout must be >= 0",
		},
		{
			name:    "missing control addr",
			mutate:  func(c *Config) { c.Control.Addr = "" },
			wantErr: "control.addr is required",
		},
		{
			name:    "zero queue capacity",
			mutate:  func(c *Config) { c.Events.QueueCapacity = 0 },
			wantErr: "events.queue_capacity must be >= 1",
		},
		{
			name: "limit below capacity",
			mutate: func(c *Config) {
				c.Events.QueueCapacity = 100
				c.Events.QueueLimit = 10
			},
			wantErr: "events.queue_limit (10) cannot be below queue_capacity (100)",
		},
		{
			name:    "missing overlay window",
			mutate:  func(c *Config) { c.Overlay.Window = "" },
			wantErr: "overlay.window is required",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: `log.level must be one of debug, info, warn, error, got "verbose"`,
		},
		{
			name: "relative metrics path",
			mutate: func(c *Config) {
				c.Metrics.Enabled = true
				c.Metrics.Path = "metrics"
			},
			wantErr: `metrics.path must start with /, got "metrics"`,
		},
		{
			name:    "unlimited read limit",
			mutate:  func(c *Config) { c.Server.ReadLimit = Unlimited },
			wantErr: "",
		},
		{
			name:    "read limit below -1",
			mutate:  func(c *Config) { c.Server.ReadLimit = -2 },
			wantErr: "server.read_limit must be >= 0, or -1 for no limit",
		},
		{
			name:    "unbounded queue",
			mutate:  func(c *Config) { c.Events.QueueLimit = Unlimited },
			wantErr: "",
		},
		{
			name:    "queue limit below -1",
			mutate:  func(c *Config) { c.Events.QueueLimit = -5 },
			wantErr: "events.queue_limit must be >= 0, or -1 for unbounded",
		},
		{
			name:    "public control addr",
			mutate:  func(c *Config) { c.Control.Addr = "0.0.0.0:7878" },
			wantErr: `control.addr must be a loopback address, got "0.0.0.0:7878"`,
		},
		{
			name:    "empty control host",
			mutate:  func(c *Config) { c.Control.Addr = ":7878" },
			wantErr: `control.addr must be a loopback address, got ":7878"`,
		},
		{
			name:    "localhost control addr",
			mutate:  func(c *Config) { c.Control.Addr = "localhost:7878" },
			wantErr: "",
		},
		{
			name:    "ipv6 loopback control addr",
			mutate:  func(c *Config) { c.Control.Addr = "[::1]:7878" },
			wantErr: "",
		},
		{
			name:    "wss url",
			mutate:  func(c *Config) { c.Server.URL = "wss://danmaku.example.com/ws" },
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error containing %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("WARN")
	if err != nil {
		t.Fatalf("ParseLevel failed: %v", err)
	}
	if lvl != slog.LevelWarn {
		t.Errorf("level = %v, want warn", lvl)
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
