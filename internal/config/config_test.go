package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if len(cfg.Sources) != 3 {
		t.Errorf("Expected 3 default sources, got %d", len(cfg.Sources))
	}
	if cfg.Verify.Timeout != 5*time.Second {
		t.Errorf("Expected verify timeout 5s, got %v", cfg.Verify.Timeout)
	}
	if cfg.Verify.Workers != 50 {
		t.Errorf("Expected 50 verify workers, got %d", cfg.Verify.Workers)
	}
	if cfg.Fetch.Timeout != 30*time.Second {
		t.Errorf("Expected fetch timeout 30s, got %v", cfg.Fetch.Timeout)
	}
	if cfg.Output.BaseName != "LiveTV" {
		t.Errorf("Expected base name LiveTV, got %s", cfg.Output.BaseName)
	}
	if cfg.Schedule.Interval != 0 {
		t.Errorf("Expected one-shot schedule by default, got %v", cfg.Schedule.Interval)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid, got error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid default",
			mutate: func(c *Config) {},
		},
		{
			name:   "empty source list is valid",
			mutate: func(c *Config) { c.Sources = nil },
		},
		{
			name:    "source without URL",
			mutate:  func(c *Config) { c.Sources = []Source{{Name: "x"}} },
			wantErr: "URL is required",
		},
		{
			name:    "relative source URL",
			mutate:  func(c *Config) { c.Sources = []Source{{Name: "x", URL: "/list.m3u"}} },
			wantErr: "is not absolute",
		},
		{
			name:    "zero verify timeout",
			mutate:  func(c *Config) { c.Verify.Timeout = 0 },
			wantErr: "Verify timeout must be positive",
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.Verify.Workers = 0 },
			wantErr: "Verify workers must be positive",
		},
		{
			name:    "zero fetch concurrency",
			mutate:  func(c *Config) { c.Fetch.Concurrency = 0 },
			wantErr: "Fetch concurrency must be positive",
		},
		{
			name:    "breaker without cooldown",
			mutate:  func(c *Config) { c.Fetch.BreakerCooldown = 0 },
			wantErr: "breaker cooldown must be positive",
		},
		{
			name: "disabled breaker needs no cooldown",
			mutate: func(c *Config) {
				c.Fetch.BreakerThreshold = 0
				c.Fetch.BreakerCooldown = 0
			},
		},
		{
			name:    "base name with separator",
			mutate:  func(c *Config) { c.Output.BaseName = "a/b" },
			wantErr: "cannot contain path separators",
		},
		{
			name:    "unknown time zone",
			mutate:  func(c *Config) { c.Output.TimeZone = "Mars/Olympus" },
			wantErr: "time zone",
		},
		{
			name: "redis without lock TTL",
			mutate: func(c *Config) {
				c.Redis.URL = "redis://localhost:6379"
				c.Redis.LockTTL = 0
			},
			wantErr: "Redis lock TTL must be positive",
		},
		{
			name: "schedule without port",
			mutate: func(c *Config) {
				c.Schedule.Interval = time.Hour
				c.HTTP.Port = ""
			},
			wantErr: "HTTP port is required",
		},
		{
			name: "multiple errors are collected",
			mutate: func(c *Config) {
				c.Verify.Workers = 0
				c.Output.Dir = ""
			},
			wantErr: "Output directory is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `sources:
  - name: local
    url: http://localhost/list.m3u
verify:
  timeout: 2s
  workers: 8
output:
  dir: /tmp/out
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if len(cfg.Sources) != 1 || cfg.Sources[0].URL != "http://localhost/list.m3u" {
		t.Errorf("Unexpected sources: %+v", cfg.Sources)
	}
	if cfg.Verify.Timeout != 2*time.Second {
		t.Errorf("Expected verify timeout 2s, got %v", cfg.Verify.Timeout)
	}
	if cfg.Verify.Workers != 8 {
		t.Errorf("Expected 8 workers, got %d", cfg.Verify.Workers)
	}
	// Unset fields keep their defaults
	if cfg.Fetch.Timeout != 30*time.Second {
		t.Errorf("Expected default fetch timeout, got %v", cfg.Fetch.Timeout)
	}
	if cfg.Output.BaseName != "LiveTV" {
		t.Errorf("Expected default base name, got %s", cfg.Output.BaseName)
	}
}

func TestLoadFromFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("sources: [unterminated"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := LoadFromFile(path); err == nil {
		t.Error("Expected parse error, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Chdir(t.TempDir())

	t.Setenv("SOURCES", "a=http://a/list.m3u, http://b/list.m3u")
	t.Setenv("VERIFY_TIMEOUT", "3s")
	t.Setenv("VERIFY_WORKERS", "10")
	t.Setenv("OUTPUT_DIR", "/srv/livetv")
	t.Setenv("RUN_INTERVAL", "6h")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Sources) != 2 {
		t.Fatalf("Expected 2 sources, got %d", len(cfg.Sources))
	}
	if cfg.Sources[0].Name != "a" || cfg.Sources[0].URL != "http://a/list.m3u" {
		t.Errorf("Unexpected first source: %+v", cfg.Sources[0])
	}
	if cfg.Sources[1].Name != "source-2" {
		t.Errorf("Expected generated name source-2, got %q", cfg.Sources[1].Name)
	}
	if cfg.Verify.Timeout != 3*time.Second {
		t.Errorf("Expected verify timeout 3s, got %v", cfg.Verify.Timeout)
	}
	if cfg.Verify.Workers != 10 {
		t.Errorf("Expected 10 workers, got %d", cfg.Verify.Workers)
	}
	if cfg.Output.Dir != "/srv/livetv" {
		t.Errorf("Expected output dir override, got %s", cfg.Output.Dir)
	}
	if cfg.Schedule.Interval != 6*time.Hour {
		t.Errorf("Expected 6h interval, got %v", cfg.Schedule.Interval)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("Expected debug level, got %v", cfg.SlogLevel())
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad verify timeout", key: "VERIFY_TIMEOUT", value: "soon"},
		{name: "negative verify timeout", key: "VERIFY_TIMEOUT", value: "-1s"},
		{name: "bad worker count", key: "VERIFY_WORKERS", value: "many"},
		{name: "zero worker count", key: "VERIFY_WORKERS", value: "0"},
		{name: "bad run interval", key: "RUN_INTERVAL", value: "daily"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONFIG_FILE", "")
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.value)

			if _, err := Load(""); err == nil {
				t.Errorf("Expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing explicit config file")
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"INFO", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.in}
			if got := cfg.SlogLevel(); got != tt.want {
				t.Errorf("SlogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
