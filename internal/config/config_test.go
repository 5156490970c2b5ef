package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Search.DefaultLimit != 100 || cfg.Search.MaxLimit != 1000 {
		t.Errorf("expected default limits 100/1000, got %d/%d", cfg.Search.DefaultLimit, cfg.Search.MaxLimit)
	}
	if cfg.Search.PreviewSize != 6 || cfg.Search.TagPreviewSize != 9 {
		t.Errorf("expected preview sizes 6/9, got %d/%d", cfg.Search.PreviewSize, cfg.Search.TagPreviewSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "binventory.yaml")
	data := `
server:
  addr: ":9000"
  read_timeout: 5s
database:
  path: /var/lib/binventory/inv.db
search:
  max_limit: 500
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	t.Setenv("BINVENTORY_ADDR", ":9100")
	t.Setenv("BINVENTORY_PREVIEW_SIZE", "3")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9100" {
		t.Errorf("expected env to override addr, got %q", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("expected read timeout 5s, got %s", cfg.Server.ReadTimeout)
	}
	if cfg.Database.Path != "/var/lib/binventory/inv.db" {
		t.Errorf("expected db path from file, got %q", cfg.Database.Path)
	}
	if cfg.Search.MaxLimit != 500 || cfg.Search.DefaultLimit != 100 {
		t.Errorf("expected limits 100/500, got %d/%d", cfg.Search.DefaultLimit, cfg.Search.MaxLimit)
	}
	if cfg.Search.PreviewSize != 3 {
		t.Errorf("expected preview size 3, got %d", cfg.Search.PreviewSize)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Encoding != "console" {
		t.Errorf("expected debug/console, got %s/%s", cfg.Log.Level, cfg.Log.Encoding)
	}
}

func TestLoadInvalidEnvInt(t *testing.T) {
	t.Setenv("BINVENTORY_MAX_LIMIT", "lots")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for non-numeric limit")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"bad level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"bad encoding", func(c *Config) { c.Log.Encoding = "xml" }, "log.encoding"},
		{"empty db", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"zero limit", func(c *Config) { c.Search.DefaultLimit = 0 }, "search.default_limit"},
		{"default above max", func(c *Config) { c.Search.DefaultLimit = 2000 }, "must not exceed"},
		{"bad quality", func(c *Config) { c.Images.JPEGQuality = 101 }, "jpeg_quality"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestPage(t *testing.T) {
	s := Default().Search
	tests := []struct {
		skip, limit         int
		wantSkip, wantLimit int
	}{
		{0, 0, 0, 100},
		{-3, -1, 0, 100},
		{20, 10, 20, 10},
		{0, 5000, 0, 1000},
	}
	for _, tt := range tests {
		skip, limit := s.Page(tt.skip, tt.limit)
		if skip != tt.wantSkip || limit != tt.wantLimit {
			t.Errorf("Page(%d, %d): expected (%d, %d), got (%d, %d)",
				tt.skip, tt.limit, tt.wantSkip, tt.wantLimit, skip, limit)
		}
	}
}
