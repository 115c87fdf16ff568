package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	cserr "courseserv/internal/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// ── YAML ─────────────────────────────────────────────────────────────

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "courseserv.yaml", `
host: 127.0.0.1
port: 4000
catalog: /srv/courses.db
max_conns: 64
idle_timeout: 2m
log_format: json
`)
	cfg := Default()
	if err := LoadFile(cfg, path); err != nil {
		t.Fatal(err)
	}

	if cfg.Host != "127.0.0.1" || cfg.Port != 4000 {
		t.Errorf("address = %s", cfg.Address())
	}
	if cfg.CatalogPath != "/srv/courses.db" || cfg.MaxConns != 64 {
		t.Errorf("catalog=%q max=%d", cfg.CatalogPath, cfg.MaxConns)
	}
	if cfg.IdleTimeout != 2*time.Minute {
		t.Errorf("idle = %s", cfg.IdleTimeout)
	}
	if cfg.LogFormat != "json" || cfg.ConfigFile != path {
		t.Errorf("format=%q file=%q", cfg.LogFormat, cfg.ConfigFile)
	}
	// untouched keys keep their defaults
	if cfg.GracePeriod != DefaultGracePeriod {
		t.Errorf("grace = %s", cfg.GracePeriod)
	}
}

func TestLoadFile_Empty(t *testing.T) {
	cfg := Default()
	if err := LoadFile(cfg, writeFile(t, "empty.yaml", "")); err != nil {
		t.Fatalf("empty file: %v", err)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("port = %d", cfg.Port)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "prot: 80\n"},
		{"bad type", "port: eighty\n"},
		{"bad duration", "idle_timeout: soon\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := LoadFile(Default(), writeFile(t, "bad.yaml", tt.content)); err == nil {
				t.Error("expected parse error")
			}
		})
	}

	err := LoadFile(Default(), filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}
}

// ── Environment ──────────────────────────────────────────────────────

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("COURSESERV_HOST", "0.0.0.0")
	t.Setenv("COURSESERV_PORT", "8080")
	t.Setenv("COURSESERV_CATALOG", "spring.db")
	t.Setenv("COURSESERV_MAX_CONNS", "5")
	t.Setenv("COURSESERV_IDLE_TIMEOUT", "30")
	t.Setenv("COURSESERV_GRACE_PERIOD", "1500ms")
	t.Setenv("COURSESERV_LOG_FORMAT", "JSON")

	cfg := Default()
	if err := LoadFromEnv(cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Address() != "0.0.0.0:8080" {
		t.Errorf("address = %s", cfg.Address())
	}
	if cfg.CatalogPath != "spring.db" || cfg.MaxConns != 5 {
		t.Errorf("catalog=%q max=%d", cfg.CatalogPath, cfg.MaxConns)
	}
	if cfg.IdleTimeout != 30*time.Second {
		t.Errorf("idle = %s", cfg.IdleTimeout)
	}
	if cfg.GracePeriod != 1500*time.Millisecond {
		t.Errorf("grace = %s", cfg.GracePeriod)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("format = %q", cfg.LogFormat)
	}
}

func TestLoadFromEnv_Unset(t *testing.T) {
	cfg := Default()
	if err := LoadFromEnv(cfg); err != nil {
		t.Fatal(err)
	}
	if *cfg != *Default() {
		t.Errorf("unset env changed config: %+v", cfg)
	}
}

func TestLoadFromEnv_Verbose(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"2", 2},
		{"true", 1},
		{"YES", 1},
		{"noise", 0},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("COURSESERV_VERBOSE", tt.value)
			cfg := Default()
			if err := LoadFromEnv(cfg); err != nil {
				t.Fatal(err)
			}
			if cfg.Verbose != tt.want {
				t.Errorf("Verbose = %d, want %d", cfg.Verbose, tt.want)
			}
		})
	}
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		key, value, field string
	}{
		{"COURSESERV_PORT", "http", "port"},
		{"COURSESERV_MAX_CONNS", "many", "max-conns"},
		{"COURSESERV_IDLE_TIMEOUT", "later", "idle-timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			err := LoadFromEnv(Default())
			var ce *cserr.ConfigError
			if !errors.As(err, &ce) || ce.Field != tt.field {
				t.Errorf("err = %v, want ConfigError for %s", err, tt.field)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "COURSESERV_PORT=5151\nCOURSESERV_CATALOG=fromfile.db\n")
	// Setenv registers the cleanup; the variable itself must be unset
	// for .env to fill it in.
	t.Setenv("COURSESERV_PORT", "")
	os.Unsetenv("COURSESERV_PORT") //nolint:errcheck
	t.Setenv("COURSESERV_CATALOG", "real.db")

	if err := LoadDotEnv(path); err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	if err := LoadFromEnv(cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 5151 {
		t.Errorf("port = %d, want value from .env", cfg.Port)
	}
	if cfg.CatalogPath != "real.db" {
		t.Errorf("catalog = %q, environment should beat .env", cfg.CatalogPath)
	}
}

func TestLoadDotEnv_Missing(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("missing .env should be ignored: %v", err)
	}
}
