package config

// loader.go - configuration layers below the CLI.
//
// Precedence order (highest wins):
//   1. CLI flags  (handled by cmd/root.go)
//   2. Environment variables, including a .env file  (this file)
//   3. YAML config file  (this file)
//   4. Defaults   (defaults.go)

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	cserr "courseserv/internal/errors"
)

// ── YAML file ────────────────────────────────────────────────────────

// LoadFile overlays the YAML document at path onto cfg.  Keys absent
// from the file keep their current value; unknown keys are an error so
// typos do not go unnoticed.  Durations use Go syntax ("30s", "2m").
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	cfg.ConfigFile = path
	return nil
}

// ── Environment variable mapping ─────────────────────────────────────
//
// Every supported env var uses the COURSESERV_ prefix.  Durations are
// whole seconds or Go duration strings.  Boolean values accept "1",
// "true", "yes" (case-insensitive).

// LoadDotEnv reads KEY=VALUE pairs from the given files (".env" when
// none are named) into the process environment without overriding
// variables that are already set.  Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !cserr.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ConfigFileFromEnv returns the config file named by COURSESERV_CONFIG.
func ConfigFileFromEnv() string {
	return os.Getenv(EnvPrefix + "CONFIG")
}

// LoadFromEnv overlays environment variables onto cfg.  Only non-empty
// env vars override the existing value.  This should be called BEFORE
// applying CLI flags so that flags take precedence.
func LoadFromEnv(cfg *Config) error {
	if v, ok := lookup("HOST"); ok {
		cfg.Host = v
	}
	if v, ok := lookup("PORT"); ok {
		n, err := envInt("PORT", v)
		if err != nil {
			return err
		}
		cfg.Port = n
	}
	if v, ok := lookup("CATALOG"); ok {
		cfg.CatalogPath = v
	}
	if v, ok := lookup("MAX_CONNS"); ok {
		n, err := envInt("MAX_CONNS", v)
		if err != nil {
			return err
		}
		cfg.MaxConns = n
	}
	if v, ok := lookup("IDLE_TIMEOUT"); ok {
		d, err := envDuration("IDLE_TIMEOUT", v)
		if err != nil {
			return err
		}
		cfg.IdleTimeout = d
	}
	if v, ok := lookup("GRACE_PERIOD"); ok {
		d, err := envDuration("GRACE_PERIOD", v)
		if err != nil {
			return err
		}
		cfg.GracePeriod = d
	}

	// Output
	if v, ok := lookup("VERBOSE"); ok {
		if envBool(v) {
			cfg.Verbose = 1
		} else if n, err := strconv.Atoi(v); err == nil {
			cfg.Verbose = n
		}
	}
	if v, ok := lookup("LOG_FORMAT"); ok {
		cfg.LogFormat = strings.ToLower(v)
	}
	return nil
}

// ── helpers ──────────────────────────────────────────────────────────

func lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(EnvPrefix + key))
	return v, v != ""
}

func envInt(key, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &cserr.ConfigError{
			Field:   strings.ToLower(strings.ReplaceAll(key, "_", "-")),
			Value:   v,
			Message: "expected an integer in " + EnvPrefix + key,
		}
	}
	return n, nil
}

func envDuration(key, v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return secondsDuration(n), nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, &cserr.ConfigError{
			Field:   strings.ToLower(strings.ReplaceAll(key, "_", "-")),
			Value:   v,
			Message: "expected seconds or a duration such as 30s in " + EnvPrefix + key,
		}
	}
	return d, nil
}

func envBool(v string) bool {
	v = strings.ToLower(v)
	return v == "true" || v == "yes"
}

func secondsDuration(sec int) time.Duration {
	return time.Duration(sec) * time.Second
}
