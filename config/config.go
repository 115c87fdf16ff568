// Package config defines the runtime configuration for courseserv and
// the layers it is assembled from: defaults, an optional YAML file, the
// environment, and finally CLI flags.
package config

import (
	"fmt"
	"strings"
	"time"

	cserr "courseserv/internal/errors"
	"courseserv/util"
)

// Config holds every tuneable for a courseserv process.
type Config struct {
	// ── Listener ─────────────────────────────────────────────────────
	Host        string        `yaml:"host"`
	Port        int           `yaml:"port"`
	MaxConns    int           `yaml:"max_conns"`    // 0 = unbounded
	IdleTimeout time.Duration `yaml:"idle_timeout"` // 0 = none
	GracePeriod time.Duration `yaml:"grace_period"`

	// ── Catalog ──────────────────────────────────────────────────────
	CatalogPath string `yaml:"catalog"`

	// ── Output ───────────────────────────────────────────────────────
	Verbose   int    `yaml:"verbose"`
	LogFormat string `yaml:"log_format"`

	// ConfigFile is where the YAML layer came from, if anywhere.
	ConfigFile string `yaml:"-"`
}

// Default returns a Config populated from defaults.go.
func Default() *Config {
	return &Config{
		Host:        DefaultHost,
		Port:        DefaultPort,
		GracePeriod: DefaultGracePeriod,
		CatalogPath: DefaultCatalogPath,
		LogFormat:   DefaultLogFormat,
	}
}

// Address returns the listen address in host:port form.
func (c *Config) Address() string {
	return util.FormatAddr(c.Host, c.Port)
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the configuration is internally consistent.
// Failures are *errors.ConfigError.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return &cserr.ConfigError{
			Field:   "port",
			Value:   c.Port,
			Message: "port out of range 1-65535",
			Hint:    fmt.Sprintf("the default is %d", DefaultPort),
		}
	}
	if strings.TrimSpace(c.CatalogPath) == "" {
		return &cserr.ConfigError{
			Field:   "catalog",
			Message: "a catalog file is required",
			Hint:    "pass -f <file> or set " + EnvPrefix + "CATALOG",
		}
	}
	if c.MaxConns < 0 {
		return &cserr.ConfigError{Field: "max-conns", Value: c.MaxConns, Message: "must not be negative", Hint: "use 0 for no limit"}
	}
	if c.IdleTimeout < 0 {
		return &cserr.ConfigError{Field: "idle-timeout", Value: c.IdleTimeout, Message: "must not be negative", Hint: "use 0 to never time out"}
	}
	if c.GracePeriod < 0 {
		return &cserr.ConfigError{Field: "grace-period", Value: c.GracePeriod, Message: "must not be negative"}
	}
	if c.Verbose < 0 || c.Verbose > 3 {
		return &cserr.ConfigError{Field: "verbose", Value: c.Verbose, Message: "verbosity ranges from 0 to 3"}
	}
	switch c.LogFormat {
	case util.FormatAuto, util.FormatPretty, util.FormatJSON:
	default:
		return &cserr.ConfigError{
			Field:   "log-format",
			Value:   c.LogFormat,
			Message: "unknown log format",
			Hint:    "choose auto, pretty or json",
		}
	}
	return nil
}
