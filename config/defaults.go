package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags, config file parsing, and environment variable
// loading.

const (
	// DefaultHost binds every interface.
	DefaultHost = ""

	// DefaultPort is the port clients connect to.
	DefaultPort = 3490

	// DefaultCatalogPath is the course catalog read at startup.
	DefaultCatalogPath = "courses.db"

	// DefaultGracePeriod is how long shutdown waits for open sessions.
	DefaultGracePeriod = 5 * time.Second

	// DefaultLogFormat picks pretty output on a terminal, JSON otherwise.
	DefaultLogFormat = "auto"

	// EnvPrefix prefixes every supported environment variable.
	EnvPrefix = "COURSESERV_"
)
