// Package cmd wires up the CLI flags and starts the course server.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"courseserv/config"
	"courseserv/internal/core"
	"courseserv/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X courseserv/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Execute parses args, assembles the configuration and runs the server
// until ctx is cancelled.
func Execute(ctx context.Context, args []string) error {
	return execute(ctx, args, os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg := config.Default()
	fs := flag.NewFlagSet("courseserv", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// ── listener ─────────────────────────────────────────────────
	fs.StringVarP(&cfg.Host, "host", "H", cfg.Host, "Address to bind (all interfaces if empty)")
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "Port to listen on")
	fs.IntVar(&cfg.MaxConns, "max-conns", cfg.MaxConns, "Maximum concurrent sessions (0 = unlimited)")

	var idleSec, graceSec int
	fs.IntVar(&idleSec, "idle-timeout", 0, "Close sessions idle for this many seconds (0 = never)")
	fs.IntVar(&graceSec, "grace-period", int(cfg.GracePeriod/time.Second), "Seconds to wait for sessions on shutdown")

	// ── catalog ──────────────────────────────────────────────────
	fs.StringVarP(&cfg.CatalogPath, "file", "f", cfg.CatalogPath, "Course catalog file")

	// ── configuration ────────────────────────────────────────────
	fs.StringVar(&cfg.ConfigFile, "config", "", "YAML config file")
	var envFile string
	fs.StringVar(&envFile, "env-file", ".env", "Environment file loaded before "+config.EnvPrefix+"* variables")

	// ── output ───────────────────────────────────────────────────
	fs.CountVarP(&cfg.Verbose, "verbose", "v", "Increase verbosity (repeatable)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: auto, pretty or json")

	var showVersion, showHelp, dryRun bool
	fs.BoolVar(&dryRun, "dry-run", false, "Validate configuration and the catalog, then exit")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(fs, stderr) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp {
		printUsage(fs, stderr)
		return nil
	}
	if showVersion {
		fmt.Fprintf(stdout, "courseserv %s\n", version)
		return nil
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument %q (use --help for usage)", fs.Arg(0))
	}

	// ── layer file and environment below the flags ───────────────
	if err := layer(cfg, fs, envFile); err != nil {
		return err
	}
	if fs.Changed("idle-timeout") {
		cfg.IdleTimeout = time.Duration(idleSec) * time.Second
	}
	if fs.Changed("grace-period") {
		cfg.GracePeriod = time.Duration(graceSec) * time.Second
	}

	// ── build components ─────────────────────────────────────────
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := util.NewLoggerFormat(cfg.Verbose, cfg.LogFormat, stderr)
	if cfg.ConfigFile != "" {
		logger.Verbose("configuration read from %s", cfg.ConfigFile)
	}

	mode, err := core.Build(cfg, logger)
	if err != nil {
		return err
	}
	if dryRun {
		fmt.Fprintf(stdout, "%s\n", mode)
		return nil
	}
	return mode.Run(ctx)
}

// ── helpers ──────────────────────────────────────────────────────────

// layer rebuilds cfg as defaults < YAML file < environment < flags.
// Flags were parsed straight into cfg, so the ones the user set are
// replayed on top once the lower layers are applied.
func layer(cfg *config.Config, fs *flag.FlagSet, envFile string) error {
	flags := *cfg

	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	*cfg = *config.Default()
	path := flags.ConfigFile
	if path == "" {
		path = config.ConfigFileFromEnv()
	}
	if path != "" {
		if err := config.LoadFile(cfg, path); err != nil {
			return err
		}
	}
	if err := config.LoadFromEnv(cfg); err != nil {
		return err
	}

	replay := map[string]func(){
		"host":       func() { cfg.Host = flags.Host },
		"port":       func() { cfg.Port = flags.Port },
		"max-conns":  func() { cfg.MaxConns = flags.MaxConns },
		"file":       func() { cfg.CatalogPath = flags.CatalogPath },
		"verbose":    func() { cfg.Verbose = flags.Verbose },
		"log-format": func() { cfg.LogFormat = flags.LogFormat },
	}
	for name, apply := range replay {
		if fs.Changed(name) {
			apply()
		}
	}
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, `courseserv - Course Enrollment Server v%s

A line-oriented TCP server for browsing a course catalog and managing
enrollments.

Usage:
  courseserv [options]

Options:
`, version)
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintf(w, `
Environment:
  %[1]sHOST, %[1]sPORT, %[1]sCATALOG, %[1]sMAX_CONNS,
  %[1]sIDLE_TIMEOUT, %[1]sGRACE_PERIOD, %[1]sVERBOSE,
  %[1]sLOG_FORMAT, %[1]sCONFIG

Examples:
  courseserv                                  Serve courses.db on :3490
  courseserv -p 4000 -f spring.db -v          Custom port and catalog
  courseserv --config /etc/courseserv.yaml    Settings from YAML
  courseserv --dry-run                        Check config and catalog
`, config.EnvPrefix)
}
