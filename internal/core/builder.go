package core

import (
	"fmt"

	"courseserv/config"
	"courseserv/internal/catalog"
	"courseserv/internal/metrics"
	"courseserv/internal/protocol"
	"courseserv/internal/retry"
	"courseserv/util"
)

// Build validates cfg, loads the catalog and assembles the server.
// Nothing is bound until Run is called, so Build doubles as the
// --dry-run check.
func Build(cfg *config.Config, logger *util.Logger) (Mode, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	courses, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	store := catalog.NewStore(courses)
	logger.Info("loaded %d course(s) from %s", store.Len(), cfg.CatalogPath)

	m := metrics.New()
	engine := protocol.NewEngine(store, m)
	engine.IdleTimeout = cfg.IdleTimeout

	backoff := retry.DefaultAcceptBackoff()
	backoff.Jitter = true

	return &Server{
		Address:     cfg.Address(),
		Capability:  engine,
		Logger:      logger,
		Metrics:     m,
		MaxConns:    cfg.MaxConns,
		GracePeriod: cfg.GracePeriod,
		Backoff:     backoff,
	}, nil
}
