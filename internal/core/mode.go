// Package core is the orchestration layer.  It composes the catalog,
// the protocol engine and the connection supervisor into a runnable
// server and provides a builder that assembles it from a Config.
//
// Architecture layers (bottom → top):
//
//	catalog  →  session  →  protocol  →  core  →  cmd (CLI)
package core

import "context"

// Mode is a complete operational mode of courseserv.  It owns its full
// lifecycle from binding the listener to draining the last session.
type Mode interface {
	Run(ctx context.Context) error
}
