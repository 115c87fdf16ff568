// Package capability defines what happens over an accepted connection.
// The supervisor in core knows nothing about the course protocol; it
// hands each Session to a Capability, which keeps the accept loop
// testable with trivial handlers.
package capability

import (
	"context"

	"courseserv/internal/session"
)

// Capability serves a single connection.  The course protocol engine
// is the production implementation.
type Capability interface {
	// Handle runs the capability against the given session.
	// It blocks until the connection is done or the context is
	// cancelled.
	Handle(ctx context.Context, sess *session.Session) error
}

// Func adapts an ordinary function to the Capability interface.
type Func func(ctx context.Context, sess *session.Session) error

// Handle calls f(ctx, sess).
func (f Func) Handle(ctx context.Context, sess *session.Session) error {
	return f(ctx, sess)
}
