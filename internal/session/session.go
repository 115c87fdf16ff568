// Package session represents a single connection lifecycle: the network
// connection, its logger, and the per-client protocol state (mode,
// display name, enrollment history).
//
// A Session is owned by exactly one goroutine, the one serving its
// connection, and is therefore not synchronised.
package session

import (
	"net"

	"github.com/google/uuid"

	"courseserv/util"
)

// Session encapsulates the runtime context for a single connection.
type Session struct {
	ID     string
	Conn   net.Conn
	Logger *util.Logger

	mode    Mode
	name    string
	history []string
}

// New creates an unauthenticated Session bound to conn.  The logger is
// tagged with the session id and remote address.  conn may be nil in
// tests that drive the protocol engine directly.
func New(conn net.Conn, logger *util.Logger) *Session {
	id := uuid.NewString()
	s := &Session{
		ID:   id,
		Conn: conn,
		mode: ModeUnauthenticated,
	}
	s.Logger = logger.With("session", id).With("remote", s.RemoteAddr())
	return s
}

// RemoteAddr returns the peer address as a string.
func (s *Session) RemoteAddr() string {
	if s.Conn == nil || s.Conn.RemoteAddr() == nil {
		return "unknown"
	}
	return s.Conn.RemoteAddr().String()
}

// RemoteHost returns the peer host without the port.
func (s *Session) RemoteHost() string {
	if s.Conn == nil {
		return "unknown"
	}
	return util.RemoteHost(s.Conn.RemoteAddr())
}

// ── State machine ────────────────────────────────────────────────────

// Mode returns the current mode.
func (s *Session) Mode() Mode { return s.mode }

// Authenticated reports whether IAM has been accepted.
func (s *Session) Authenticated() bool {
	return s.mode != ModeUnauthenticated && s.mode != ModeClosed
}

// SignIn records the display name and moves to ModeNone.  It is a no-op
// once the session is authenticated.
func (s *Session) SignIn(name string) {
	if s.mode != ModeUnauthenticated {
		return
	}
	s.name = name
	s.mode = ModeNone
}

// DisplayName returns the name given at sign-in.
func (s *Session) DisplayName() string { return s.name }

// SwitchMode enters one of the selectable modes.  It reports false and
// leaves the mode alone when the session is unauthenticated or closed,
// or when m is not selectable.
func (s *Session) SwitchMode(m Mode) bool {
	if !s.Authenticated() || !m.Selectable() {
		return false
	}
	s.mode = m
	return true
}

// Close moves the session to its terminal state.
func (s *Session) Close() { s.mode = ModeClosed }

// ── Enrollment history ───────────────────────────────────────────────

// History returns a copy of the enrolled course codes in enrollment
// order.
func (s *Session) History() []string {
	return append([]string(nil), s.history...)
}

// HasEnrolled reports whether code is in the history.
func (s *Session) HasEnrolled(code string) bool {
	for _, c := range s.history {
		if c == code {
			return true
		}
	}
	return false
}

// AddEnrollment appends code to the history.
func (s *Session) AddEnrollment(code string) {
	s.history = append(s.history, code)
}

// RemoveEnrollment deletes the first occurrence of code, keeping the
// order of the remaining entries.  It reports whether code was present.
func (s *Session) RemoveEnrollment(code string) bool {
	for i, c := range s.history {
		if c == code {
			s.history = append(s.history[:i], s.history[i+1:]...)
			return true
		}
	}
	return false
}
