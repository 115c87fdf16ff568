package core

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"courseserv/internal/capability"
	cserr "courseserv/internal/errors"
	"courseserv/internal/metrics"
	"courseserv/internal/retry"
	"courseserv/internal/session"
	"courseserv/util"
)

// busyReply is written to connections refused by the MaxConns cap.
const busyReply = "503 Server busy\n"

// Server accepts TCP connections and runs a capability on each one in
// its own goroutine.  Every connection gets a fresh Session; anything
// shared between clients lives behind the capability.
type Server struct {
	Address    string // "host:port"
	Capability capability.Capability
	Logger     *util.Logger
	Metrics    *metrics.Collector

	// MaxConns caps concurrent sessions.  Zero means unlimited.
	MaxConns int

	// GracePeriod is how long shutdown waits for sessions to finish on
	// their own before their connections are closed.
	GracePeriod time.Duration

	// Backoff paces retries of temporary accept errors.  Defaults to
	// retry.DefaultAcceptBackoff.
	Backoff *retry.Backoff

	wg    sync.WaitGroup
	slots chan struct{}
}

// Run binds Address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Address)
	if err != nil {
		return cserr.Wrap("listen", s.Address, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then drains
// the open sessions.  ln is closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer ln.Close()
	if s.Logger == nil {
		s.Logger = util.NopLogger()
	}
	if s.Backoff == nil {
		s.Backoff = retry.DefaultAcceptBackoff()
	}
	if s.MaxConns > 0 {
		s.slots = make(chan struct{}, s.MaxConns)
	}

	s.Logger.Info("listening on %s", ln.Addr())

	// Sessions outlive ctx by up to GracePeriod.
	connCtx, cancelConns := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelConns()

	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	err := s.acceptLoop(ctx, ln, connCtx)
	s.drain(cancelConns)
	return err
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener, connCtx context.Context) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if cserr.IsRetryable(err) {
				s.Metrics.RecordError(err.Error())
				s.Logger.Warn("accept: %v; retrying", err)
				if s.Backoff.Wait(ctx) != nil {
					return nil
				}
				continue
			}
			return cserr.Wrap("accept", ln.Addr().String(), err)
		}
		s.Backoff.Reset()

		if !s.acquire() {
			s.reject(conn)
			continue
		}

		s.wg.Add(1)
		go s.serveConn(connCtx, conn)
	}
}

// drain waits for sessions, closing whatever is still connected once
// the grace period runs out.
func (s *Server) drain(cancelConns context.CancelFunc) {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	if s.Metrics.ActiveConnections() > 0 {
		s.Logger.Info("waiting up to %s for %d session(s)", s.GracePeriod, s.Metrics.ActiveConnections())
	}

	grace := time.NewTimer(s.GracePeriod)
	defer grace.Stop()
	select {
	case <-done:
	case <-grace.C:
		s.Logger.Warn("grace period over, closing remaining sessions")
		cancelConns()
		<-done
	}

	if s.Metrics != nil {
		s.Logger.Info("shutdown complete: %s", s.Metrics.JSON())
	}
}

func (s *Server) acquire() bool {
	if s.slots == nil {
		return true
	}
	select {
	case s.slots <- struct{}{}:
		return true
	default:
		return false
	}
}

func (s *Server) release() {
	if s.slots != nil {
		<-s.slots
	}
}

func (s *Server) reject(conn net.Conn) {
	defer conn.Close()
	s.Metrics.ConnectionRejected()
	s.Logger.Warn("refusing %s: %d sessions already open", conn.RemoteAddr(), s.MaxConns)
	conn.SetWriteDeadline(time.Now().Add(time.Second)) //nolint:errcheck
	conn.Write([]byte(busyReply))                      //nolint:errcheck
}

func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	s.Metrics.ConnectionOpened()
	defer func() {
		conn.Close()
		s.release()
		s.Metrics.ConnectionClosed()
		s.wg.Done()
	}()

	sess := session.New(conn, s.Logger)
	sess.Logger.Verbose("connection accepted")

	if err := s.Capability.Handle(ctx, sess); err != nil {
		s.Metrics.RecordError(err.Error())
		sess.Logger.Error("session ended: %v", err)
		return
	}
	sess.Logger.Verbose("session ended")
}

// String describes the server for logs and --dry-run.
func (s *Server) String() string {
	limit := "unlimited"
	if s.MaxConns > 0 {
		limit = fmt.Sprint(s.MaxConns)
	}
	return fmt.Sprintf("courseserv on %s (max connections: %s, grace: %s)", s.Address, limit, s.GracePeriod)
}
