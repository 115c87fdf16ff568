package protocol

import (
	"bufio"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"courseserv/internal/catalog"
	cserr "courseserv/internal/errors"
	"courseserv/internal/metrics"
	"courseserv/internal/session"
)

// DefaultMaxLineLength bounds a single request line.  Longer lines are
// a transport error and close the connection.
const DefaultMaxLineLength = 4096

// Engine interprets protocol lines for one session at a time against a
// shared catalog.  One Engine serves every connection; all per-client
// state lives in the Session.
type Engine struct {
	Catalog *catalog.Store
	Metrics *metrics.Collector

	// IdleTimeout closes a connection that sends nothing for this long.
	// Zero waits forever.
	IdleTimeout time.Duration

	// MaxLineLength defaults to DefaultMaxLineLength when zero.
	MaxLineLength int
}

// NewEngine returns an Engine over store.  m may be nil.
func NewEngine(store *catalog.Store, m *metrics.Collector) *Engine {
	return &Engine{Catalog: store, Metrics: m}
}

// ── Connection loop ──────────────────────────────────────────────────

// Handle reads lines from the session's connection and writes one
// response per line until BYE, client EOF, a transport error, or ctx is
// cancelled.  Protocol and domain errors never end the loop.
func (e *Engine) Handle(ctx context.Context, sess *session.Session) error {
	conn := sess.Conn
	defer sess.Close()

	// Unblock the pending read when the server shuts down.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	maxLine := e.MaxLineLength
	if maxLine <= 0 {
		maxLine = DefaultMaxLineLength
	}
	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 0, min(512, maxLine)), maxLine)
	w := bufio.NewWriter(conn)

	for {
		if e.IdleTimeout > 0 {
			conn.SetReadDeadline(time.Now().Add(e.IdleTimeout)) //nolint:errcheck
		}
		if !sc.Scan() {
			break
		}
		line := strings.TrimRight(sc.Text(), "\r\n")
		e.Metrics.BytesReceived(int64(len(sc.Bytes()) + 1))

		resp := e.Execute(sess, line)

		out := resp.Format()
		if _, err := w.WriteString(out); err != nil {
			return cserr.Wrap("write", sess.RemoteAddr(), err)
		}
		if err := w.Flush(); err != nil {
			return cserr.Wrap("write", sess.RemoteAddr(), err)
		}
		e.Metrics.BytesSent(int64(len(out)))

		if resp.Close {
			sess.Logger.Verbose("client said BYE")
			return nil
		}
	}

	err := sc.Err()
	switch {
	case err == nil:
		sess.Logger.Verbose("client closed the connection")
		return nil
	case ctx.Err() != nil:
		return nil
	case cserr.IsTimeout(err):
		sess.Logger.Info("idle for %s, closing", e.IdleTimeout)
		return nil
	default:
		return cserr.Wrap("read", sess.RemoteAddr(), err)
	}
}

// ── Dispatch ─────────────────────────────────────────────────────────

// Execute runs one request line and returns its response.  A panic
// while dispatching is recovered into a 500 so the connection survives.
func (e *Engine) Execute(sess *session.Session, line string) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			sess.Logger.Error("internal error handling %q: %v", line, r)
			e.Metrics.RecordError(fmt.Sprint(r))
			resp = Respond(StatusInternalError, "Internal server error")
		}
		e.Metrics.CommandHandled(resp.Status.Rejected())
		sess.Logger.Debug("%q -> %d", line, resp.Status)
	}()
	return e.dispatch(sess, line)
}

func (e *Engine) dispatch(sess *session.Session, line string) Response {
	cmd, err := Parse(line)

	if !sess.Authenticated() {
		switch cmd.Type {
		case CmdIAM, CmdHelp, CmdBye:
		default:
			return Respond(StatusForbidden, "Sign in required: %s", usageIAM)
		}
	}
	if err != nil {
		return Respond(StatusBadRequest, "%s", capitalize(err.Error()))
	}

	switch cmd.Type {
	case CmdIAM:
		return e.signIn(sess, cmd)
	case CmdHelp:
		return Respond(StatusOK, "Help for %s mode", sess.Mode()).WithLines(helpLines(sess.Mode()))
	case CmdBye:
		resp := Respond(StatusOK, "Goodbye")
		resp.Close = true
		return resp
	case CmdCatalog:
		return switchMode(sess, session.ModeCatalog, StatusCatalogMode)
	case CmdEnrollment:
		return switchMode(sess, session.ModeEnrollment, StatusEnrollmentMode)
	case CmdMyCourses:
		return switchMode(sess, session.ModeMyCourses, StatusMyCoursesMode)
	case CmdSearch:
		if resp, ok := requireMode(sess, cmd, session.ModeCatalog); !ok {
			return resp
		}
		return e.search(cmd)
	case CmdList:
		if resp, ok := requireMode(sess, cmd, session.ModeCatalog, session.ModeMyCourses); !ok {
			return resp
		}
		if sess.Mode() == session.ModeMyCourses {
			return e.listEnrolled(sess)
		}
		return e.search(cmd)
	case CmdShow:
		if resp, ok := requireMode(sess, cmd, session.ModeCatalog); !ok {
			return resp
		}
		return e.show(cmd)
	case CmdEnroll:
		if resp, ok := requireMode(sess, cmd, session.ModeEnrollment); !ok {
			return resp
		}
		return e.enroll(sess, cmd.Code)
	case CmdDrop:
		if resp, ok := requireMode(sess, cmd, session.ModeEnrollment); !ok {
			return resp
		}
		return e.drop(sess, cmd.Code)
	case CmdViewGrades:
		if resp, ok := requireMode(sess, cmd, session.ModeMyCourses); !ok {
			return resp
		}
		return Respond(StatusNoContent, "No grades available")
	default:
		return Respond(StatusBadRequest, "Unknown command")
	}
}

func requireMode(sess *session.Session, cmd Command, allowed ...session.Mode) (Response, bool) {
	if slices.Contains(allowed, sess.Mode()) {
		return Response{}, true
	}
	if sess.Mode() == session.ModeNone {
		return Respond(StatusNoMode, "No mode selected, choose CATALOG, ENROLLMENT or MYCOURSES"), false
	}
	return Respond(StatusBadRequest, "%s is not available in %s mode", cmd.Type, sess.Mode()), false
}

// ── Handlers ─────────────────────────────────────────────────────────

func (e *Engine) signIn(sess *session.Session, cmd Command) Response {
	if sess.Authenticated() {
		return Respond(StatusBadRequest, "Already signed in as %s", sess.DisplayName())
	}
	sess.SignIn(cmd.Name)
	sess.Logger.Info("signed in as %q", cmd.Name)
	return Respond(StatusOK, "Welcome %s@%s", cmd.Name, sess.RemoteHost())
}

func switchMode(sess *session.Session, m session.Mode, status Status) Response {
	sess.SwitchMode(m)
	return Respond(status, "Switched to %s mode", m)
}

func (e *Engine) search(cmd Command) Response {
	found := e.Catalog.Search(cmd.Filter, cmd.Term)
	if len(found) == 0 {
		return Respond(StatusNoContent, "No courses found")
	}
	lines := make([]string, len(found))
	for i, c := range found {
		lines[i] = c.Code + " " + c.Title
	}
	return Respond(StatusSuccess, "%d course(s) found", len(found)).WithLines(lines)
}

func (e *Engine) listEnrolled(sess *session.Session) Response {
	history := sess.History()
	if len(history) == 0 {
		return Respond(StatusNoContent, "No enrolled courses")
	}
	lines := make([]string, len(history))
	for i, code := range history {
		lines[i] = code
		if c, ok := e.Catalog.Get(code); ok {
			lines[i] += " " + c.Title
		}
	}
	return Respond(StatusSuccess, "%d enrolled course(s)", len(history)).WithLines(lines)
}

func (e *Engine) show(cmd Command) Response {
	c, ok := e.Catalog.Get(cmd.Code)
	if !ok {
		return Respond(StatusNoContent, "Course %s not found", cmd.Code)
	}
	if cmd.Availability {
		status := "Open"
		if !c.Open() {
			status = "Close"
		}
		return Respond(StatusSuccess, "Availability %s, Seats: %d", status, c.SeatsAvailable)
	}

	prereqs := strings.Join(c.Prerequisites, ",")
	if prereqs == "" {
		prereqs = "None"
	}
	return Respond(StatusSuccess, "Course details").WithLines([]string{
		"Code: " + c.Code,
		"Title: " + c.Title,
		"Subject: " + c.Subject,
		"Instructor: " + c.Instructor,
		fmt.Sprintf("Capacity: %d", c.Capacity),
		fmt.Sprintf("Seats: %d", c.SeatsAvailable),
		"Prerequisites: " + prereqs,
		"Description: " + c.Description,
	})
}

// enroll checks the course exists, is not already held, and has every
// prerequisite in the session history before taking a seat.  The
// history is only extended once the seat is secured.
func (e *Engine) enroll(sess *session.Session, code string) Response {
	c, ok := e.Catalog.Get(code)
	if !ok {
		return Respond(StatusNotFound, "Course %s not found", code)
	}
	if sess.HasEnrolled(code) {
		return Respond(StatusForbidden, "Already enrolled in %s", code)
	}
	if missing := catalog.MissingPrerequisites(sess.History(), c); len(missing) > 0 {
		return Respond(StatusForbidden, "Prerequisites not met: %s", strings.Join(missing, ","))
	}

	switch err := e.Catalog.Enroll(code); {
	case err == nil:
	case cserr.Is(err, cserr.ErrCourseFull):
		return Respond(StatusForbidden, "Course %s is full", code)
	case cserr.Is(err, cserr.ErrCourseNotFound):
		return Respond(StatusNotFound, "Course %s not found", code)
	default:
		panic(err)
	}

	sess.AddEnrollment(code)
	e.Metrics.Enrolled()
	sess.Logger.Verbose("enrolled in %s", code)
	return Respond(StatusSuccess, "Enrolled in %s", code)
}

func (e *Engine) drop(sess *session.Session, code string) Response {
	if !sess.RemoveEnrollment(code) {
		return Respond(StatusNotFound, "Not enrolled in %s", code)
	}
	if err := e.Catalog.Drop(code); err != nil {
		// the session held a seat, so the catalog should have room for it
		sess.Logger.Warn("seat accounting for %s: %v", code, err)
	}
	e.Metrics.Dropped()
	sess.Logger.Verbose("dropped %s", code)
	return Respond(StatusSuccess, "Dropped %s", code)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
