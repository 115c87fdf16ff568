package protocol

import (
	"fmt"
	"strings"
)

// Status is the three-digit code that opens every response.
type Status int

const (
	StatusOK             Status = 200 // sign-in, help, bye
	StatusCatalogMode    Status = 210
	StatusEnrollmentMode Status = 220
	StatusMyCoursesMode  Status = 230
	StatusSuccess        Status = 250 // success with payload
	StatusNoContent      Status = 304 // nothing to list, unknown course on SHOW
	StatusBadRequest     Status = 400 // malformed, unknown or wrong-mode command
	StatusForbidden      Status = 403 // sign-in required, prerequisites, full course
	StatusNotFound       Status = 404 // unknown course code
	StatusInternalError  Status = 500
	StatusNoMode         Status = 503 // no mode selected yet, server busy
)

// Rejected reports whether s tells the client its request was refused.
// Internal errors are not counted as rejections.
func (s Status) Rejected() bool {
	return s >= 400 && s != StatusInternalError
}

// Response is one protocol reply.  Close asks the connection loop to
// hang up after writing it.
type Response struct {
	Status Status
	Text   string
	Lines  []string
	Close  bool
}

// Respond builds a single-line response.
func Respond(status Status, format string, args ...interface{}) Response {
	return Response{Status: status, Text: fmt.Sprintf(format, args...)}
}

// WithLines returns r with payload lines attached.
func (r Response) WithLines(lines []string) Response {
	r.Lines = lines
	return r
}

// Format renders r for the wire, every line LF-terminated.
func (r Response) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s\n", r.Status, r.Text)
	for _, l := range r.Lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}
