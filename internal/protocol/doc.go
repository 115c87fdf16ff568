// Package protocol implements the line-oriented course enrollment
// protocol: command parsing, status-coded responses, and the Engine
// that dispatches commands against a session and the shared catalog.
//
// Every request is one line.  Every response starts with a three-digit
// status code and free text on its first line, optionally followed by
// payload lines; all lines are LF-terminated.
//
//	C: IAM Alice
//	S: 200 Welcome Alice@127.0.0.1
//	C: CATALOG
//	S: 210 Switched to CATALOG mode
//	C: SEARCH subject CS447
//	S: 250 1 course(s) found
//	S: CS447 Networks
package protocol
