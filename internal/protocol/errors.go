package protocol

import "fmt"

// ParseErrorKind classifies why a line could not be parsed.
type ParseErrorKind int

const (
	ErrKindEmpty ParseErrorKind = iota
	ErrKindInvalidCommand
	ErrKindMissingArgument
	ErrKindTooManyArguments
	ErrKindInvalidFilter
	ErrKindInvalidArgument
)

// ParseError describes a malformed request line.  The engine answers
// every ParseError with 400.
type ParseError struct {
	Kind  ParseErrorKind
	Verb  string // upper-cased verb, empty for ErrKindEmpty
	Value string // offending token
	Usage string // expected syntax
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case ErrKindEmpty:
		return "empty command"
	case ErrKindInvalidCommand:
		return fmt.Sprintf("unknown command '%s'", e.Value)
	case ErrKindMissingArgument:
		return fmt.Sprintf("missing argument, usage: %s", e.Usage)
	case ErrKindTooManyArguments:
		return fmt.Sprintf("too many arguments, usage: %s", e.Usage)
	case ErrKindInvalidFilter:
		return fmt.Sprintf("invalid filter '%s', use subject, instructor, course-code or ALL", e.Value)
	case ErrKindInvalidArgument:
		return fmt.Sprintf("invalid argument '%s', usage: %s", e.Value, e.Usage)
	default:
		return fmt.Sprintf("parse error: %s", e.Value)
	}
}
