package protocol

import (
	"strings"

	"courseserv/internal/catalog"
)

// Usage strings quoted back to clients in 400 responses.
const (
	usageIAM    = "IAM <name>"
	usageSearch = "SEARCH <subject|instructor|course-code|ALL> <term>"
	usageList   = "LIST [filter] [term]"
	usageShow   = "SHOW <code> [availability]"
	usageEnroll = "ENROLL <code>"
	usageDrop   = "DROP <code>"
)

// Parse turns one request line into a Command.  The verb is the first
// whitespace-delimited token, matched exactly but case-insensitively.
// When the verb is recognised but its arguments are wrong, the returned
// Command still carries Type alongside the *ParseError.
func Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, &ParseError{Kind: ErrKindEmpty}
	}

	verb := strings.ToUpper(fields[0])
	args := fields[1:]

	t, ok := verbs[verb]
	if !ok {
		return Command{}, &ParseError{Kind: ErrKindInvalidCommand, Verb: verb, Value: fields[0]}
	}

	switch t {
	case CmdIAM:
		name := strings.TrimSpace(line[len(fields[0]):])
		if name == "" {
			return Command{Type: t}, missing(verb, usageIAM)
		}
		return Command{Type: t, Name: name}, nil
	case CmdSearch:
		return parseSearch(verb, args)
	case CmdList:
		return parseList(verb, args)
	case CmdShow:
		return parseShow(verb, args)
	case CmdEnroll:
		return parseCode(t, verb, args, usageEnroll)
	case CmdDrop:
		return parseCode(t, verb, args, usageDrop)
	default:
		// argument-free verbs tolerate trailing tokens
		return Command{Type: t}, nil
	}
}

func parseSearch(verb string, args []string) (Command, error) {
	cmd := Command{Type: CmdSearch}
	switch {
	case len(args) < 2:
		return cmd, missing(verb, usageSearch)
	case len(args) > 2:
		return cmd, tooMany(verb, usageSearch)
	}
	f, ok := catalog.ParseFilter(args[0])
	if !ok {
		return cmd, &ParseError{Kind: ErrKindInvalidFilter, Verb: verb, Value: args[0], Usage: usageSearch}
	}
	cmd.Filter = f
	cmd.Term = args[1]
	return cmd, nil
}

func parseList(verb string, args []string) (Command, error) {
	cmd := Command{Type: CmdList, Filter: catalog.FilterAll}
	if len(args) == 0 {
		return cmd, nil
	}
	if len(args) > 2 {
		return cmd, tooMany(verb, usageList)
	}
	f, ok := catalog.ParseFilter(args[0])
	if !ok {
		return cmd, &ParseError{Kind: ErrKindInvalidFilter, Verb: verb, Value: args[0], Usage: usageList}
	}
	cmd.Filter = f
	if len(args) == 2 {
		cmd.Term = args[1]
	}
	return cmd, nil
}

func parseShow(verb string, args []string) (Command, error) {
	cmd := Command{Type: CmdShow}
	switch {
	case len(args) == 0:
		return cmd, missing(verb, usageShow)
	case len(args) > 2:
		return cmd, tooMany(verb, usageShow)
	}
	cmd.Code = args[0]
	if len(args) == 2 {
		if !strings.EqualFold(args[1], "availability") {
			return cmd, &ParseError{Kind: ErrKindInvalidArgument, Verb: verb, Value: args[1], Usage: usageShow}
		}
		cmd.Availability = true
	}
	return cmd, nil
}

func parseCode(t CommandType, verb string, args []string, usage string) (Command, error) {
	cmd := Command{Type: t}
	switch {
	case len(args) == 0:
		return cmd, missing(verb, usage)
	case len(args) > 1:
		return cmd, tooMany(verb, usage)
	}
	cmd.Code = args[0]
	return cmd, nil
}

func missing(verb, usage string) error {
	return &ParseError{Kind: ErrKindMissingArgument, Verb: verb, Usage: usage}
}

func tooMany(verb, usage string) error {
	return &ParseError{Kind: ErrKindTooManyArguments, Verb: verb, Usage: usage}
}
