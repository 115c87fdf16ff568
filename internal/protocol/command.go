package protocol

import "courseserv/internal/catalog"

// CommandType identifies a protocol verb.
type CommandType int

const (
	CmdUnknown CommandType = iota

	// Connection
	CmdIAM
	CmdHelp
	CmdBye

	// Mode switches
	CmdCatalog
	CmdEnrollment
	CmdMyCourses

	// Mode-scoped
	CmdList
	CmdSearch
	CmdShow
	CmdEnroll
	CmdDrop
	CmdViewGrades
)

// verbs maps the upper-cased first token of a line to its command.
var verbs = map[string]CommandType{
	"IAM":        CmdIAM,
	"HELP":       CmdHelp,
	"BYE":        CmdBye,
	"CATALOG":    CmdCatalog,
	"ENROLLMENT": CmdEnrollment,
	"MYCOURSES":  CmdMyCourses,
	"LIST":       CmdList,
	"SEARCH":     CmdSearch,
	"SHOW":       CmdShow,
	"ENROLL":     CmdEnroll,
	"DROP":       CmdDrop,
	"VIEWGRADES": CmdViewGrades,
}

func (t CommandType) String() string {
	for verb, ct := range verbs {
		if ct == t {
			return verb
		}
	}
	return "UNKNOWN"
}

// Command is a parsed request line.  Only the fields relevant to Type
// are set.
type Command struct {
	Type CommandType

	Name string // IAM

	Filter catalog.Filter // SEARCH, LIST
	Term   string         // SEARCH, LIST

	Code         string // SHOW, ENROLL, DROP
	Availability bool   // SHOW ... availability
}
