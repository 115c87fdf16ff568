package session

// Mode is the connection's position in the protocol state machine.
//
//	Unauthenticated ──IAM──▶ None ──CATALOG/ENROLLMENT/MYCOURSES──▶ Catalog | Enrollment | MyCourses
//
// Any state moves to Closed on BYE or transport failure.
type Mode int

const (
	ModeUnauthenticated Mode = iota
	ModeNone
	ModeCatalog
	ModeEnrollment
	ModeMyCourses
	ModeClosed
)

func (m Mode) String() string {
	switch m {
	case ModeUnauthenticated:
		return "UNAUTHENTICATED"
	case ModeNone:
		return "NONE"
	case ModeCatalog:
		return "CATALOG"
	case ModeEnrollment:
		return "ENROLLMENT"
	case ModeMyCourses:
		return "MYCOURSES"
	case ModeClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// Selectable reports whether m is one of the modes a client can switch
// into.
func (m Mode) Selectable() bool {
	return m == ModeCatalog || m == ModeEnrollment || m == ModeMyCourses
}
