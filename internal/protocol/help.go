package protocol

import "courseserv/internal/session"

const (
	helpModes = "Modes (switch any time): CATALOG, ENROLLMENT, MYCOURSES"
	helpBye   = "BYE - close the connection"
)

// helpLines returns the guidance shown by HELP in mode m.
func helpLines(m session.Mode) []string {
	switch m {
	case session.ModeUnauthenticated:
		return []string{
			"IAM <name> - sign in",
			helpBye,
		}
	case session.ModeCatalog:
		return []string{
			usageSearch + " - find courses whose field contains term",
			usageList + " - list courses, all of them by default",
			usageShow + " - course details or seat availability",
			helpModes,
			helpBye,
		}
	case session.ModeEnrollment:
		return []string{
			usageEnroll + " - enroll when prerequisites are met and a seat is free",
			usageDrop + " - drop an enrolled course",
			helpModes,
			helpBye,
		}
	case session.ModeMyCourses:
		return []string{
			"LIST - show your enrolled courses",
			"VIEWGRADES - show your grades",
			helpModes,
			helpBye,
		}
	default:
		return []string{
			"Select a mode to begin.",
			helpModes,
			helpBye,
		}
	}
}
