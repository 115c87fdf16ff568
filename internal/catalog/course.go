// Package catalog holds the shared course table: lookup, search, seat
// accounting and prerequisite checks.  A single [Store] is shared by
// every session and is safe for concurrent use.
package catalog

// Course is one catalog entry.  Prerequisites are course codes, kept in
// file order; duplicates are not removed.
type Course struct {
	Code           string
	Title          string
	Subject        string
	Instructor     string
	Prerequisites  []string
	SeatsAvailable int
	Capacity       int
	Description    string
}

// Open reports whether at least one seat is free.
func (c Course) Open() bool { return c.SeatsAvailable > 0 }

func (c Course) clone() Course {
	if c.Prerequisites != nil {
		c.Prerequisites = append([]string(nil), c.Prerequisites...)
	}
	return c
}

// normalize enforces 0 ≤ SeatsAvailable ≤ Capacity on loaded data.
func (c *Course) normalize() {
	if c.Capacity < 0 {
		c.Capacity = 0
	}
	if c.SeatsAvailable < 0 {
		c.SeatsAvailable = 0
	}
	if c.SeatsAvailable > c.Capacity {
		c.SeatsAvailable = c.Capacity
	}
}

// Filter selects which field Search matches against.
type Filter string

const (
	FilterSubject    Filter = "subject"
	FilterInstructor Filter = "instructor"
	FilterCode       Filter = "course-code"
	FilterAll        Filter = "ALL"
)

// ParseFilter maps a protocol token to a Filter.  Matching is exact.
func ParseFilter(s string) (Filter, bool) {
	switch f := Filter(s); f {
	case FilterSubject, FilterInstructor, FilterCode, FilterAll:
		return f, true
	default:
		return "", false
	}
}

// field returns the value f matches against; ok is false for FilterAll.
func (f Filter) field(c *Course) (value string, ok bool) {
	switch f {
	case FilterSubject:
		return c.Subject, true
	case FilterInstructor:
		return c.Instructor, true
	case FilterCode:
		return c.Code, true
	default:
		return "", false
	}
}

// CheckPrerequisites reports whether every prerequisite of c appears in
// history.
func CheckPrerequisites(history []string, c Course) bool {
	return len(MissingPrerequisites(history, c)) == 0
}

// MissingPrerequisites returns the prerequisites of c absent from
// history, in prerequisite order.
func MissingPrerequisites(history []string, c Course) []string {
	var missing []string
	for _, prereq := range c.Prerequisites {
		found := false
		for _, code := range history {
			if code == prereq {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, prereq)
		}
	}
	return missing
}
