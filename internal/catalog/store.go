package catalog

import (
	"strings"
	"sync"

	cserr "courseserv/internal/errors"
)

// Store is the in-memory catalog.  Reads take a shared lock; seat
// changes take the exclusive lock so concurrent enroll/drop on one
// course never lose an update.
type Store struct {
	mu      sync.RWMutex
	courses []*Course          // load order
	byCode  map[string]*Course // same pointers as courses
}

// NewStore builds a Store from courses in load order.  Records are
// copied and normalized; a repeated course code keeps the first record.
func NewStore(courses []Course) *Store {
	s := &Store{
		courses: make([]*Course, 0, len(courses)),
		byCode:  make(map[string]*Course, len(courses)),
	}
	for _, c := range courses {
		if _, dup := s.byCode[c.Code]; dup {
			continue
		}
		cc := c.clone()
		cc.normalize()
		s.courses = append(s.courses, &cc)
		s.byCode[cc.Code] = &cc
	}
	return s
}

// Len returns the number of courses.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.courses)
}

// Search returns copies of every course whose filtered field contains
// term (case-sensitive), in load order.  FilterAll ignores term.  An
// unrecognised filter matches nothing.
func (s *Store) Search(filter Filter, term string) []Course {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Course
	for _, c := range s.courses {
		if filter != FilterAll {
			value, ok := filter.field(c)
			if !ok || !strings.Contains(value, term) {
				continue
			}
		}
		out = append(out, c.clone())
	}
	return out
}

// Get returns a copy of the course with the exact code.
func (s *Store) Get(code string) (Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byCode[code]
	if !ok {
		return Course{}, false
	}
	return c.clone(), true
}

// Enroll takes one seat.  It returns ErrCourseNotFound or ErrCourseFull
// without changing anything.
func (s *Store) Enroll(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byCode[code]
	if !ok {
		return cserr.ErrCourseNotFound
	}
	if c.SeatsAvailable <= 0 {
		return cserr.ErrCourseFull
	}
	c.SeatsAvailable--
	return nil
}

// Drop gives one seat back.  It returns ErrCourseNotFound or
// ErrCourseAtCapacity without changing anything.
func (s *Store) Drop(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byCode[code]
	if !ok {
		return cserr.ErrCourseNotFound
	}
	if c.SeatsAvailable >= c.Capacity {
		return cserr.ErrCourseAtCapacity
	}
	c.SeatsAvailable++
	return nil
}
