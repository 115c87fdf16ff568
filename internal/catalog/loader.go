package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Field order of a catalog record.  Records are ';'-separated with a
// single header line.
const (
	fieldCode = iota
	fieldTitle
	fieldSubject
	fieldInstructor
	fieldPrerequisites
	fieldSeats
	fieldCapacity
	fieldDescription
	numFields
)

// Load reads the catalog file at path.
func Load(path string) ([]Course, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	courses, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return courses, nil
}

// Parse decodes catalog records from r.  The first line is a header and
// is skipped, as are blank lines.  Missing trailing fields are empty and
// seat counts that are not integers become 0.
func Parse(r io.Reader) ([]Course, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var courses []Course
	header := true
	for sc.Scan() {
		if header {
			header = false
			continue
		}
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		courses = append(courses, parseRecord(line))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return courses, nil
}

func parseRecord(line string) Course {
	fields := strings.SplitN(line, ";", numFields)
	for len(fields) < numFields {
		fields = append(fields, "")
	}

	c := Course{
		Code:           fields[fieldCode],
		Title:          fields[fieldTitle],
		Subject:        fields[fieldSubject],
		Instructor:     fields[fieldInstructor],
		SeatsAvailable: atoiOrZero(fields[fieldSeats]),
		Capacity:       atoiOrZero(fields[fieldCapacity]),
		Description:    fields[fieldDescription],
	}
	if p := fields[fieldPrerequisites]; p != "" {
		c.Prerequisites = strings.Split(p, ",")
	}
	return c
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
