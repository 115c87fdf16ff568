package catalog

// sampleCourses is a small catalog shared by the tests in this package.
func sampleCourses() []Course {
	return []Course{
		{Code: "CS300", Title: "Data Structures", Subject: "CS300 Core", Instructor: "Ada Lovelace", SeatsAvailable: 2, Capacity: 30},
		{Code: "CS447", Title: "Networks", Subject: "CS447 Systems", Instructor: "Vint Cerf", Prerequisites: []string{"CS300"}, SeatsAvailable: 0, Capacity: 25},
		{Code: "MATH101", Title: "Calculus", Subject: "Mathematics", Instructor: "Ada Lovelace", SeatsAvailable: 10, Capacity: 10},
		{Code: "CS490", Title: "Capstone", Subject: "CS Projects", Instructor: "Grace Hopper", Prerequisites: []string{"CS300", "CS447"}, SeatsAvailable: 5, Capacity: 5},
	}
}
