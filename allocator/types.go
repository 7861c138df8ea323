package allocator

import "github.com/ashiishme/center-randomize/geo"

// School is a cohort of students requiring assignment to exam centers.
// Schools are immutable for the duration of a run; the count of students
// still awaiting assignment is tracked by the run, not the School.
type School struct {
	// Code uniquely identifies the school. Schools and centers share a
	// code space, and a school is never assigned to a center bearing its
	// own code.
	Code string
	// Name is the display name and address of the school.
	Name string
	// Count is the number of students to be assigned.
	Count int
	// Location of the school, or nil if its coordinates are unknown.
	// A school without a location cannot be distance-filtered and falls
	// through to the relaxed pass.
	Location *geo.Point
}

// Center is an exam center with a fixed nominal capacity.
type Center struct {
	Code     string
	Name     string
	Address  string
	Capacity int
	Location geo.Point
}

// Candidate is a Center under consideration for a specific school,
// enriched with its computed distance. Candidates are derived per
// (school, radius) query and never persisted.
type Candidate struct {
	Center
	// DistanceKm is the great-circle distance from the school.
	DistanceKm float64
	// rank is the composite ordering key assigned by the Selector.
	rank float64
}

// PreferenceEntry is one submitted preference row: a school's score for
// a center. Multiple rows for the same pair accumulate (see
// PreferenceTable).
type PreferenceEntry struct {
	SchoolCode string
	CenterCode string
	Score      int
}
