// Package allocator implements a greedy, capacity-constrained assignment
// of each school's students across one or more exam centers. Centers are
// filtered by great-circle distance and school-expressed preference and
// ranked with a seeded tie-spreading jitter; each school is then given a
// normal allocation pass over its preferred radius and, if students
// remain, a relaxed pass over an expanded radius during which a center's
// capacity may be stretched by a bounded fraction. Unmet demand after
// both passes is reported, never fatal. Runs are single-threaded and
// deterministic given a seed.
package allocator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	allocationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "center_randomize_allocations_total",
		Help: "Cumulative number of school / center allocations recorded.",
	})
	studentsAssignedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "center_randomize_students_assigned_total",
		Help: "Cumulative number of students assigned to centers.",
	})
	studentsUnassignedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "center_randomize_students_unassigned_total",
		Help: "Cumulative number of students left unassigned after both passes.",
	})
	schoolsProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "center_randomize_schools_processed_total",
		Help: "Cumulative number of schools processed.",
	})
	stretchPassesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "center_randomize_stretch_passes_total",
		Help: "Cumulative number of relaxed (stretch) passes attempted.",
	})
	fallbackCandidatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "center_randomize_fallback_candidates_total",
		Help: "Cumulative number of schools offered only their single nearest center.",
	})
)
