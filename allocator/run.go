package allocator

import (
	"math/rand"
	"sort"

	log "github.com/sirupsen/logrus"
)

// largeCohort is the cohort size above which a school is ordered ahead
// of smaller schools, so that big cohorts compete for contiguous
// capacity before it's fragmented by many small allocations.
const largeCohort = 500

// RunArgs are the arguments of a full allocation run.
type RunArgs struct {
	Schools []School
	Centers []Center
	Prefs   PreferenceTable
	Policy  Policy
	// Rand seeds school ordering and candidate ranking. Two runs with
	// identical inputs and an identical seed produce identical plans.
	Rand *rand.Rand
	// TraceHook is an optional hook invoked for every (school, candidate)
	// pair examined, for diagnostic output.
	TraceHook func(School, Candidate)
	// OnAllocation is an optional hook invoked once per (school, center)
	// allocation of the final plan, in center-code order, as each school
	// completes.
	OnAllocation func(school School, center Candidate, amount int)
}

// Shortfall is the unassigned remainder of one school after both passes.
type Shortfall struct {
	School School
	// Unassigned students of the school, always > 0.
	Unassigned int
	// Candidates examined during the preferred pass.
	Candidates int
}

// Summary is the end-of-run report of an allocation run.
type Summary struct {
	// SchoolsProcessed is the total number of schools processed.
	SchoolsProcessed int
	// StudentsAssigned is the total number of students placed.
	StudentsAssigned int
	// StudentsUnassigned is the total unmet demand across all schools.
	StudentsUnassigned int
	// Shortfalls lists each school left with unassigned students, in
	// processing order.
	Shortfalls []Shortfall
	// RemainingByCenter lists each center with non-zero remaining
	// capacity, ascending. Negative entries are centers stretched beyond
	// nominal capacity.
	RemainingByCenter []CenterRemaining
	// TotalRemaining is the total remaining capacity across all centers.
	TotalRemaining int
}

// Run executes a complete allocation: schools are ordered large-cohort
// first, and each is given a normal pass over its preferred-radius
// candidates followed, if students remain, by a stretch pass over the
// expanded radius. Any remainder after both passes is reported as a
// Shortfall; it never fails the run.
func Run(args RunArgs) Summary {
	var (
		ledger   = NewLedger(args.Centers)
		selector = &Selector{Prefs: args.Prefs, Policy: args.Policy, Rand: args.Rand}
		schools  = orderSchools(args.Schools, args.Rand)
		summary  Summary
	)

	for _, school := range schools {
		var preferred = selector.Candidates(school, args.Centers, args.Policy.PrefDistanceKm)

		var trace func(Candidate)
		if args.TraceHook != nil {
			var s = school
			trace = func(c Candidate) { args.TraceHook(s, c) }
		}

		var toAllot, used = Allocate(AllocateArgs{
			School:     school,
			Candidates: preferred,
			ToAllot:    school.Count,
			Ledger:     ledger,
			Policy:     args.Policy,
			TraceHook:  trace,
		})

		if toAllot > 0 {
			// Relaxed pass: expanded radius, stretched capacity.
			stretchPassesTotal.Inc()
			var expanded = selector.Candidates(school, args.Centers, args.Policy.AbsDistanceKm)

			var stretchUsed map[string]Candidate
			toAllot, stretchUsed = Allocate(AllocateArgs{
				School:     school,
				Candidates: expanded,
				ToAllot:    toAllot,
				Ledger:     ledger,
				Policy:     args.Policy,
				Stretch:    true,
				TraceHook:  trace,
			})
			for code, c := range stretchUsed {
				used[code] = c
			}
		}

		if args.OnAllocation != nil {
			for _, c := range orderedCandidates(used) {
				args.OnAllocation(school, c, ledger.Allocated(school.Code, c.Code))
			}
		}

		summary.SchoolsProcessed++
		summary.StudentsAssigned += school.Count - toAllot
		schoolsProcessedTotal.Inc()

		if toAllot > 0 {
			summary.StudentsUnassigned += toAllot
			summary.Shortfalls = append(summary.Shortfalls, Shortfall{
				School:     school,
				Unassigned: toAllot,
				Candidates: len(preferred),
			})
			studentsUnassignedTotal.Add(float64(toAllot))

			log.WithFields(log.Fields{
				"school":     school.Code,
				"name":       school.Name,
				"unassigned": toAllot,
				"count":      school.Count,
				"candidates": len(preferred),
			}).Warn("students left unassigned")
		}
	}

	summary.RemainingByCenter = ledger.RemainingNonZero()
	summary.TotalRemaining = ledger.TotalRemaining()
	return summary
}

// orderSchools returns a copy of |schools| ordered for processing:
// cohorts above largeCohort ahead of the rest, with a seeded shuffle
// within each tier to spread the order-dependence of the greedy
// allocation across runs rather than always favoring input order.
func orderSchools(schools []School, rng *rand.Rand) []School {
	var keyed = make([]struct {
		school School
		key    float64
	}, len(schools))

	for i, s := range schools {
		var tier float64 = 1
		if s.Count > largeCohort {
			tier = -1
		}
		keyed[i].school = s
		keyed[i].key = tier * (1 + rng.Float64()*99)
	}
	sort.SliceStable(keyed, func(i, j int) bool { return keyed[i].key < keyed[j].key })

	var out = make([]School, len(schools))
	for i := range keyed {
		out[i] = keyed[i].school
	}
	return out
}

// orderedCandidates returns the values of |used| in center-code order,
// for deterministic output.
func orderedCandidates(used map[string]Candidate) []Candidate {
	var out = make([]Candidate, 0, len(used))
	for _, c := range used {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
