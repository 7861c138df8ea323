package allocator

import (
	"math/rand"
	"sort"

	"github.com/ashiishme/center-randomize/geo"
)

// prefRankWeight scales preference scores against kilometers in the
// composite candidate ranking, such that modest distance differences
// never outweigh a whole point of preference.
const prefRankWeight = 100

// Selector produces the ranked candidate centers of a school.
type Selector struct {
	Prefs  PreferenceTable
	Policy Policy
	// Rand drives the deliberate tie-spreading jitter of candidate
	// ranking. Runs sharing a seed produce identical orderings.
	Rand *rand.Rand
}

// Candidates returns the centers eligible for |school| within
// |radiusKm|, ranked to favor high preference first and short distance
// second, with seeded jitter spreading near-ties so that schools with
// identical inputs don't all pile onto one center.
//
// A center sharing the school's own code is never a candidate. If no
// center qualifies (too far, or preference at or below the policy
// cutoff) the single nearest center is returned instead, so that every
// located school always has at least one candidate to attempt. Schools
// without a location yield no candidates at all.
func (s *Selector) Candidates(school School, centers []Center, radiusKm float64) []Candidate {
	if school.Location == nil {
		return nil
	}

	var within []Candidate
	var nearest *Candidate

	for _, c := range centers {
		if c.Code == school.Code {
			continue
		}
		var d = geo.Distance(*school.Location, c.Location)

		// Ties keep the first center encountered in input order.
		if nearest == nil || d < nearest.DistanceKm {
			nearest = &Candidate{Center: c, DistanceKm: d}
		}
		if d <= radiusKm && s.Prefs.Score(school.Code, c.Code) > s.Policy.PrefCutoff {
			within = append(within, Candidate{Center: c, DistanceKm: d})
		}
	}

	if len(within) == 0 {
		if nearest == nil {
			return nil
		}
		fallbackCandidatesTotal.Inc()
		return []Candidate{*nearest}
	}

	for i := range within {
		within[i].rank = s.rank(school.Code, within[i])
	}
	sort.SliceStable(within, func(i, j int) bool {
		return within[i].rank < within[j].rank
	})
	return within
}

// rank computes the composite ordering key of a candidate: lower is
// better. Distance is inflated by a jitter factor in [1, 5) and offset
// by the weighted preference score, so strictly higher preference
// generally outranks modest distance differences while equal-preference
// candidates order by (jittered) distance.
func (s *Selector) rank(schoolCode string, c Candidate) float64 {
	var jitter = 1 + s.Rand.Float64()*4
	return c.DistanceKm*jitter - float64(s.Prefs.Score(schoolCode, c.Code)*prefRankWeight)
}
