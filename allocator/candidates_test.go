package allocator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCandidatesSelfExclusion(t *testing.T) {
	var policy = DefaultPolicy()
	var school = schoolAt("x1", 100)

	// A center sharing the school's code is never a candidate, even as
	// the nearest fallback.
	var centers = []Center{
		centerAtKm("x1", 500, 0.1),
		centerAtKm("c1", 100, 1),
	}
	var got = newTestSelector(nil, policy).Candidates(school, centers, policy.PrefDistanceKm)

	require.Len(t, got, 1)
	require.Equal(t, "c1", got[0].Code)
}

func TestCandidatesMissingLocation(t *testing.T) {
	var policy = DefaultPolicy()
	var school = School{Code: "s1", Count: 100} // No location.
	var centers = []Center{centerAtKm("c1", 100, 1)}

	require.Empty(t, newTestSelector(nil, policy).Candidates(school, centers, policy.PrefDistanceKm))
}

func TestCandidatesNearestFallback(t *testing.T) {
	var policy = DefaultPolicy()
	var school = schoolAt("s1", 100)

	// Case: no center within the radius. The single nearest center is
	// returned regardless of its distance.
	var centers = []Center{
		centerAtKm("far", 100, 20),
		centerAtKm("near", 100, 9),
		centerAtKm("farther", 100, 30),
	}
	var got = newTestSelector(nil, policy).Candidates(school, centers, policy.PrefDistanceKm)
	require.Len(t, got, 1)
	require.Equal(t, "near", got[0].Code)
	require.InDelta(t, 9, got[0].DistanceKm, 0.01)

	// Case: a school with zero qualifying centers within either radius
	// still receives a non-empty candidate list.
	got = newTestSelector(nil, policy).Candidates(school, centers, policy.AbsDistanceKm)
	require.Len(t, got, 1)
	require.Equal(t, "near", got[0].Code)

	// Case: no centers at all.
	require.Empty(t, newTestSelector(nil, policy).Candidates(school, nil, policy.PrefDistanceKm))
}

func TestCandidatesPreferenceCutoff(t *testing.T) {
	var policy = DefaultPolicy()
	var school = schoolAt("s1", 100)
	var prefs = BuildPreferenceTable([]PreferenceEntry{
		{SchoolCode: "s1", CenterCode: "shunned", Score: -10},
	})

	// Case: a strongly dis-preferred center is excluded from the
	// within-distance set while another center qualifies.
	var centers = []Center{
		centerAtKm("shunned", 100, 0.5),
		centerAtKm("ok", 100, 1.5),
	}
	var got = newTestSelector(prefs, policy).Candidates(school, centers, policy.PrefDistanceKm)
	require.Len(t, got, 1)
	require.Equal(t, "ok", got[0].Code)

	// Case: the same center may still be selected as the nearest
	// fallback when nothing else qualifies.
	got = newTestSelector(prefs, policy).Candidates(school, centers[:1], policy.PrefDistanceKm)
	require.Len(t, got, 1)
	require.Equal(t, "shunned", got[0].Code)

	// Case: a score exactly at the cutoff is excluded; above it
	// qualifies.
	prefs = BuildPreferenceTable([]PreferenceEntry{
		{SchoolCode: "s1", CenterCode: "at", Score: -4},
		{SchoolCode: "s1", CenterCode: "above", Score: -3},
	})
	got = newTestSelector(prefs, policy).Candidates(school, []Center{
		centerAtKm("at", 100, 1),
		centerAtKm("above", 100, 1),
	}, policy.PrefDistanceKm)
	require.Len(t, got, 1)
	require.Equal(t, "above", got[0].Code)
}

func TestCandidatesRanking(t *testing.T) {
	var policy = DefaultPolicy()
	var school = schoolAt("s1", 100)

	// Case: strictly higher preference outranks modest distance
	// differences, regardless of jitter.
	var prefs = BuildPreferenceTable([]PreferenceEntry{
		{SchoolCode: "s1", CenterCode: "liked", Score: 5},
	})
	var centers = []Center{
		centerAtKm("close", 100, 0.2),
		centerAtKm("liked", 100, 1.9),
	}
	for seed := int64(0); seed < 10; seed++ {
		var sel = &Selector{Prefs: prefs, Policy: policy, Rand: rand.New(rand.NewSource(seed))}
		var got = sel.Candidates(school, centers, policy.PrefDistanceKm)
		require.Len(t, got, 2)
		require.Equal(t, "liked", got[0].Code)
	}

	// Case: among equal preference, a center much closer than another
	// always ranks first (jitter spreads only near-ties).
	centers = []Center{
		centerAtKm("far", 100, 1.9),
		centerAtKm("near", 100, 0.2),
	}
	for seed := int64(0); seed < 10; seed++ {
		var sel = &Selector{Prefs: make(PreferenceTable), Policy: policy, Rand: rand.New(rand.NewSource(seed))}
		var got = sel.Candidates(school, centers, policy.PrefDistanceKm)
		require.Len(t, got, 2)
		require.Equal(t, "near", got[0].Code)
	}
}

func TestCandidatesDistanceComputed(t *testing.T) {
	var policy = DefaultPolicy()
	var school = schoolAt("s1", 100)

	var got = newTestSelector(nil, policy).Candidates(
		school, []Center{centerAtKm("c1", 100, 1.25)}, policy.PrefDistanceKm)

	require.Len(t, got, 1)
	require.InDelta(t, 1.25, got[0].DistanceKm, 0.001)
}
