package allocator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func cand(code string, capacity int, distanceKm float64) Candidate {
	return Candidate{
		Center: Center{
			Code:     code,
			Name:     code + " Center",
			Address:  code + " Address",
			Capacity: capacity,
			Location: pointAtKm(distanceKm),
		},
		DistanceKm: distanceKm,
	}
}

func ledgerOf(cands ...Candidate) *Ledger {
	var centers []Center
	for _, c := range cands {
		centers = append(centers, c.Center)
	}
	return NewLedger(centers)
}

// A single center with ample capacity absorbs the whole school.
func TestAllocateSingleCenter(t *testing.T) {
	var c1 = cand("c1", 200, 1)
	var ledger = ledgerOf(c1)

	var remaining, used = Allocate(AllocateArgs{
		School:     schoolAt("s1", 50),
		Candidates: []Candidate{c1},
		ToAllot:    50,
		Ledger:     ledger,
		Policy:     DefaultPolicy(),
	})

	require.Zero(t, remaining)
	require.Len(t, used, 1)
	require.Equal(t, 50, ledger.Allocated("s1", "c1"))
	require.Equal(t, 150, ledger.Remaining("c1"))
}

// A school larger than any single center splits across several, never
// exceeding a center's capacity.
func TestAllocateSplitsAcrossCenters(t *testing.T) {
	var c1, c2 = cand("c1", 80, 1), cand("c2", 80, 1.5)
	var ledger = ledgerOf(c1, c2)

	var remaining, used = Allocate(AllocateArgs{
		School:     schoolAt("s2", 150),
		Candidates: []Candidate{c1, c2},
		ToAllot:    150,
		Ledger:     ledger,
		Policy:     DefaultPolicy(),
	})

	require.Zero(t, remaining)
	require.Len(t, used, 2)
	require.Equal(t, 80, ledger.Allocated("s2", "c1"))
	require.Equal(t, 70, ledger.Allocated("s2", "c2"))
	require.Equal(t, 150, ledger.TotalAllocated("s2"))
	require.Zero(t, ledger.Remaining("c1"))
	require.Equal(t, 10, ledger.Remaining("c2"))
}

// A large school against a single small center exhausts it in the
// normal pass; re-attempting it under stretch is an idempotent no-op and
// the rest of the cohort is reported unassigned.
func TestAllocateCapacityShortfall(t *testing.T) {
	var c1 = cand("c1", 30, 1)
	var ledger = ledgerOf(c1)
	var school = schoolAt("s3", 500)

	var remaining, used = Allocate(AllocateArgs{
		School:     school,
		Candidates: []Candidate{c1},
		ToAllot:    500,
		Ledger:     ledger,
		Policy:     DefaultPolicy(),
	})
	require.Equal(t, 470, remaining)
	require.Len(t, used, 1)
	require.Equal(t, 30, ledger.Allocated("s3", "c1"))
	require.Zero(t, ledger.Remaining("c1"))

	// Relaxed pass over the same candidate: the pair is already
	// recorded, so nothing is double-counted.
	remaining, used = Allocate(AllocateArgs{
		School:     school,
		Candidates: []Candidate{c1},
		ToAllot:    remaining,
		Ledger:     ledger,
		Policy:     DefaultPolicy(),
		Stretch:    true,
	})
	require.Equal(t, 470, remaining)
	require.Empty(t, used)
	require.Equal(t, 30, ledger.Allocated("s3", "c1"))
	require.Zero(t, ledger.Remaining("c1"))
}

func TestAllocatePerCenterCap(t *testing.T) {
	// Case: a cohort of 300 is capped at 100 students per center.
	var c1 = cand("c1", 1000, 1)
	var ledger = ledgerOf(c1)

	var remaining, _ = Allocate(AllocateArgs{
		School:     schoolAt("s1", 300),
		Candidates: []Candidate{c1},
		ToAllot:    300,
		Ledger:     ledger,
		Policy:     DefaultPolicy(),
	})
	require.Equal(t, 200, remaining)
	require.Equal(t, 100, ledger.Allocated("s1", "c1"))

	// Case: a cohort above 400 may place 200 per center.
	ledger = ledgerOf(c1)
	remaining, _ = Allocate(AllocateArgs{
		School:     schoolAt("s2", 500),
		Candidates: []Candidate{c1},
		ToAllot:    500,
		Ledger:     ledger,
		Policy:     DefaultPolicy(),
	})
	require.Equal(t, 300, remaining)
	require.Equal(t, 200, ledger.Allocated("s2", "c1"))
}

// A leftover sliver below the minimum batch size is folded into the
// school's first candidate rather than opening another center. Capacity
// is still consumed at the center which admitted the batch.
func TestAllocateFragmentationGuard(t *testing.T) {
	var c1, c2 = cand("c1", 100, 1), cand("c2", 200, 1.5)
	var ledger = ledgerOf(c1, c2)

	var remaining, used = Allocate(AllocateArgs{
		School:     schoolAt("s1", 105),
		Candidates: []Candidate{c1, c2},
		ToAllot:    105,
		Ledger:     ledger,
		Policy:     DefaultPolicy(),
	})

	require.Zero(t, remaining)
	require.Len(t, used, 1)
	require.Contains(t, used, "c1")
	require.Equal(t, 105, ledger.Allocated("s1", "c1"))
	require.Zero(t, ledger.Allocated("s1", "c2"))
	require.Zero(t, ledger.Remaining("c1"))
	require.Equal(t, 195, ledger.Remaining("c2"))
}

func TestAllocateMinimumBatchFloor(t *testing.T) {
	var c1 = cand("c1", 100, 1)

	// Case: a nearly-full center isn't offered a batch below the
	// minimum viable size.
	var ledger = ledgerOf(c1)
	ledger.Consume("c1", 97)

	var remaining, used = Allocate(AllocateArgs{
		School:     schoolAt("s1", 50),
		Candidates: []Candidate{c1},
		ToAllot:    50,
		Ledger:     ledger,
		Policy:     DefaultPolicy(),
	})
	require.Equal(t, 50, remaining)
	require.Empty(t, used)
	require.Equal(t, 3, ledger.Remaining("c1"))

	// Case: a school needing less than the floor still fits.
	remaining, used = Allocate(AllocateArgs{
		School:     schoolAt("s2", 2),
		Candidates: []Candidate{c1},
		ToAllot:    2,
		Ledger:     ledger,
		Policy:     DefaultPolicy(),
	})
	require.Zero(t, remaining)
	require.Len(t, used, 1)
	require.Equal(t, 2, ledger.Allocated("s2", "c1"))
}

func TestAllocateStretch(t *testing.T) {
	var c1 = cand("c1", 100, 3)

	// Case: a full center may be stretched by 2% of nominal capacity.
	var ledger = ledgerOf(c1)
	ledger.Consume("c1", 100)

	var remaining, used = Allocate(AllocateArgs{
		School:     schoolAt("s1", 2),
		Candidates: []Candidate{c1},
		ToAllot:    2,
		Ledger:     ledger,
		Policy:     DefaultPolicy(),
		Stretch:    true,
	})
	require.Zero(t, remaining)
	require.Len(t, used, 1)
	require.Equal(t, 2, ledger.Allocated("s1", "c1"))
	require.Equal(t, -2, ledger.Remaining("c1"))

	// Case: the stretch of a small center rounds to nothing, and the
	// admission test rejects the minimum batch.
	var c2 = cand("c2", 30, 3)
	ledger = ledgerOf(c2)
	ledger.Consume("c2", 30)

	remaining, used = Allocate(AllocateArgs{
		School:     schoolAt("s2", 470),
		Candidates: []Candidate{c2},
		ToAllot:    470,
		Ledger:     ledger,
		Policy:     DefaultPolicy(),
		Stretch:    true,
	})
	require.Equal(t, 470, remaining)
	require.Empty(t, used)
	require.Zero(t, ledger.Remaining("c2"))
}

func TestAllocateTraceHook(t *testing.T) {
	var c1, c2 = cand("c1", 100, 1), cand("c2", 100, 2)
	var ledger = ledgerOf(c1, c2)

	// The hook observes every candidate examined, including those which
	// admit nothing.
	var traced []string
	var remaining, _ = Allocate(AllocateArgs{
		School:     schoolAt("s1", 20),
		Candidates: []Candidate{c1, c2},
		ToAllot:    20,
		Ledger:     ledger,
		Policy:     DefaultPolicy(),
		TraceHook:  func(c Candidate) { traced = append(traced, c.Code) },
	})
	require.Zero(t, remaining)
	require.Equal(t, []string{"c1"}, traced) // Fully placed at c1; c2 not reached.

	// A second school with more demand examines both.
	traced = nil
	remaining, _ = Allocate(AllocateArgs{
		School:     schoolAt("s2", 150),
		Candidates: []Candidate{c1, c2},
		ToAllot:    150,
		Ledger:     ledger,
		Policy:     DefaultPolicy(),
		TraceHook:  func(c Candidate) { traced = append(traced, c.Code) },
	})
	require.Equal(t, []string{"c1", "c2"}, traced)
	require.Zero(t, remaining)
}

func TestAllocateEdgeCases(t *testing.T) {
	var c1 = cand("c1", 100, 1)
	var ledger = ledgerOf(c1)

	// Case: no candidates.
	var remaining, used = Allocate(AllocateArgs{
		School:  schoolAt("s1", 50),
		ToAllot: 50,
		Ledger:  ledger,
		Policy:  DefaultPolicy(),
	})
	require.Equal(t, 50, remaining)
	require.Empty(t, used)

	// Case: nothing to allot.
	remaining, used = Allocate(AllocateArgs{
		School:     schoolAt("s2", 0),
		Candidates: []Candidate{c1},
		ToAllot:    0,
		Ledger:     ledger,
		Policy:     DefaultPolicy(),
	})
	require.Zero(t, remaining)
	require.Empty(t, used)
	require.Equal(t, 100, ledger.Remaining("c1"))
}
