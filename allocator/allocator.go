package allocator

// AllocateArgs are the arguments of a single Allocate pass over a
// school's ranked candidate centers.
type AllocateArgs struct {
	// School whose students are being assigned.
	School School
	// Candidates are the ranked centers to attempt, in Selector order.
	Candidates []Candidate
	// ToAllot is the number of students still requiring assignment.
	ToAllot int
	// Ledger tracking capacity and recorded allocations, shared across
	// the whole run.
	Ledger *Ledger
	// Policy supplying the per-center cap table, minimum batch size and
	// stretch factor.
	Policy Policy
	// Stretch permits borrowing a bounded fraction of nominal capacity
	// beyond a center's cap. It's set on the relaxed second pass.
	Stretch bool
	// TraceHook is an optional hook invoked for every candidate
	// examined, before any admission decision, for diagnostic output.
	TraceHook func(Candidate)
}

// Allocate greedily distributes students over the candidate centers of
// AllocateArgs, in candidate order, and returns the count of students it
// could not place along with the centers actually used (keyed by center
// code).
//
// Each candidate is admitted only if the batch size computed for it is
// positive and within the center's (possibly stretched) remaining
// capacity. A batch smaller than Policy.MinPerCenter is folded into the
// school's first candidate rather than opening a new center, once any
// center has been used for the school. A candidate already holding an
// allocation for this school is skipped, which makes Allocate idempotent
// under the overlapping candidate sets of the normal and relaxed passes.
func Allocate(args AllocateArgs) (remaining int, used map[string]Candidate) {
	var (
		ledger    = args.Ledger
		policy    = args.Policy
		toAllot   = args.ToAllot
		perCenter = policy.PerCenterCap(args.ToAllot)
	)
	used = make(map[string]Candidate)

	for _, c := range args.Candidates {
		if args.TraceHook != nil {
			args.TraceHook(c)
		}
		if ledger.IsAllocated(args.School.Code, c.Code) {
			continue
		}

		var capLeft = ledger.Remaining(c.Code)
		var next, allowance int

		if args.Stretch {
			// The center's effective remaining capacity is raised by a
			// bounded fraction of its nominal capacity.
			allowance = int(float64(c.Capacity) * policy.StretchFactor)
			capLeft += allowance
			next = min(toAllot, max(capLeft, policy.MinPerCenter))
		} else {
			// Never place more than is needed, than the per-center cap,
			// or than remains. The remaining figure is floored at the
			// minimum viable batch so a nearly-full center isn't offered
			// an unrealistically tiny slice.
			next = min(toAllot, perCenter, max(capLeft, policy.MinPerCenter))
		}

		if toAllot <= 0 || next <= 0 || capLeft < next {
			continue
		}

		if next < policy.MinPerCenter && len(used) > 0 {
			// Fragmentation guard: fold the leftover sliver into the
			// school's first candidate rather than opening another
			// barely-populated center. Capacity is still consumed at
			// the center which physically admitted the batch, while the
			// primary joins |used| so the merged total is reported.
			ledger.MergeInto(args.School.Code, args.Candidates[0].Code, next)
			used[args.Candidates[0].Code] = args.Candidates[0]
		} else {
			ledger.Record(args.School.Code, c.Code, next)
			used[c.Code] = c
			allocationsTotal.Inc()
		}

		toAllot -= next
		if args.Stretch {
			ledger.ConsumeStretched(c.Code, next, allowance)
		} else {
			ledger.Consume(c.Code, next)
		}
		studentsAssignedTotal.Add(float64(next))

		if toAllot == 0 {
			break
		}
	}
	return toAllot, used
}
