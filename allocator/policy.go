package allocator

import (
	"io"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// CapTier bounds the number of students assigned to any single center
// within one normal (non-stretch) pass, as a function of cohort size.
// Tiers are evaluated in order; the first tier whose MaxCohort is zero
// (unbounded) or >= the cohort size applies.
type CapTier struct {
	// MaxCohort is the largest cohort this tier applies to. Zero means
	// the tier is unbounded and terminates the table.
	MaxCohort int `yaml:"max_cohort"`
	// Cap is the per-center assignment ceiling for cohorts in this tier.
	Cap int `yaml:"cap"`
}

// Policy holds the tunable parameters of an allocation run.
type Policy struct {
	// PrefDistanceKm is the radius of the first, preferred pass.
	PrefDistanceKm float64 `yaml:"pref_distance_km"`
	// AbsDistanceKm is the radius of the relaxed second pass.
	AbsDistanceKm float64 `yaml:"abs_distance_km"`
	// MinPerCenter is the smallest viable batch of students to place at
	// a center under normal circumstances.
	MinPerCenter int `yaml:"min_students_per_center"`
	// StretchFactor is the fraction of nominal capacity a center may be
	// stretched beyond its cap during the relaxed pass.
	StretchFactor float64 `yaml:"stretch_capacity_factor"`
	// PrefCutoff excludes centers whose preference score is at or below
	// this value from the within-distance set.
	PrefCutoff int `yaml:"pref_cutoff"`
	// CapTiers is the per-center cap table keyed by cohort size.
	CapTiers []CapTier `yaml:"cap_tiers"`
}

// DefaultPolicy returns the standard allocation policy.
func DefaultPolicy() Policy {
	return Policy{
		PrefDistanceKm: 2,
		AbsDistanceKm:  7,
		MinPerCenter:   10,
		StretchFactor:  0.02,
		PrefCutoff:     -4,
		CapTiers: []CapTier{
			{MaxCohort: 400, Cap: 100},
			{Cap: 200},
		},
	}
}

// LoadPolicy decodes a YAML Policy from |r|, layered over DefaultPolicy.
func LoadPolicy(r io.Reader) (Policy, error) {
	var policy = DefaultPolicy()

	var buf, err = io.ReadAll(r)
	if err != nil {
		return Policy{}, errors.WithMessage(err, "reading policy")
	}
	if err = yaml.UnmarshalStrict(buf, &policy); err != nil {
		return Policy{}, errors.WithMessage(err, "decoding policy")
	}
	if err = policy.Validate(); err != nil {
		return Policy{}, err
	}
	return policy, nil
}

// Validate returns an error if the Policy is malformed.
func (p Policy) Validate() error {
	if p.PrefDistanceKm <= 0 {
		return errors.Errorf("invalid pref_distance_km (%v; expected > 0)", p.PrefDistanceKm)
	} else if p.AbsDistanceKm < p.PrefDistanceKm {
		return errors.Errorf("invalid abs_distance_km (%v; expected >= pref_distance_km %v)",
			p.AbsDistanceKm, p.PrefDistanceKm)
	} else if p.MinPerCenter < 1 {
		return errors.Errorf("invalid min_students_per_center (%v; expected >= 1)", p.MinPerCenter)
	} else if p.StretchFactor < 0 {
		return errors.Errorf("invalid stretch_capacity_factor (%v; expected >= 0)", p.StretchFactor)
	} else if len(p.CapTiers) == 0 {
		return errors.New("expected at least one cap tier")
	}

	for i, tier := range p.CapTiers {
		if tier.Cap < 1 {
			return errors.Errorf("cap_tiers[%d]: invalid cap (%v; expected >= 1)", i, tier.Cap)
		}
		if tier.MaxCohort == 0 && i != len(p.CapTiers)-1 {
			return errors.Errorf("cap_tiers[%d]: unbounded tier must be last", i)
		}
	}
	if last := p.CapTiers[len(p.CapTiers)-1]; last.MaxCohort != 0 {
		return errors.New("last cap tier must be unbounded (max_cohort 0)")
	}
	return nil
}

// PerCenterCap returns the per-center assignment ceiling for a cohort of
// |count| students.
func (p Policy) PerCenterCap(count int) int {
	for _, tier := range p.CapTiers {
		if tier.MaxCohort == 0 || count <= tier.MaxCohort {
			return tier.Cap
		}
	}
	panic("not reached")
}
