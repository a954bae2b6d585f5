// Package difficulty maps a player's skill rating to a difficulty tier.
//
// The tier table partitions the full skill domain [0, MaxSkill] into five
// bands. Each tier carries the generation parameters for that band: a
// sampling temperature and an instruction hint describing how obvious the
// social engineering red flags should be. Lower tiers get blunt red flags
// and low temperature; higher tiers get subtle, polished attacks and more
// creative sampling.
//
// Classify is a pure function: no I/O, no state, safe for concurrent use.
package difficulty

import "slices"

// MaxSkill is the upper bound of the skill rating domain.
// Matches the player_skill_rating scale of the training platform.
const MaxSkill = 1000.0

// Tier is one band of the skill domain with its generation parameters.
type Tier struct {
	// Label is the human-readable tier name ("Beginner" ... "Expert").
	Label string

	// Lower is the inclusive lower skill bound of this tier.
	Lower float64

	// Upper is the exclusive upper skill bound, except for the topmost
	// tier where it is inclusive of MaxSkill.
	Upper float64

	// Score is the numeric difficulty recorded with generated scenarios.
	Score float64

	// Temperature is the sampling temperature used at this tier.
	Temperature float64

	// Hint is the instruction fragment spliced into the generation prompt.
	Hint string
}

// tiers is the fixed, ordered tier table.
// Invariants (verified by tests): bands are contiguous, non-overlapping,
// cover [0, MaxSkill], and Temperature rises monotonically with skill.
var tiers = []Tier{
	{
		Label:       "Beginner",
		Lower:       0,
		Upper:       200,
		Score:       1,
		Temperature: 0.2,
		Hint: "include several obvious red flags: spelling mistakes, grammatical errors, " +
			"a generic greeting such as 'Dear Customer', and a clearly suspicious sender address. " +
			"The urgency should be exaggerated and unrealistic",
	},
	{
		Label:       "Easy",
		Lower:       200,
		Upper:       400,
		Score:       3,
		Temperature: 0.3,
		Hint: "include a few noticeable red flags: an odd sender domain, one or two typos, " +
			"and pushy urgency, while keeping the overall message mostly coherent",
	},
	{
		Label:       "Medium",
		Lower:       400,
		Upper:       600,
		Score:       5,
		Temperature: 0.4,
		Hint: "be well-written with minor imperfections, use a plausible pretext that creates " +
			"genuine concern, and include a link that looks legitimate at first glance but has " +
			"subtle discrepancies",
	},
	{
		Label:       "Hard",
		Lower:       600,
		Upper:       800,
		Score:       7,
		Temperature: 0.55,
		Hint: "be convincing and professional with no obvious errors, use moderate urgency that " +
			"seems realistic, and rely on subtle indicators such as a near-miss domain or an " +
			"unusual request pattern",
	},
	{
		Label:       "Expert",
		Lower:       800,
		Upper:       MaxSkill,
		Score:       9,
		Temperature: 0.7,
		Hint: "be highly convincing, perfectly personalized with brand-accurate formatting and " +
			"language, create a strong sense of urgency with logical reasoning, and be " +
			"indistinguishable from legitimate communications at first glance",
	},
}

// Classify returns the tier for the given skill rating.
// Skill values outside [0, MaxSkill] are clamped to the nearest bound,
// never rejected. Every in-domain value maps to exactly one tier.
func Classify(skill float64) Tier {
	if skill < 0 {
		skill = 0
	}
	if skill > MaxSkill {
		skill = MaxSkill
	}

	for _, t := range tiers {
		if skill < t.Upper {
			return t
		}
	}
	// skill == MaxSkill falls through: the top band is inclusive of it.
	return tiers[len(tiers)-1]
}

// Tiers returns a copy of the ordered tier table.
func Tiers() []Tier {
	return slices.Clone(tiers)
}
