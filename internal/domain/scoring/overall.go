package scoring

import (
	"github.com/okian/triage/internal/domain/narrative"
	"github.com/okian/triage/internal/domain/types"
)

type compositeInput struct {
	news2 int
	meows int
}

var compositeRules = []rule[compositeInput]{
	{name: "news2 8 or more", when: func(in compositeInput) bool { return in.news2 >= 8 }, target: types.Critical},
	{name: "news2 6 or more", when: func(in compositeInput) bool { return in.news2 >= 6 }, target: types.High},
	{name: "news2 4 or more", when: func(in compositeInput) bool { return in.news2 >= 4 }, target: types.Moderate},
	{name: "meows 7 or more", when: func(in compositeInput) bool { return in.meows >= 7 }, target: types.Critical},
	{name: "meows 5 or more", when: func(in compositeInput) bool { return in.meows >= 5 }, target: types.High, lowOnly: true},
	{name: "meows 3 or more", when: func(in compositeInput) bool { return in.meows >= 3 }, target: types.Moderate, lowOnly: true},
}

func countTier(tiers []types.Tier, want types.Tier) int {
	n := 0
	for _, t := range tiers {
		if t == want {
			n++
		}
	}
	return n
}

// ResolveOverall combines the subsystem tiers with the NEWS2 and MEOWS
// composites. A single critical subsystem is capped at High unless a
// composite score is also elevated, and a Critical result with mild
// composites is held at High.
func ResolveOverall(subsystems []types.Tier, news2, meows int) types.Tier {
	in := compositeInput{news2: news2, meows: meows}
	tier := fold(compositeRules, in)
	elevated := news2 >= 6 || meows >= 5

	switch n := countTier(subsystems, types.Critical); {
	case n >= 2:
		tier = types.Critical
	case n == 1 && elevated:
		tier = types.Critical
	case n == 1:
		tier = types.High
	}

	if countTier(subsystems, types.Low) == len(subsystems) && news2 < 4 && meows < 3 {
		tier = types.Low
	}
	if tier == types.Critical && !elevated {
		tier = types.High
	}
	return tier
}

// EscalateForNarrative raises tier from the narrative score. A score in
// the high band moves it one step; a moderate score only lifts Low.
func EscalateForNarrative(tier types.Tier, score int) types.Tier {
	switch {
	case score >= narrative.BandHigh:
		return tier.Escalate()
	case score >= narrative.BandModerate && tier == types.Low:
		return types.Moderate
	default:
		return tier
	}
}
