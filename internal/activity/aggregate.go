package activity

import (
	"fmt"
	"math"
	"sort"
)

// ActivityScore is the composite fishing recommendation for one moment or day.
type ActivityScore struct {
	Score   int            `json:"score"`
	Tier    QualityTier    `json:"-"`
	Label   string         `json:"label"`
	Color   string         `json:"color"`
	Factors []ScoredFactor `json:"factors"` // ordered by descending weight
}

// Aggregate combines scored factors into a composite 0-100 score. Weights are
// renormalized over the factors actually present, so a factor set with tide
// dropped still sums to 1. Factors come back sorted by weight descending so
// callers can render the top N without re-sorting.
func Aggregate(factors []ScoredFactor) (ActivityScore, error) {
	if len(factors) == 0 {
		return ActivityScore{}, ErrNoFactors
	}

	totalWeight := 0.0
	for _, f := range factors {
		if f.Definition.Weight <= 0 || f.Definition.Weight > 1 {
			return ActivityScore{}, fmt.Errorf("%w: %s has weight %g",
				ErrInvalidWeight, f.Definition.Key, f.Definition.Weight)
		}
		totalWeight += f.Definition.Weight
	}

	weighted := 0.0
	for _, f := range factors {
		weighted += float64(f.Score) * f.Definition.Weight
	}
	score := clampScore(weighted / totalWeight)

	ordered := make([]ScoredFactor, len(factors))
	copy(ordered, factors)
	sort.SliceStable(ordered, func(i, j int) bool {
		wi, wj := ordered[i].Definition.Weight, ordered[j].Definition.Weight
		if math.Abs(wi-wj) > 1e-9 {
			return wi > wj
		}
		return ordered[i].Definition.Key < ordered[j].Definition.Key
	})

	tier := TierForScore(score)
	return ActivityScore{
		Score:   score,
		Tier:    tier,
		Label:   tier.String(),
		Color:   tier.Color(),
		Factors: ordered,
	}, nil
}
