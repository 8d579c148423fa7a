package activity

// QualityTier is the shared five-band rating used for factor sub-scores,
// the composite activity score, and time window quality.
type QualityTier int

const (
	TierBad QualityTier = iota
	TierPoor
	TierFair
	TierGood
	TierExcellent
)

// TierForScore maps a 0-100 score onto a tier. Boundaries are fixed:
// 80+ Excellent, 60+ Good, 40+ Fair, 20+ Poor, below 20 Bad.
func TierForScore(score int) QualityTier {
	switch {
	case score >= 80:
		return TierExcellent
	case score >= 60:
		return TierGood
	case score >= 40:
		return TierFair
	case score >= 20:
		return TierPoor
	default:
		return TierBad
	}
}

func (q QualityTier) String() string {
	switch q {
	case TierExcellent:
		return "Excellent"
	case TierGood:
		return "Good"
	case TierFair:
		return "Fair"
	case TierPoor:
		return "Poor"
	default:
		return "Bad"
	}
}

// Color returns the display color for the tier.
func (q QualityTier) Color() string {
	switch q {
	case TierExcellent:
		return "#4ecdc4"
	case TierGood:
		return "#4fc3f7"
	case TierFair:
		return "#ffd54f"
	case TierPoor:
		return "#ff7043"
	default:
		return "#ef5350"
	}
}
