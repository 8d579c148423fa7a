package activity

import (
	"fmt"
	"math"
	"time"

	"github.com/calder/fishcast/internal/models"
	"github.com/calder/fishcast/internal/moon"
)

// Temperature curve: full score on the 15-25°C plateau, linear decay to zero
// at ±20°C from the band center.
const (
	tempIdealLow    = 15.0
	tempIdealHigh   = 25.0
	tempZeroSpread  = 20.0 // degrees from band center where the score hits 0
	windOptimalLow  = 5.0  // km/h
	windOptimalHigh = 20.0
)

// FactorContext carries the ancillary inputs some factors need beyond their
// raw value: the pressure baseline for trend detection, tide predictions and
// the instant being scored, and the day's lunar state.
type FactorContext struct {
	At               time.Time
	PressureBaseline float64 // mean pressure ~3h before At, hPa
	HasBaseline      bool
	Tides            []models.TideEvent
	Moon             moon.MoonPhase
}

// ScoredFactor is one factor's contribution to a computation. Immutable once
// produced; ownership stays with the Aggregate call that requested it.
type ScoredFactor struct {
	Definition FactorDefinition `json:"definition"`
	RawValue   float64          `json:"rawValue"`
	Score      int              `json:"score"`
	Status     QualityTier      `json:"status"`
	StatusText string           `json:"statusText"`
	Color      string           `json:"color"`
}

// ScoreFactor normalizes one raw observation into a 0-100 sub-score using
// the curve for the definition's key.
func ScoreFactor(def FactorDefinition, rawValue float64, ctx FactorContext) (ScoredFactor, error) {
	var score float64
	switch def.Key {
	case FactorTemperature:
		score = scoreTemperature(rawValue)
	case FactorWind:
		score = scoreWind(rawValue)
	case FactorPressure:
		delta := 0.0
		if ctx.HasBaseline {
			delta = rawValue - ctx.PressureBaseline
		}
		score = scorePressureTrend(delta)
	case FactorCloud:
		score = scoreCloudCover(rawValue)
	case FactorMoon:
		score = float64(ctx.Moon.FishingImpact)
		rawValue = ctx.Moon.Illumination
	case FactorTide:
		score = scoreTide(ctx.At, ctx.Tides)
	default:
		return ScoredFactor{}, fmt.Errorf("%w: %q", ErrUnknownFactor, def.Key)
	}

	s := clampScore(score)
	tier := TierForScore(s)
	return ScoredFactor{
		Definition: def,
		RawValue:   rawValue,
		Score:      s,
		Status:     tier,
		StatusText: tier.String(),
		Color:      tier.Color(),
	}, nil
}

// scoreTemperature is a plateau-topped bell: 100 inside the ideal band,
// decaying linearly to 0 at tempZeroSpread degrees from the band center.
func scoreTemperature(tempC float64) float64 {
	center := (tempIdealLow + tempIdealHigh) / 2
	halfBand := (tempIdealHigh - tempIdealLow) / 2
	dist := math.Abs(tempC-center) - halfBand
	if dist <= 0 {
		return 100
	}
	span := tempZeroSpread - halfBand
	return 100 * (1 - dist/span)
}

// scoreWind favours a light chop. Dead calm leaves the water flat and clear,
// strong wind makes it unfishable.
func scoreWind(kmh float64) float64 {
	switch {
	case kmh < 0:
		return 0
	case kmh < windOptimalLow:
		return 40 + 12*kmh
	case kmh <= windOptimalHigh:
		return 100
	default:
		return 100 - 4*(kmh-windOptimalHigh)
	}
}

// pressureCurve maps the ~3h pressure delta (hPa) onto a score. Falling
// pressure ahead of a front scores high, sharply rising pressure low.
var pressureCurve = []struct {
	delta, score float64
}{
	{-3, 100},
	{-1, 70},
	{1, 60},
	{3, 30},
	{5, 20},
}

func scorePressureTrend(delta float64) float64 {
	first, last := pressureCurve[0], pressureCurve[len(pressureCurve)-1]
	if delta <= first.delta {
		return first.score
	}
	if delta >= last.delta {
		return last.score
	}
	for i := 1; i < len(pressureCurve); i++ {
		a, b := pressureCurve[i-1], pressureCurve[i]
		if delta <= b.delta {
			frac := (delta - a.delta) / (b.delta - a.delta)
			return a.score + frac*(b.score-a.score)
		}
	}
	return last.score
}

// scoreCloudCover rises monotonically with cover: overcast skies score best.
func scoreCloudCover(pct float64) float64 {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return 30 + 0.7*pct
}

// scoreTide peaks near high/low tide events (moving water) and troughs midway
// between them. With no predictions available it returns a neutral score; the
// caller should normally have dropped the factor instead.
func scoreTide(at time.Time, tides []models.TideEvent) float64 {
	if len(tides) == 0 {
		return 50
	}
	nearest := math.Inf(1)
	for _, ev := range tides {
		if h := math.Abs(ev.Time.Sub(at).Hours()); h < nearest {
			nearest = h
		}
	}
	if nearest > 3 {
		nearest = 3
	}
	return 100 - nearest/3*70
}

func clampScore(s float64) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return int(math.Round(s))
}
