package moon

import (
	"math"
	"time"
)

// SynodicMonth is the mean period between successive new moons, in days.
const SynodicMonth = 29.530588853

// Reference new moon: January 6, 2000 18:14 UTC.
var referenceNewMoon = time.Date(2000, 1, 6, 18, 14, 0, 0, time.UTC)

// Phase is one of the 8 named lunar phases.
type Phase int

const (
	NewMoon Phase = iota
	WaxingCrescent
	FirstQuarter
	WaxingGibbous
	FullMoon
	WaningGibbous
	LastQuarter
	WaningCrescent
)

func (p Phase) String() string {
	switch p {
	case NewMoon:
		return "New Moon"
	case WaxingCrescent:
		return "Waxing Crescent"
	case FirstQuarter:
		return "First Quarter"
	case WaxingGibbous:
		return "Waxing Gibbous"
	case FullMoon:
		return "Full Moon"
	case WaningGibbous:
		return "Waning Gibbous"
	case LastQuarter:
		return "Last Quarter"
	case WaningCrescent:
		return "Waning Crescent"
	}
	return "Moon"
}

// Emoji returns the unicode moon glyph for the phase.
func (p Phase) Emoji() string {
	switch p {
	case NewMoon:
		return "🌑"
	case WaxingCrescent:
		return "🌒"
	case FirstQuarter:
		return "🌓"
	case WaxingGibbous:
		return "🌔"
	case FullMoon:
		return "🌕"
	case WaningGibbous:
		return "🌖"
	case LastQuarter:
		return "🌗"
	case WaningCrescent:
		return "🌘"
	}
	return "🌙"
}

// FishingImpact rates how favourable the phase is for fish activity (0-100).
// Solunar theory: feeding peaks around new and full moon, quarters are
// moderate, crescent/gibbous phases are quiet. Heuristic, not a prediction.
func (p Phase) FishingImpact() int {
	switch p {
	case NewMoon:
		return 95
	case FullMoon:
		return 90
	case FirstQuarter:
		return 70
	case LastQuarter:
		return 65
	case WaxingGibbous:
		return 55
	case WaxingCrescent:
		return 50
	case WaningGibbous:
		return 50
	case WaningCrescent:
		return 45
	}
	return 50
}

// MoonPhase is the computed lunar state for a date.
type MoonPhase struct {
	Phase         Phase   `json:"phase"`
	Name          string  `json:"name"`
	Illumination  float64 `json:"illumination"`  // 0-100%
	FishingImpact int     `json:"fishingImpact"` // 0-100
	Emoji         string  `json:"emoji"`
}

// Age returns days since the last new moon, in [0, SynodicMonth).
// All arithmetic is done on the UTC instant so results do not depend on the
// zone attached to t.
func Age(t time.Time) float64 {
	days := t.UTC().Sub(referenceNewMoon).Hours() / 24
	age := math.Mod(days, SynodicMonth)
	if age < 0 {
		age += SynodicMonth
	}
	return age
}

// Illumination returns the approximate lit fraction of the disk as a
// percentage: 0 at new moon, 100 at full, following a cosine curve.
func Illumination(t time.Time) float64 {
	angle := (Age(t) / SynodicMonth) * 2 * math.Pi
	return (1 - math.Cos(angle)) / 2 * 100
}

// Calculate returns the full lunar state for a date. The cycle is divided
// into 8 equal buckets of ~3.69 days each.
func Calculate(t time.Time) MoonPhase {
	age := Age(t)

	bucket := int((age / SynodicMonth) * 8)
	if bucket > 7 {
		bucket = 7
	}
	phase := Phase(bucket)

	return MoonPhase{
		Phase:         phase,
		Name:          phase.String(),
		Illumination:  Illumination(t),
		FishingImpact: phase.FishingImpact(),
		Emoji:         phase.Emoji(),
	}
}
