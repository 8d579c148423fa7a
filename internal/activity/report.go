package activity

import (
	"fmt"
	"time"

	"github.com/calder/fishcast/internal/models"
	"github.com/calder/fishcast/internal/moon"
)

// Report is the full engine output: everything the UI layer renders.
type Report struct {
	Current          models.Current       `json:"current"`
	Today            models.SunTimes      `json:"today"`
	FishingActivity  ActivityScore        `json:"fishingActivity"`
	MoonPhase        moon.MoonPhase       `json:"moonPhase"`
	BestTimes        []TimeWindow         `json:"bestTimes"`
	Forecast         []DailyForecastEntry `json:"forecast"`
	WaterTemperature WaterTemperature     `json:"waterTemperature"`
}

// BuildReport runs the whole engine over one snapshot: per-factor scoring,
// aggregation, best time windows, the daily outlook, and the water
// temperature estimate. It is a pure function of (now, snapshot, defs) and
// is safe to call concurrently.
func BuildReport(now time.Time, snap models.Snapshot, defs []FactorDefinition) (*Report, error) {
	if err := validateLocation(snap.Location); err != nil {
		return nil, err
	}
	if now.IsZero() {
		return nil, fmt.Errorf("%w: zero time", ErrBadDate)
	}

	// A coastal spot with no tide predictions degrades to the inland factor
	// set rather than failing: the tide factor is absent from the output and
	// its weight redistributed.
	haveTides := snap.Location.IsCoastal && len(snap.Tides) > 0
	factors, err := ApplicableFactors(defs, haveTides)
	if err != nil {
		return nil, err
	}

	mp := moon.Calculate(now)

	ctx := FactorContext{
		At:    now,
		Tides: snap.Tides,
		Moon:  mp,
	}
	ctx.PressureBaseline, ctx.HasBaseline = pressureBaseline(snap.Hourly, now, snap.Current.Pressure)

	var scored []ScoredFactor
	for _, def := range factors {
		sf, err := ScoreFactor(def, currentRawValue(def.Key, snap.Current), ctx)
		if err != nil {
			return nil, err
		}
		scored = append(scored, sf)
	}
	composite, err := Aggregate(scored)
	if err != nil {
		return nil, err
	}

	hourScores, err := scoreHours(snap, factors, mp)
	if err != nil {
		return nil, err
	}
	best := BestTimeWindows(hourScores, snap.Today.Sunrise, snap.Today.Sunset)

	forecast, err := ScoreForecast(snap.Daily, factors)
	if err != nil {
		return nil, err
	}

	return &Report{
		Current:          snap.Current,
		Today:            snap.Today,
		FishingActivity:  composite,
		MoonPhase:        mp,
		BestTimes:        best,
		Forecast:         forecast,
		WaterTemperature: waterTemperature(now, snap),
	}, nil
}

func validateLocation(loc models.Location) error {
	if loc.Latitude < -90 || loc.Latitude > 90 || loc.Longitude < -180 || loc.Longitude > 180 {
		return fmt.Errorf("%w: lat=%g lon=%g", ErrBadCoordinates, loc.Latitude, loc.Longitude)
	}
	return nil
}

func currentRawValue(key string, cur models.Current) float64 {
	switch key {
	case FactorTemperature:
		return cur.Temperature
	case FactorWind:
		return cur.WindSpeed
	case FactorPressure:
		return cur.Pressure
	case FactorCloud:
		return float64(cur.CloudCover)
	default:
		return 0
	}
}

// pressureBaseline averages the hourly readings 2-4 hours before the scored
// instant. Without enough history the trend is treated as stable.
func pressureBaseline(hours []models.HourlyObservation, at time.Time, fallback float64) (float64, bool) {
	sum, n := 0.0, 0
	for _, h := range hours {
		age := at.Sub(h.Time)
		if age >= 2*time.Hour && age <= 4*time.Hour && h.Pressure > 0 {
			sum += h.Pressure
			n++
		}
	}
	if n == 0 {
		return fallback, fallback > 0
	}
	return sum / float64(n), true
}

// scoreHours runs the aggregator once per hour of the day so the window
// finder has a real score series to rank.
func scoreHours(snap models.Snapshot, factors []FactorDefinition, mp moon.MoonPhase) ([]HourScore, error) {
	scores := make([]HourScore, 0, len(snap.Hourly))
	for _, h := range snap.Hourly {
		ctx := FactorContext{
			At:    h.Time,
			Tides: snap.Tides,
			Moon:  mp,
		}
		ctx.PressureBaseline, ctx.HasBaseline = pressureBaseline(snap.Hourly, h.Time, h.Pressure)

		var scored []ScoredFactor
		for _, def := range factors {
			raw := hourlyRawValue(def.Key, h)
			sf, err := ScoreFactor(def, raw, ctx)
			if err != nil {
				return nil, err
			}
			scored = append(scored, sf)
		}
		agg, err := Aggregate(scored)
		if err != nil {
			return nil, err
		}
		scores = append(scores, HourScore{Time: h.Time, Score: agg.Score})
	}
	return scores, nil
}

func hourlyRawValue(key string, h models.HourlyObservation) float64 {
	switch key {
	case FactorTemperature:
		return h.Temperature
	case FactorWind:
		return h.WindSpeed
	case FactorPressure:
		return h.Pressure
	case FactorCloud:
		return float64(h.CloudCover)
	default:
		return 0
	}
}

func waterTemperature(now time.Time, snap models.Snapshot) WaterTemperature {
	season := SeasonForDate(now, snap.Location.Latitude)
	if snap.WaterTemp != nil {
		return ObservedWaterTemperature(*snap.WaterTemp, season)
	}

	// Smooth the day's air temperature rather than chasing the latest reading.
	air := snap.Current.Temperature
	if len(snap.Hourly) > 0 {
		sum := 0.0
		for _, h := range snap.Hourly {
			sum += h.Temperature
		}
		air = sum / float64(len(snap.Hourly))
	}
	return EstimateWaterTemperature(air, season)
}
