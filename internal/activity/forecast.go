package activity

import (
	"time"

	"github.com/calder/fishcast/internal/models"
	"github.com/calder/fishcast/internal/moon"
)

// DailyForecastEntry is one scored day of the forward outlook.
type DailyForecastEntry struct {
	Date         time.Time      `json:"date"`
	TempMax      float64        `json:"tempMax"`
	TempMin      float64        `json:"tempMin"`
	Icon         string         `json:"icon"`
	MoonPhase    moon.MoonPhase `json:"moonPhase"`
	FishingScore int            `json:"fishingScore"`
	FishingColor string         `json:"fishingColor"`
}

// ScoreForecast scores each provided day through the same factor pipeline as
// the current conditions. It returns exactly one entry per input day, in the
// order given; missing upstream days are simply not fabricated.
func ScoreForecast(days []models.DailyOutlook, factors []FactorDefinition) ([]DailyForecastEntry, error) {
	entries := make([]DailyForecastEntry, 0, len(days))

	for _, day := range days {
		mp := moon.Calculate(day.Date)
		ctx := FactorContext{
			At:               day.Date,
			PressureBaseline: 0,
			HasBaseline:      true,
			Moon:             mp,
		}

		var scored []ScoredFactor
		for _, def := range factors {
			// Tide predictions don't extend across the outlook; the daily
			// score runs on the weather factors plus moon.
			if def.Key == FactorTide {
				continue
			}
			raw := dailyRawValue(def.Key, day)
			sf, err := ScoreFactor(def, raw, ctx)
			if err != nil {
				return nil, err
			}
			scored = append(scored, sf)
		}

		score, err := Aggregate(scored)
		if err != nil {
			return nil, err
		}

		entries = append(entries, DailyForecastEntry{
			Date:         day.Date,
			TempMax:      day.TempMax,
			TempMin:      day.TempMin,
			Icon:         dailyIcon(day),
			MoonPhase:    mp,
			FishingScore: score.Score,
			FishingColor: score.Color,
		})
	}
	return entries, nil
}

func dailyRawValue(key string, day models.DailyOutlook) float64 {
	switch key {
	case FactorTemperature:
		return (day.TempMax + day.TempMin) / 2
	case FactorWind:
		return day.WindSpeed
	case FactorPressure:
		return day.PressureTrend // delta fed against a zero baseline
	case FactorCloud:
		return float64(day.CloudCover)
	default:
		return 0
	}
}

func dailyIcon(day models.DailyOutlook) string {
	switch {
	case day.CloudCover >= 70:
		return "☁️"
	case day.CloudCover >= 30:
		return "⛅"
	default:
		return "☀️"
	}
}
