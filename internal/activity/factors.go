package activity

import (
	"errors"
	"fmt"
	"math"
)

// Factor keys. The scorer switches on these; anything else is rejected.
const (
	FactorTemperature = "temperature"
	FactorWind        = "wind"
	FactorPressure    = "pressure"
	FactorCloud       = "cloud"
	FactorMoon        = "moon"
	FactorTide        = "tide"
)

var (
	ErrUnknownFactor  = errors.New("unknown factor key")
	ErrInvalidWeight  = errors.New("factor weight must be in (0, 1]")
	ErrNoFactors      = errors.New("no factors to aggregate")
	ErrBadCoordinates = errors.New("coordinates out of range")
	ErrBadDate        = errors.New("invalid date")
)

// FactorDefinition describes one scoring input and its relative weight.
// Definitions are immutable configuration passed explicitly into each call;
// the engine keeps no shared mutable factor state.
type FactorDefinition struct {
	Key         string  `json:"key"`
	Name        string  `json:"name"`
	Icon        string  `json:"icon"`
	Weight      float64 `json:"weight"`
	Description string  `json:"description"`
}

// DefaultFactors returns the standard factor table. Weights sum to 1.0 with
// the tide factor included; ApplicableFactors redistributes for inland spots.
func DefaultFactors() []FactorDefinition {
	return []FactorDefinition{
		{Key: FactorTemperature, Name: "Temperature", Icon: "🌡️", Weight: 0.25,
			Description: "Air temperature near the 15-25°C band fish feed in"},
		{Key: FactorPressure, Name: "Pressure Trend", Icon: "📉", Weight: 0.20,
			Description: "Falling barometric pressure ahead of a front triggers feeding"},
		{Key: FactorWind, Name: "Wind", Icon: "💨", Weight: 0.15,
			Description: "A light ripple feeds fish; flat calm or a gale does not"},
		{Key: FactorMoon, Name: "Moon Phase", Icon: "🌙", Weight: 0.15,
			Description: "Solunar activity peaks around new and full moon"},
		{Key: FactorTide, Name: "Tide", Icon: "🌊", Weight: 0.15,
			Description: "Moving water around tide changes concentrates bait"},
		{Key: FactorCloud, Name: "Cloud Cover", Icon: "☁️", Weight: 0.10,
			Description: "Overcast skies give fish confidence to feed shallow"},
	}
}

// ApplicableFactors filters the table for a location and renormalizes the
// remaining weights to sum to 1. Inland spots drop the tide factor and its
// weight is spread proportionally across the rest.
func ApplicableFactors(defs []FactorDefinition, coastal bool) ([]FactorDefinition, error) {
	var kept []FactorDefinition
	total := 0.0
	for _, d := range defs {
		if d.Weight <= 0 || d.Weight > 1 {
			return nil, fmt.Errorf("%w: %s has weight %g", ErrInvalidWeight, d.Key, d.Weight)
		}
		if d.Key == FactorTide && !coastal {
			continue
		}
		kept = append(kept, d)
		total += d.Weight
	}
	if len(kept) == 0 {
		return nil, ErrNoFactors
	}

	if math.Abs(total-1) > 1e-6 {
		for i := range kept {
			kept[i].Weight /= total
		}
	}
	return kept, nil
}
