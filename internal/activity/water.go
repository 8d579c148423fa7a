package activity

import (
	"time"
)

// Season is a meteorological season.
type Season string

const (
	Winter Season = "winter"
	Spring Season = "spring"
	Summer Season = "summer"
	Autumn Season = "autumn"
)

// seasonalOffset captures thermal lag: water trails air through the year, so
// it sits below air temp in spring (still shedding winter cold) and above it
// in autumn (still holding summer heat). The magnitudes are tunable; the
// hysteresis shape is the point.
var seasonalOffset = map[Season]float64{
	Winter: -2,
	Spring: -3,
	Summer: 1,
	Autumn: 2,
}

// WaterTemperature is an observed or estimated water temperature.
type WaterTemperature struct {
	Temperature float64 `json:"temperature"` // °C
	IsRealData  bool    `json:"isRealData"`
	Season      Season  `json:"season"`
}

// SeasonForDate maps a date and hemisphere onto a meteorological season.
// Southern-hemisphere latitudes get the flipped calendar.
func SeasonForDate(t time.Time, latitude float64) Season {
	var s Season
	switch t.Month() {
	case time.December, time.January, time.February:
		s = Winter
	case time.March, time.April, time.May:
		s = Spring
	case time.June, time.July, time.August:
		s = Summer
	default:
		s = Autumn
	}
	if latitude < 0 {
		switch s {
		case Winter:
			return Summer
		case Spring:
			return Autumn
		case Summer:
			return Winter
		case Autumn:
			return Spring
		}
	}
	return s
}

// EstimateWaterTemperature derives a water temperature from air temperature
// and season using the lag offsets above.
func EstimateWaterTemperature(airTempC float64, season Season) WaterTemperature {
	return WaterTemperature{
		Temperature: airTempC + seasonalOffset[season],
		IsRealData:  false,
		Season:      season,
	}
}

// ObservedWaterTemperature wraps a real sensor reading unchanged.
func ObservedWaterTemperature(tempC float64, season Season) WaterTemperature {
	return WaterTemperature{
		Temperature: tempC,
		IsRealData:  true,
		Season:      season,
	}
}
