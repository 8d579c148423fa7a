package models

import (
	"time"
)

// Spot is a configured fishing location.
type Spot struct {
	ID          int64
	Name        string
	Latitude    float64
	Longitude   float64
	IsCoastal   bool
	TideStation string // NOAA CO-OPS station ID, empty for inland spots
	Active      bool
}

// Current holds the latest observed conditions at a spot.
type Current struct {
	Temperature   float64 `json:"temperature"`
	FeelsLike     float64 `json:"feelsLike"`
	Humidity      int     `json:"humidity"`
	Pressure      float64 `json:"pressure"`
	WindSpeed     float64 `json:"windSpeed"`
	WindDirection int     `json:"windDirection"`
	CloudCover    int     `json:"cloudCover"`
	Condition     string  `json:"condition"`
	Icon          string  `json:"icon"`
}

// SunTimes holds today's sunrise and sunset.
type SunTimes struct {
	Sunrise time.Time `json:"sunrise"`
	Sunset  time.Time `json:"sunset"`
}

// HourlyObservation is one hour of the current day's conditions.
type HourlyObservation struct {
	Time        time.Time `json:"time"`
	Temperature float64   `json:"temperature"`
	WindSpeed   float64   `json:"windSpeed"`
	Pressure    float64   `json:"pressure"`
	CloudCover  int       `json:"cloudCover"`
}

// DailyOutlook summarizes one forecast day.
type DailyOutlook struct {
	Date          time.Time `json:"date"`
	TempMax       float64   `json:"tempMax"`
	TempMin       float64   `json:"tempMin"`
	WindSpeed     float64   `json:"windSpeed"`
	CloudCover    int       `json:"cloudCover"`
	PressureTrend float64   `json:"pressureTrend"` // hPa change over ~3h, negative = falling
}

// Location identifies where a snapshot was taken.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	IsCoastal bool    `json:"isCoastal"`
}

// TideType marks a tide extreme as high or low.
type TideType string

const (
	TideHigh TideType = "H"
	TideLow  TideType = "L"
)

// TideEvent is a single predicted high or low tide.
type TideEvent struct {
	Time   time.Time `json:"time"`
	Type   TideType  `json:"type"`
	Height float64   `json:"height"` // metres relative to MLLW
}

// Snapshot is the normalized weather payload the scoring engine consumes.
// The ingest layer produces it; the engine never fetches anything itself.
type Snapshot struct {
	Current   Current             `json:"current"`
	Today     SunTimes            `json:"today"`
	Hourly    []HourlyObservation `json:"hourly"`
	Daily     []DailyOutlook      `json:"daily"`
	Location  Location            `json:"location"`
	Tides     []TideEvent         `json:"tides,omitempty"`
	WaterTemp *float64            `json:"waterTemperature,omitempty"` // real sensor reading, °C
}
