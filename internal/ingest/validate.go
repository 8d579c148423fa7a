package ingest

import (
	"github.com/calder/fishcast/internal/models"
)

const (
	FlagTempOutOfRange     = "temp_out_of_range"
	FlagPressureOutOfRange = "pressure_out_of_range"
	FlagWindSpeedUnlikely  = "wind_speed_unlikely"
	FlagCloudCoverInvalid  = "cloud_cover_invalid"
	FlagSunTimesMissing    = "sun_times_missing"
	FlagHourlySparse       = "hourly_sparse"
)

// ValidateSnapshot flags implausible upstream values before a snapshot is
// scored or cached. Flags are advisory; the scheduler logs them and skips
// snapshots with hard problems (missing sun times).
func ValidateSnapshot(snap *models.Snapshot) []string {
	var flags []string

	if snap.Current.Temperature < -60 || snap.Current.Temperature > 60 {
		flags = append(flags, FlagTempOutOfRange)
	}
	if snap.Current.Pressure != 0 && (snap.Current.Pressure < 870 || snap.Current.Pressure > 1100) {
		flags = append(flags, FlagPressureOutOfRange)
	}
	if snap.Current.WindSpeed < 0 || snap.Current.WindSpeed > 250 {
		flags = append(flags, FlagWindSpeedUnlikely)
	}
	if snap.Current.CloudCover < 0 || snap.Current.CloudCover > 100 {
		flags = append(flags, FlagCloudCoverInvalid)
	}
	if snap.Today.Sunrise.IsZero() || snap.Today.Sunset.IsZero() {
		flags = append(flags, FlagSunTimesMissing)
	}
	if len(snap.Hourly) < 12 {
		flags = append(flags, FlagHourlySparse)
	}

	return flags
}

// HasHardFailure reports whether the flags include one that should block
// scoring entirely rather than degrade it.
func HasHardFailure(flags []string) bool {
	for _, f := range flags {
		if f == FlagSunTimesMissing || f == FlagTempOutOfRange {
			return true
		}
	}
	return false
}
