package ingest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/calder/fishcast/internal/models"
)

func forecastFixture() string {
	hours := make([]string, 0, 48)
	temps := make([]string, 0, 48)
	winds := make([]string, 0, 48)
	pressures := make([]string, 0, 48)
	clouds := make([]string, 0, 48)
	for d := 0; d < 2; d++ {
		for h := 0; h < 24; h++ {
			hours = append(hours, fmt.Sprintf(`"2024-06-0%dT%02d:00"`, d+1, h))
			temps = append(temps, "18.5")
			winds = append(winds, "12.0")
			pressures = append(pressures, fmt.Sprintf("%d", 1014-d))
			clouds = append(clouds, "55")
		}
	}
	return fmt.Sprintf(`{
		"current": {
			"time": "2024-06-01T10:00",
			"temperature_2m": 19.2,
			"apparent_temperature": 18.4,
			"relative_humidity_2m": 64,
			"surface_pressure": 1013.5,
			"wind_speed_10m": 11.0,
			"wind_direction_10m": 225,
			"cloud_cover": 60,
			"weather_code": 2
		},
		"hourly": {
			"time": [%s],
			"temperature_2m": [%s],
			"wind_speed_10m": [%s],
			"surface_pressure": [%s],
			"cloud_cover": [%s]
		},
		"daily": {
			"time": ["2024-06-01", "2024-06-02"],
			"temperature_2m_max": [22.0, 24.0],
			"temperature_2m_min": [12.0, 13.0],
			"wind_speed_10m_max": [18.0, 20.0],
			"cloud_cover_mean": [50, 75],
			"sunrise": ["2024-06-01T05:12", "2024-06-02T05:11"],
			"sunset": ["2024-06-01T21:04", "2024-06-02T21:05"]
		}
	}`,
		strings.Join(hours, ","), strings.Join(temps, ","), strings.Join(winds, ","),
		strings.Join(pressures, ","), strings.Join(clouds, ","))
}

func testSpot() models.Spot {
	return models.Spot{Name: "Test Lake", Latitude: 47.6, Longitude: -122.3}
}

func TestFetchSnapshot_Normalizes(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("timezone"); got != "UTC" {
			t.Errorf("timezone param = %q, want UTC", got)
		}
		fmt.Fprint(w, forecastFixture())
	}))
	defer ts.Close()

	snap, err := NewWeatherClientWithBase(ts.URL).FetchSnapshot(testSpot())
	if err != nil {
		t.Fatal(err)
	}

	if snap.Current.Temperature != 19.2 {
		t.Errorf("Temperature = %v, want 19.2", snap.Current.Temperature)
	}
	if snap.Current.Condition != "Partly Cloudy" {
		t.Errorf("Condition = %q, want Partly Cloudy", snap.Current.Condition)
	}
	if snap.Current.WindDirection != 225 {
		t.Errorf("WindDirection = %d, want 225", snap.Current.WindDirection)
	}

	wantSunrise := time.Date(2024, 6, 1, 5, 12, 0, 0, time.UTC)
	if !snap.Today.Sunrise.Equal(wantSunrise) {
		t.Errorf("Sunrise = %v, want %v", snap.Today.Sunrise, wantSunrise)
	}

	if len(snap.Hourly) != 24 {
		t.Fatalf("Hourly = %d entries, want 24 (first day only)", len(snap.Hourly))
	}
	if snap.Hourly[3].Pressure != 1014 {
		t.Errorf("hourly pressure = %v, want 1014", snap.Hourly[3].Pressure)
	}

	if len(snap.Daily) != 2 {
		t.Fatalf("Daily = %d entries, want 2", len(snap.Daily))
	}
	if snap.Daily[1].TempMax != 24 || snap.Daily[1].CloudCover != 75 {
		t.Errorf("Daily[1] = %+v", snap.Daily[1])
	}

	if snap.Location.Latitude != 47.6 {
		t.Errorf("Location.Latitude = %v", snap.Location.Latitude)
	}
}

func TestFetchSnapshot_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer ts.Close()

	if _, err := NewWeatherClientWithBase(ts.URL).FetchSnapshot(testSpot()); err == nil {
		t.Fatal("expected error for 400 response")
	}
}

func TestFetchSnapshot_MissingDaily(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"current": {"temperature_2m": 20}}`)
	}))
	defer ts.Close()

	if _, err := NewWeatherClientWithBase(ts.URL).FetchSnapshot(testSpot()); err == nil {
		t.Fatal("expected error for response without daily block")
	}
}

func TestFetchPredictions_ParsesHiLo(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("interval"); got != "hilo" {
			t.Errorf("interval param = %q, want hilo", got)
		}
		fmt.Fprint(w, `{"predictions": [
			{"t": "2024-06-01 04:32", "v": "2.103", "type": "H"},
			{"t": "2024-06-01 11:18", "v": "0.214", "type": "L"},
			{"t": "2024-06-01 17:05", "v": "1.987", "type": "H"}
		]}`)
	}))
	defer ts.Close()

	events, err := NewTideClientWithBase(ts.URL).FetchPredictions("9447130", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].Type != models.TideHigh || events[1].Type != models.TideLow {
		t.Errorf("tide types = %v %v", events[0].Type, events[1].Type)
	}
	want := time.Date(2024, 6, 1, 4, 32, 0, 0, time.UTC)
	if !events[0].Time.Equal(want) {
		t.Errorf("event time = %v, want %v", events[0].Time, want)
	}
	if events[0].Height != 2.103 {
		t.Errorf("event height = %v, want 2.103", events[0].Height)
	}
}

func TestDayPressureTrend(t *testing.T) {
	pressures := make([]float64, 48)
	for i := range pressures {
		pressures[i] = 1015
	}
	pressures[15] = 1012 // day 0: 15:00 reading 3 hPa below noon

	if got := dayPressureTrend(pressures, 0); got != -3 {
		t.Errorf("day 0 trend = %v, want -3", got)
	}
	if got := dayPressureTrend(pressures, 1); got != 0 {
		t.Errorf("day 1 trend = %v, want 0", got)
	}
	// Day beyond the series falls back to 0 instead of panicking.
	if got := dayPressureTrend(pressures, 5); got != 0 {
		t.Errorf("out-of-range trend = %v, want 0", got)
	}
}

func TestValidateSnapshot(t *testing.T) {
	good := &models.Snapshot{
		Current: models.Current{Temperature: 18, Pressure: 1013, WindSpeed: 10, CloudCover: 50},
		Today: models.SunTimes{
			Sunrise: time.Date(2024, 6, 1, 5, 0, 0, 0, time.UTC),
			Sunset:  time.Date(2024, 6, 1, 21, 0, 0, 0, time.UTC),
		},
		Hourly: make([]models.HourlyObservation, 24),
	}
	if flags := ValidateSnapshot(good); len(flags) != 0 {
		t.Errorf("good snapshot flagged: %v", flags)
	}

	bad := &models.Snapshot{
		Current: models.Current{Temperature: 80, Pressure: 600, WindSpeed: 300, CloudCover: 120},
	}
	flags := ValidateSnapshot(bad)
	for _, want := range []string{FlagTempOutOfRange, FlagPressureOutOfRange, FlagWindSpeedUnlikely, FlagCloudCoverInvalid, FlagSunTimesMissing, FlagHourlySparse} {
		found := false
		for _, f := range flags {
			if f == want {
				found = true
			}
		}
		if !found {
			t.Errorf("missing flag %s in %v", want, flags)
		}
	}
	if !HasHardFailure(flags) {
		t.Error("expected hard failure for out-of-range temperature")
	}

	soft := &models.Snapshot{
		Current: models.Current{Temperature: 18, Pressure: 1013, WindSpeed: 10, CloudCover: 50},
		Today: models.SunTimes{
			Sunrise: time.Date(2024, 6, 1, 5, 0, 0, 0, time.UTC),
			Sunset:  time.Date(2024, 6, 1, 21, 0, 0, 0, time.UTC),
		},
		Hourly: make([]models.HourlyObservation, 6),
	}
	if HasHardFailure(ValidateSnapshot(soft)) {
		t.Error("sparse hourly data should degrade, not block")
	}
}

func TestWMOCondition(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "Clear"},
		{2, "Partly Cloudy"},
		{3, "Overcast"},
		{45, "Fog"},
		{53, "Drizzle"},
		{63, "Rain"},
		{73, "Snow"},
		{81, "Showers"},
		{95, "Thunderstorm"},
	}
	for _, tt := range tests {
		got, icon := wmoCondition(tt.code)
		if got != tt.want {
			t.Errorf("code %d = %q, want %q", tt.code, got, tt.want)
		}
		if icon == "" {
			t.Errorf("code %d has no icon", tt.code)
		}
	}
}
