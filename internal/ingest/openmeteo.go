package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/calder/fishcast/internal/httputil"
	"github.com/calder/fishcast/internal/metrics"
	"github.com/calder/fishcast/internal/models"
)

const openMeteoBase = "https://api.open-meteo.com/v1/forecast"

// Open-Meteo returns times as local-less strings when timezone=UTC.
const openMeteoTimeLayout = "2006-01-02T15:04"

// WeatherClient fetches forecasts from Open-Meteo and normalizes them into
// the engine's snapshot shape.
type WeatherClient struct {
	baseURL string
	client  *http.Client
}

func NewWeatherClient() *WeatherClient {
	return &WeatherClient{
		baseURL: openMeteoBase,
		client:  httputil.NewClient(),
	}
}

// NewWeatherClientWithBase is used by tests to point at a stub server.
func NewWeatherClientWithBase(baseURL string) *WeatherClient {
	return &WeatherClient{
		baseURL: baseURL,
		client:  httputil.NewClient(),
	}
}

type forecastResponse struct {
	Current struct {
		Time                string  `json:"time"`
		Temperature         float64 `json:"temperature_2m"`
		ApparentTemperature float64 `json:"apparent_temperature"`
		Humidity            int     `json:"relative_humidity_2m"`
		Pressure            float64 `json:"surface_pressure"`
		WindSpeed           float64 `json:"wind_speed_10m"`
		WindDirection       int     `json:"wind_direction_10m"`
		CloudCover          int     `json:"cloud_cover"`
		WeatherCode         int     `json:"weather_code"`
	} `json:"current"`
	Hourly struct {
		Time        []string  `json:"time"`
		Temperature []float64 `json:"temperature_2m"`
		WindSpeed   []float64 `json:"wind_speed_10m"`
		Pressure    []float64 `json:"surface_pressure"`
		CloudCover  []int     `json:"cloud_cover"`
	} `json:"hourly"`
	Daily struct {
		Time       []string  `json:"time"`
		TempMax    []float64 `json:"temperature_2m_max"`
		TempMin    []float64 `json:"temperature_2m_min"`
		WindMax    []float64 `json:"wind_speed_10m_max"`
		CloudMean  []int     `json:"cloud_cover_mean"`
		Sunrise    []string  `json:"sunrise"`
		Sunset     []string  `json:"sunset"`
	} `json:"daily"`
}

// FetchSnapshot retrieves current, hourly, and 7-day daily data for a spot.
// Tide predictions and water temperature are layered on by the caller.
func (c *WeatherClient) FetchSnapshot(spot models.Spot) (*models.Snapshot, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", spot.Latitude))
	q.Set("longitude", fmt.Sprintf("%.4f", spot.Longitude))
	q.Set("current", "temperature_2m,apparent_temperature,relative_humidity_2m,surface_pressure,wind_speed_10m,wind_direction_10m,cloud_cover,weather_code")
	q.Set("hourly", "temperature_2m,wind_speed_10m,surface_pressure,cloud_cover")
	q.Set("daily", "temperature_2m_max,temperature_2m_min,wind_speed_10m_max,cloud_cover_mean,sunrise,sunset")
	q.Set("forecast_days", "7")
	q.Set("wind_speed_unit", "kmh")
	q.Set("timezone", "UTC")
	reqURL := c.baseURL + "?" + q.Encode()

	body, err := c.get("forecast", reqURL)
	if err != nil {
		return nil, err
	}

	var data forecastResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("unmarshal forecast: %w", err)
	}
	return c.normalize(spot, &data)
}

func (c *WeatherClient) get(endpoint, reqURL string) ([]byte, error) {
	var body []byte
	operation := func() error {
		start := time.Now()
		resp, err := c.client.Get(reqURL)
		metrics.WeatherAPILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.WeatherAPICallsTotal.WithLabelValues(endpoint, "error").Inc()
			return fmt.Errorf("fetch %s: %w", endpoint, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			metrics.WeatherAPICallsTotal.WithLabelValues(endpoint, "retry").Inc()
			return fmt.Errorf("fetch %s: status %d", endpoint, resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			metrics.WeatherAPICallsTotal.WithLabelValues(endpoint, "error").Inc()
			return backoff.Permanent(fmt.Errorf("fetch %s: status %d: %s", endpoint, resp.StatusCode, string(b)))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("read body: %w", err))
		}
		metrics.WeatherAPICallsTotal.WithLabelValues(endpoint, "ok").Inc()
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 2 * time.Minute
	if err := backoff.Retry(operation, bo); err != nil {
		return nil, err
	}
	return body, nil
}

func (c *WeatherClient) normalize(spot models.Spot, data *forecastResponse) (*models.Snapshot, error) {
	if len(data.Daily.Time) == 0 || len(data.Daily.Sunrise) == 0 || len(data.Daily.Sunset) == 0 {
		return nil, fmt.Errorf("forecast response missing daily block")
	}

	sunrise, err := time.Parse(openMeteoTimeLayout, data.Daily.Sunrise[0])
	if err != nil {
		return nil, fmt.Errorf("parse sunrise: %w", err)
	}
	sunset, err := time.Parse(openMeteoTimeLayout, data.Daily.Sunset[0])
	if err != nil {
		return nil, fmt.Errorf("parse sunset: %w", err)
	}

	condition, icon := wmoCondition(data.Current.WeatherCode)
	snap := &models.Snapshot{
		Current: models.Current{
			Temperature:   data.Current.Temperature,
			FeelsLike:     data.Current.ApparentTemperature,
			Humidity:      data.Current.Humidity,
			Pressure:      data.Current.Pressure,
			WindSpeed:     data.Current.WindSpeed,
			WindDirection: data.Current.WindDirection,
			CloudCover:    data.Current.CloudCover,
			Condition:     condition,
			Icon:          icon,
		},
		Today: models.SunTimes{Sunrise: sunrise.UTC(), Sunset: sunset.UTC()},
		Location: models.Location{
			Latitude:  spot.Latitude,
			Longitude: spot.Longitude,
			IsCoastal: spot.IsCoastal,
		},
	}

	hourTimes := make([]time.Time, len(data.Hourly.Time))
	for i, raw := range data.Hourly.Time {
		t, err := time.Parse(openMeteoTimeLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("parse hourly time %q: %w", raw, err)
		}
		hourTimes[i] = t.UTC()
	}

	// First 24 hours feed the window finder; the rest only inform per-day
	// pressure trends below.
	for i := 0; i < len(hourTimes) && i < 24; i++ {
		snap.Hourly = append(snap.Hourly, models.HourlyObservation{
			Time:        hourTimes[i],
			Temperature: at(data.Hourly.Temperature, i),
			WindSpeed:   at(data.Hourly.WindSpeed, i),
			Pressure:    at(data.Hourly.Pressure, i),
			CloudCover:  atInt(data.Hourly.CloudCover, i),
		})
	}

	for i := range data.Daily.Time {
		date, err := time.Parse("2006-01-02", data.Daily.Time[i])
		if err != nil {
			return nil, fmt.Errorf("parse daily date %q: %w", data.Daily.Time[i], err)
		}
		snap.Daily = append(snap.Daily, models.DailyOutlook{
			Date:          date.UTC(),
			TempMax:       at(data.Daily.TempMax, i),
			TempMin:       at(data.Daily.TempMin, i),
			WindSpeed:     at(data.Daily.WindMax, i),
			CloudCover:    atInt(data.Daily.CloudMean, i),
			PressureTrend: dayPressureTrend(data.Hourly.Pressure, i),
		})
	}

	return snap, nil
}

// dayPressureTrend is the midday 3-hour pressure delta for day i, derived
// from the hourly series (24 UTC entries per day).
func dayPressureTrend(pressures []float64, day int) float64 {
	noon := day*24 + 12
	later := noon + 3
	if noon >= len(pressures) || later >= len(pressures) || pressures[noon] == 0 {
		return 0
	}
	return pressures[later] - pressures[noon]
}

func at(vals []float64, i int) float64 {
	if i < len(vals) {
		return vals[i]
	}
	return 0
}

func atInt(vals []int, i int) int {
	if i < len(vals) {
		return vals[i]
	}
	return 0
}

// wmoCondition maps a WMO weather code to a display name and icon.
func wmoCondition(code int) (string, string) {
	switch {
	case code == 0:
		return "Clear", "☀️"
	case code <= 2:
		return "Partly Cloudy", "⛅"
	case code == 3:
		return "Overcast", "☁️"
	case code == 45 || code == 48:
		return "Fog", "🌫️"
	case code >= 51 && code <= 57:
		return "Drizzle", "🌦️"
	case code >= 61 && code <= 67:
		return "Rain", "🌧️"
	case code >= 71 && code <= 77:
		return "Snow", "🌨️"
	case code >= 80 && code <= 82:
		return "Showers", "🌧️"
	case code >= 85 && code <= 86:
		return "Snow Showers", "🌨️"
	case code >= 95:
		return "Thunderstorm", "⛈️"
	default:
		return "Unknown", "🌡️"
	}
}
