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

const coopsBase = "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter"

// TideClient fetches high/low tide predictions from NOAA CO-OPS.
type TideClient struct {
	baseURL string
	client  *http.Client
}

func NewTideClient() *TideClient {
	return &TideClient{
		baseURL: coopsBase,
		client:  httputil.NewClient(),
	}
}

// NewTideClientWithBase is used by tests to point at a stub server.
func NewTideClientWithBase(baseURL string) *TideClient {
	return &TideClient{
		baseURL: baseURL,
		client:  httputil.NewClient(),
	}
}

type tidePredictionsResponse struct {
	Predictions []struct {
		Time   string `json:"t"` // "2006-01-02 15:04"
		Height string `json:"v"`
		Type   string `json:"type"` // "H" or "L"
	} `json:"predictions"`
}

// FetchPredictions returns the high/low tide events for a station covering
// the given day (UTC).
func (c *TideClient) FetchPredictions(stationID string, day time.Time) ([]models.TideEvent, error) {
	day = day.UTC()
	q := url.Values{}
	q.Set("station", stationID)
	q.Set("product", "predictions")
	q.Set("datum", "MLLW")
	q.Set("interval", "hilo")
	q.Set("units", "metric")
	q.Set("time_zone", "gmt")
	q.Set("format", "json")
	q.Set("begin_date", day.Format("20060102"))
	q.Set("end_date", day.AddDate(0, 0, 1).Format("20060102"))
	reqURL := c.baseURL + "?" + q.Encode()

	var body []byte
	operation := func() error {
		resp, err := c.client.Get(reqURL)
		if err != nil {
			metrics.TideAPICallsTotal.WithLabelValues(stationID, "error").Inc()
			return fmt.Errorf("fetch tides: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			metrics.TideAPICallsTotal.WithLabelValues(stationID, "retry").Inc()
			return fmt.Errorf("fetch tides: status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			metrics.TideAPICallsTotal.WithLabelValues(stationID, "error").Inc()
			return backoff.Permanent(fmt.Errorf("fetch tides: status %d: %s", resp.StatusCode, string(b)))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("read body: %w", err))
		}
		metrics.TideAPICallsTotal.WithLabelValues(stationID, "ok").Inc()
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 2 * time.Minute
	if err := backoff.Retry(operation, bo); err != nil {
		return nil, err
	}

	var data tidePredictionsResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("unmarshal tides: %w", err)
	}

	var events []models.TideEvent
	for _, p := range data.Predictions {
		t, err := time.Parse("2006-01-02 15:04", p.Time)
		if err != nil {
			return nil, fmt.Errorf("parse tide time %q: %w", p.Time, err)
		}
		var height float64
		if _, err := fmt.Sscanf(p.Height, "%f", &height); err != nil {
			return nil, fmt.Errorf("parse tide height %q: %w", p.Height, err)
		}
		tideType := models.TideLow
		if p.Type == "H" {
			tideType = models.TideHigh
		}
		events = append(events, models.TideEvent{
			Time:   t.UTC(),
			Type:   tideType,
			Height: height,
		})
	}
	return events, nil
}
