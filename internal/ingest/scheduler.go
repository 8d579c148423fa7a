package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/calder/fishcast/internal/activity"
	"github.com/calder/fishcast/internal/metrics"
	"github.com/calder/fishcast/internal/models"
	"github.com/calder/fishcast/internal/store"
)

const reportRetention = 48 * time.Hour

// Scheduler periodically recomputes activity reports for all active spots so
// the API serves warm cache entries.
type Scheduler struct {
	store    *store.Store
	weather  *WeatherClient
	tides    *TideClient
	factors  []activity.FactorDefinition
	interval time.Duration
}

func NewScheduler(st *store.Store, weather *WeatherClient, tides *TideClient, interval time.Duration) *Scheduler {
	return &Scheduler{
		store:    st,
		weather:  weather,
		tides:    tides,
		factors:  activity.DefaultFactors(),
		interval: interval,
	}
}

func (s *Scheduler) Run(ctx context.Context) {
	s.refreshAll(time.Now())

	ticker := time.NewTicker(s.interval)
	pruneTicker := time.NewTicker(6 * time.Hour)
	defer ticker.Stop()
	defer pruneTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("scheduler: shutting down")
			return
		case <-ticker.C:
			s.refreshAll(time.Now())
		case <-pruneTicker.C:
			if n, err := s.store.PruneReports(time.Now().Add(-reportRetention)); err != nil {
				log.Printf("scheduler: prune reports: %v", err)
			} else if n > 0 {
				log.Printf("scheduler: pruned %d stale reports", n)
			}
		}
	}
}

// RefreshOnce computes and caches a report for every active spot, for use by
// the --once CLI mode.
func (s *Scheduler) RefreshOnce() error {
	return s.refreshAll(time.Now())
}

func (s *Scheduler) refreshAll(now time.Time) error {
	spots, err := s.store.GetActiveSpots()
	if err != nil {
		return fmt.Errorf("load spots: %w", err)
	}

	var firstErr error
	for _, spot := range spots {
		if _, err := s.RefreshSpot(now, spot); err != nil {
			log.Printf("scheduler: refresh %s: %v", spot.Name, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// RefreshSpot fetches fresh upstream data for one spot, runs the engine, and
// caches the result. The API calls this on a cache miss.
func (s *Scheduler) RefreshSpot(now time.Time, spot models.Spot) (*activity.Report, error) {
	snap, err := s.weather.FetchSnapshot(spot)
	if err != nil {
		return nil, fmt.Errorf("fetch weather: %w", err)
	}

	flags := ValidateSnapshot(snap)
	if len(flags) > 0 {
		log.Printf("scheduler: %s snapshot flags: %v", spot.Name, flags)
	}
	if HasHardFailure(flags) {
		return nil, fmt.Errorf("snapshot failed validation: %v", flags)
	}

	// Tide data is optional: a failed fetch degrades the report to the
	// inland factor set instead of blocking it.
	if spot.IsCoastal && spot.TideStation != "" {
		events, err := s.tides.FetchPredictions(spot.TideStation, now)
		if err != nil {
			log.Printf("scheduler: %s tide fetch failed, scoring without tide: %v", spot.Name, err)
		} else {
			snap.Tides = events
		}
	}

	report, err := activity.BuildReport(now, *snap, s.factors)
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}
	metrics.ReportsComputed.WithLabelValues(spot.Name).Inc()

	payload, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	if err := s.store.SaveReport(spot.ID, store.BucketFor(now), string(payload)); err != nil {
		return nil, fmt.Errorf("cache report: %w", err)
	}
	return report, nil
}
