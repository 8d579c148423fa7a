package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/calder/fishcast/internal/activity"
	"github.com/calder/fishcast/internal/metrics"
	"github.com/calder/fishcast/internal/moon"
	"github.com/calder/fishcast/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleSpots(w http.ResponseWriter, r *http.Request) {
	spots, err := s.store.GetActiveSpots()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, spots)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, status, err := s.reportForRequest(r)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, report)
}

func (s *Server) handleBestTimes(w http.ResponseWriter, r *http.Request) {
	report, status, err := s.reportForRequest(r)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, report.BestTimes)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	report, status, err := s.reportForRequest(r)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, report.Forecast)
}

func (s *Server) handleMoon(w http.ResponseWriter, r *http.Request) {
	at := s.now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid date %q, want YYYY-MM-DD", raw), http.StatusBadRequest)
			return
		}
		at = parsed
	}
	writeJSON(w, moon.Calculate(at))
}

// reportForRequest resolves ?spot= to a cached or freshly computed report.
func (s *Server) reportForRequest(r *http.Request) (*activity.Report, int, error) {
	name := r.URL.Query().Get("spot")
	if name == "" {
		return nil, http.StatusBadRequest, fmt.Errorf("missing spot parameter")
	}

	spot, err := s.store.GetSpotByName(name)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	if spot == nil {
		return nil, http.StatusNotFound, fmt.Errorf("unknown spot %q", name)
	}

	now := s.now()
	payload, err := s.store.GetReport(spot.ID, store.BucketFor(now))
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	if payload != "" {
		var report activity.Report
		if err := json.Unmarshal([]byte(payload), &report); err == nil {
			metrics.ReportCacheHits.WithLabelValues("hit").Inc()
			return &report, http.StatusOK, nil
		}
		// Corrupt cache entry falls through to a recompute.
	}

	metrics.ReportCacheHits.WithLabelValues("miss").Inc()
	report, err := s.refresher.RefreshSpot(now, *spot)
	if err != nil {
		return nil, http.StatusBadGateway, fmt.Errorf("compute report: %w", err)
	}
	return report, http.StatusOK, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
