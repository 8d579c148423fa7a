package api

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/calder/fishcast/internal/activity"
	"github.com/calder/fishcast/internal/models"
	"github.com/calder/fishcast/internal/store"
)

// Refresher computes a fresh report for a spot; the scheduler implements it.
// The server calls it on a cache miss so clients never see stale buckets.
type Refresher interface {
	RefreshSpot(now time.Time, spot models.Spot) (*activity.Report, error)
}

type Server struct {
	store     *store.Store
	refresher Refresher
	port      string
	now       func() time.Time // injectable clock for tests
}

func NewServer(st *store.Store, refresher Refresher, port string) *Server {
	return &Server{
		store:     st,
		refresher: refresher,
		port:      port,
		now:       time.Now,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/spots", s.handleSpots)
	mux.HandleFunc("/api/report", s.handleReport)
	mux.HandleFunc("/api/besttimes", s.handleBestTimes)
	mux.HandleFunc("/api/forecast", s.handleForecast)
	mux.HandleFunc("/api/moon", s.handleMoon)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
