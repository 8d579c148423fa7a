package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WeatherAPICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fishcast_weather_api_calls_total",
			Help: "Total Open-Meteo API calls",
		},
		[]string{"endpoint", "status"},
	)

	WeatherAPILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fishcast_weather_api_latency_seconds",
			Help:    "Open-Meteo API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	TideAPICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fishcast_tide_api_calls_total",
			Help: "Total NOAA CO-OPS tide prediction calls",
		},
		[]string{"station", "status"},
	)

	ReportsComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fishcast_reports_computed_total",
			Help: "Total activity reports computed by the engine",
		},
		[]string{"spot"},
	)

	ReportCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fishcast_report_cache_total",
			Help: "Report cache lookups by outcome",
		},
		[]string{"outcome"},
	)
)
