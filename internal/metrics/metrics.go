package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cinefeed",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by method, path and status code.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cinefeed",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   []float64{0.05, 0.1, 0.3, 0.5, 1, 2, 5, 10, 30},
	}, []string{"method", "path"})

	CatalogTitles = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "cinefeed",
		Name:      "catalog_titles",
		Help:      "Number of titles currently in the catalog.",
	})

	CatalogSources = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "cinefeed",
		Name:      "catalog_sources",
		Help:      "Number of registered cloud sources.",
	})

	CloudImportsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cinefeed",
		Name:      "cloud_imports_total",
		Help:      "Cloud import attempts by outcome.",
	}, []string{"outcome"})

	CloudImportedTitles = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cinefeed",
		Name:      "cloud_imported_titles_total",
		Help:      "Titles admitted into the catalog by cloud imports.",
	})

	AddonQueriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cinefeed",
		Name:      "addon_queries_total",
		Help:      "Stream addon resolutions by outcome.",
	}, []string{"outcome"})

	StreamCandidatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cinefeed",
		Name:      "stream_candidates_total",
		Help:      "Stream candidates returned by addon resolution.",
	})

	ActiveSwarmSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "cinefeed",
		Name:      "active_swarm_sessions",
		Help:      "Number of live swarm sessions.",
	})

	PlaybackDownloadSpeedBytes = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "cinefeed",
		Name:      "playback_download_speed_bytes",
		Help:      "Download speed of the live playback session in bytes per second.",
	})

	PlaybackPeers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "cinefeed",
		Name:      "playback_peers",
		Help:      "Active peer count of the live playback session.",
	})

	WSClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "cinefeed",
		Name:      "ws_clients",
		Help:      "Connected telemetry WebSocket clients.",
	})
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		CatalogTitles,
		CatalogSources,
		CloudImportsTotal,
		CloudImportedTitles,
		AddonQueriesTotal,
		StreamCandidatesTotal,
		ActiveSwarmSessions,
		PlaybackDownloadSpeedBytes,
		PlaybackPeers,
		WSClients,
	)
}
