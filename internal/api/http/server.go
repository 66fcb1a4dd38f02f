package apihttp

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"cinefeed/internal/browse"
	"cinefeed/internal/clients/tmdb"
	"cinefeed/internal/domain"
	"cinefeed/internal/metrics"
)

type CatalogStore interface {
	Titles() []domain.Title
	Sources() []domain.Source
	AddTitle(ctx context.Context, fields domain.Title) (domain.Title, error)
	UpdateTitle(ctx context.Context, id int64, fields domain.Title) error
	BulkAdd(ctx context.Context, items []domain.Title) (int, error)
	RemoveSource(ctx context.Context, sourceID int64) error
}

type CloudImporter interface {
	ImportFromURL(ctx context.Context, rawURL, displayName string) (int, error)
}

type BrowseView interface {
	Genres() []domain.Genre
	LoadMore(ctx context.Context, category string) int
	MergedView() browse.Merged
	Search(ctx context.Context, query string) ([]domain.Title, error)
}

type MetadataProvider interface {
	Enabled() bool
	Trending(ctx context.Context, mediaType string) (tmdb.Page, error)
	TopRated(ctx context.Context) (tmdb.Page, error)
	Details(ctx context.Context, mediaType string, id int) (tmdb.Detail, error)
	Credits(ctx context.Context, mediaType string, id int) (tmdb.Credits, error)
	SeasonDetails(ctx context.Context, seriesID, season int) (tmdb.Season, error)
}

type StreamResolver interface {
	Resolve(ctx context.Context, contentType domain.ContentType, externalID string, addons []domain.Addon) []domain.StreamCandidate
}

type PlaybackController interface {
	Start(ctx context.Context, magnet string) (<-chan domain.PlaybackState, error)
	MarkPlaying() error
	State() domain.PlaybackState
	Stop()
}

type Server struct {
	catalog        CatalogStore
	importer       CloudImporter
	movies         BrowseView
	series         BrowseView
	provider       MetadataProvider
	resolver       StreamResolver
	playback       PlaybackController
	defaultAddons  []domain.Addon
	allowedOrigins []string
	logger         *slog.Logger
	handler        http.Handler
	wsHub          *wsHub
}

type ServerOption func(*Server)

func WithImporter(imp CloudImporter) ServerOption {
	return func(s *Server) { s.importer = imp }
}

func WithBrowseViews(movies, series BrowseView) ServerOption {
	return func(s *Server) {
		s.movies = movies
		s.series = series
	}
}

func WithProvider(p MetadataProvider) ServerOption {
	return func(s *Server) { s.provider = p }
}

func WithResolver(r StreamResolver) ServerOption {
	return func(s *Server) { s.resolver = r }
}

func WithPlayback(p PlaybackController) ServerOption {
	return func(s *Server) { s.playback = p }
}

// WithDefaultAddons sets the addons used when a resolve request does
// not carry its own list.
func WithDefaultAddons(addons []domain.Addon) ServerOption {
	return func(s *Server) { s.defaultAddons = addons }
}

// WithAllowedOrigins configures the CORS allowed origins whitelist.
// When empty (default), any origin is permitted (development mode).
func WithAllowedOrigins(origins []string) ServerOption {
	return func(s *Server) { s.allowedOrigins = origins }
}

func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) { s.logger = logger }
}

func NewServer(catalog CatalogStore, opts ...ServerOption) *Server {
	s := &Server{catalog: catalog}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.wsHub = newWSHub(s.logger)
	go s.wsHub.run()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/catalog/titles", s.handleTitles)
	mux.HandleFunc("/api/catalog/titles/", s.handleTitleByID)
	mux.HandleFunc("/api/catalog/titles/bulk", s.handleBulkAdd)
	mux.HandleFunc("/api/sources", s.handleSources)
	mux.HandleFunc("/api/sources/", s.handleSourceByID)
	mux.HandleFunc("/api/browse/movies", s.handleBrowse)
	mux.HandleFunc("/api/browse/series", s.handleBrowse)
	mux.HandleFunc("/api/browse/more", s.handleLoadMore)
	mux.HandleFunc("/api/browse/search", s.handleSearch)
	mux.HandleFunc("/api/browse/trending", s.handleTrending)
	mux.HandleFunc("/api/browse/details", s.handleDetails)
	mux.HandleFunc("/api/browse/season", s.handleSeason)
	mux.HandleFunc("/api/browse/credits", s.handleCredits)
	mux.HandleFunc("/api/streams/resolve", s.handleResolveStreams)
	mux.HandleFunc("/api/playback/start", s.handlePlaybackStart)
	mux.HandleFunc("/api/playback/playing", s.handlePlaybackPlaying)
	mux.HandleFunc("/api/playback/state", s.handlePlaybackState)
	mux.HandleFunc("/api/playback/stop", s.handlePlaybackStop)
	mux.HandleFunc("/internal/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/ws", s.handleWS)

	traced := otelhttp.NewHandler(loggingMiddleware(s.logger, mux), "cinefeed",
		otelhttp.WithFilter(func(r *http.Request) bool {
			p := r.URL.Path
			return p != "/metrics" && p != "/internal/health"
		}),
	)
	s.handler = recoveryMiddleware(s.logger, rateLimitMiddleware(100, 200, metricsMiddleware(corsMiddleware(s.allowedOrigins, traced))))
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("ws upgrade failed", slog.String("error", err.Error()))
		return
	}
	client := &wsClient{
		hub:  s.wsHub,
		conn: conn,
		send: make(chan []byte, 256),
	}
	s.wsHub.register <- client
	go client.writePump()
	go client.readPump()
}

// publishTelemetry drains one playback session's samples into the
// WebSocket hub and the gauges. Runs until the controller closes the
// channel on Stop.
func (s *Server) publishTelemetry(updates <-chan domain.PlaybackState) {
	for state := range updates {
		metrics.PlaybackDownloadSpeedBytes.Set(float64(state.DownloadSpeed))
		metrics.PlaybackPeers.Set(float64(state.Peers))
		s.wsHub.BroadcastPlayback(state)
	}
	metrics.PlaybackDownloadSpeedBytes.Set(0)
	metrics.PlaybackPeers.Set(0)
}

// Close disconnects WebSocket clients and stops any live playback.
func (s *Server) Close() {
	if s.playback != nil {
		s.playback.Stop()
	}
	if s.wsHub != nil {
		s.wsHub.Close()
	}
}
