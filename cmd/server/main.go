package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"

	apihttp "cinefeed/internal/api/http"
	"cinefeed/internal/app"
	"cinefeed/internal/browse"
	"cinefeed/internal/catalog"
	"cinefeed/internal/clients/tmdb"
	"cinefeed/internal/cloudimport"
	"cinefeed/internal/domain"
	"cinefeed/internal/domain/ports"
	"cinefeed/internal/metrics"
	"cinefeed/internal/playback"
	"cinefeed/internal/repository/memory"
	mongorepo "cinefeed/internal/repository/mongo"
	"cinefeed/internal/stremio"
	"cinefeed/internal/telemetry"
)

const serviceVersion = "1.0.0"

func main() {
	cfg := app.LoadConfig()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	metrics.Register(prometheus.DefaultRegisterer)

	shutdownTracer, err := telemetry.Init(context.Background(), "cinefeed", serviceVersion)
	if err != nil {
		logger.Warn("otel init failed", slog.String("error", err.Error()))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	logger.Info("configuration loaded",
		slog.String("service", "cinefeed"),
		slog.String("httpAddr", cfg.HTTPAddr),
		slog.String("logLevel", cfg.LogLevel),
		slog.String("logFormat", cfg.LogFormat),
		slog.Bool("mongo", cfg.MongoURI != ""),
		slog.Bool("tmdb", cfg.TMDBAPIKey != ""),
		slog.Bool("redis", cfg.RedisURL != ""),
		slog.String("swarmDataDir", cfg.SwarmDataDir),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(rootCtx, 10*time.Second)
	defer cancel()

	repo, disconnect := buildRepository(ctx, cfg, logger)
	defer disconnect()

	store := catalog.NewStore(repo, logger)
	if err := store.Load(ctx); err != nil {
		logger.Error("catalog load failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	metrics.CatalogTitles.Set(float64(len(store.Titles())))
	metrics.CatalogSources.Set(float64(len(store.Sources())))

	provider := tmdb.NewClient(tmdb.Config{
		APIKey:   cfg.TMDBAPIKey,
		BaseURL:  cfg.TMDBBaseURL,
		Language: cfg.TMDBLanguage,
		Timeout:  time.Duration(cfg.ProviderTimeoutSecs) * time.Second,
		Redis:    buildRedis(cfg, logger),
		CacheTTL: time.Duration(cfg.TMDBCacheTTLDays) * 24 * time.Hour,
	})

	debounce := browse.WithSearchDebounce(time.Duration(cfg.SearchDebounceMs) * time.Millisecond)
	movies := browse.NewView(domain.ContentMovie, provider, store, logger, debounce)
	series := browse.NewView(domain.ContentSeries, provider, store, logger, debounce)
	if provider.Enabled() {
		go movies.InitialLoad(rootCtx)
		go series.InitialLoad(rootCtx)
	} else {
		logger.Warn("metadata provider disabled, browsing serves local catalog only")
	}

	importer := cloudimport.NewImporter(store, cloudimport.Config{
		ProxyURL:      cfg.CloudProxyURL,
		DirectTimeout: time.Duration(cfg.CloudFetchTimeoutSecs) * time.Second,
	}, logger)

	resolver := stremio.NewResolver(stremio.Config{
		Timeout: time.Duration(cfg.AddonTimeoutSecs) * time.Second,
	}, logger)

	engine := playback.NewEngine(playback.EngineConfig{DataDir: cfg.SwarmDataDir})
	controller := playback.NewController(engine, playback.ControllerConfig{
		RetainSessions: cfg.SwarmRetainSessions,
	}, logger)

	var defaultAddons []domain.Addon
	if cfg.DefaultAddonURL != "" {
		defaultAddons = []domain.Addon{{Name: "Torrentio", URL: cfg.DefaultAddonURL}}
	}

	handler := apihttp.NewServer(store,
		apihttp.WithLogger(logger),
		apihttp.WithImporter(importer),
		apihttp.WithBrowseViews(movies, series),
		apihttp.WithProvider(provider),
		apihttp.WithResolver(resolver),
		apihttp.WithPlayback(controller),
		apihttp.WithDefaultAddons(defaultAddons),
		apihttp.WithAllowedOrigins(cfg.AllowedOrigins),
	)

	go updateCatalogMetrics(rootCtx, store, engine)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      0,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("server started", slog.String("addr", cfg.HTTPAddr))

	select {
	case <-rootCtx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	handler.Close()
	movies.Close()
	series.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown error", slog.String("error", err.Error()))
	}
	if err := controller.Close(); err != nil {
		logger.Warn("swarm engine close error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}

// buildRepository connects to Mongo when a URI is configured and falls
// back to the in-memory repository otherwise, so the service runs
// without any external dependencies.
func buildRepository(ctx context.Context, cfg app.Config, logger *slog.Logger) (ports.CatalogRepository, func()) {
	if cfg.MongoURI == "" {
		logger.Warn("MONGO_URI not set, catalog kept in memory only")
		return memory.NewCatalogRepository(), func() {}
	}

	client, err := mongorepo.Connect(ctx, cfg.MongoURI, options.Client().SetMonitor(otelmongo.NewMonitor()))
	if err != nil {
		logger.Error("mongo connect failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Error("mongo ping failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	repo := mongorepo.NewCatalogRepository(client, cfg.MongoDatabase, cfg.MongoCollection)
	disconnect := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Warn("mongo disconnect error", slog.String("error", err.Error()))
		}
	}
	return repo, disconnect
}

func buildRedis(cfg app.Config, logger *slog.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn("invalid REDIS_URL, provider cache disabled", slog.String("error", err.Error()))
		return nil
	}
	return redis.NewClient(opts)
}

// updateCatalogMetrics keeps the catalog gauges roughly current for
// mutations that bypass the HTTP handlers.
func updateCatalogMetrics(ctx context.Context, store *catalog.Store, engine *playback.Engine) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.CatalogTitles.Set(float64(len(store.Titles())))
			metrics.CatalogSources.Set(float64(len(store.Sources())))
			metrics.ActiveSwarmSessions.Set(float64(engine.SessionCount()))
		}
	}
}

func newLogger(levelRaw, formatRaw string) *slog.Logger {
	level := parseLogLevel(levelRaw)
	options := &slog.HandlerOptions{Level: level}
	format := strings.ToLower(strings.TrimSpace(formatRaw))
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, options))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, options))
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
