package app

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	HTTPAddr        string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	LogLevel        string
	LogFormat       string
	AllowedOrigins  []string

	TMDBAPIKey          string
	TMDBBaseURL         string
	TMDBLanguage        string
	TMDBCacheTTLDays    int64
	ProviderTimeoutSecs int64
	RedisURL            string

	CloudProxyURL         string
	CloudFetchTimeoutSecs int64

	AddonTimeoutSecs int64
	DefaultAddonURL  string

	SwarmDataDir        string
	SwarmRetainSessions bool

	SearchDebounceMs int64
}

func LoadConfig() Config {
	return Config{
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		MongoURI:        getEnv("MONGO_URI", ""),
		MongoDatabase:   getEnv("MONGO_DB", "cinefeed"),
		MongoCollection: getEnv("MONGO_COLLECTION", "catalog"),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:       strings.ToLower(getEnv("LOG_FORMAT", "text")),
		AllowedOrigins:  splitCSV(getEnv("ALLOWED_ORIGINS", "")),

		TMDBAPIKey:          getEnv("TMDB_API_KEY", ""),
		TMDBBaseURL:         getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		TMDBLanguage:        getEnv("TMDB_LANGUAGE", "pt-BR"),
		TMDBCacheTTLDays:    getEnvInt64("TMDB_CACHE_TTL_DAYS", 7),
		ProviderTimeoutSecs: getEnvInt64("PROVIDER_TIMEOUT_SECONDS", 10),
		RedisURL:            getEnv("REDIS_URL", ""),

		CloudProxyURL:         getEnv("CLOUD_PROXY_URL", ""),
		CloudFetchTimeoutSecs: getEnvInt64("CLOUD_FETCH_TIMEOUT_SECONDS", 5),

		AddonTimeoutSecs: getEnvInt64("ADDON_TIMEOUT_SECONDS", 8),
		DefaultAddonURL:  getEnv("DEFAULT_ADDON_URL", "https://torrentio.strem.fun"),

		SwarmDataDir:        getEnv("SWARM_DATA_DIR", "data"),
		SwarmRetainSessions: getEnvBool("SWARM_RETAIN_SESSIONS", false),

		SearchDebounceMs: getEnvInt64("SEARCH_DEBOUNCE_MS", 300),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	if parsed < 0 {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch value {
	case "":
		return fallback
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func splitCSV(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if item := strings.TrimSpace(part); item != "" {
			out = append(out, item)
		}
	}
	return out
}
