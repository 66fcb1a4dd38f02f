package app

import (
	"os"
	"testing"
)

func setEnvs(t *testing.T, envs map[string]string) {
	t.Helper()
	for k, v := range envs {
		t.Setenv(k, v)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	// Clear all env vars that LoadConfig reads so we get pure defaults.
	envVars := []string{
		"HTTP_ADDR", "MONGO_URI", "MONGO_DB", "MONGO_COLLECTION",
		"LOG_LEVEL", "LOG_FORMAT", "ALLOWED_ORIGINS",
		"TMDB_API_KEY", "TMDB_BASE_URL", "TMDB_LANGUAGE", "TMDB_CACHE_TTL_DAYS",
		"PROVIDER_TIMEOUT_SECONDS",
		"REDIS_URL", "CLOUD_PROXY_URL", "CLOUD_FETCH_TIMEOUT_SECONDS",
		"ADDON_TIMEOUT_SECONDS", "DEFAULT_ADDON_URL",
		"SWARM_DATA_DIR", "SWARM_RETAIN_SESSIONS", "SEARCH_DEBOUNCE_MS",
	}
	for _, k := range envVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg := LoadConfig()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"HTTPAddr", cfg.HTTPAddr, ":8080"},
		{"MongoURI", cfg.MongoURI, ""},
		{"MongoDatabase", cfg.MongoDatabase, "cinefeed"},
		{"MongoCollection", cfg.MongoCollection, "catalog"},
		{"LogLevel", cfg.LogLevel, "info"},
		{"LogFormat", cfg.LogFormat, "text"},
		{"TMDBAPIKey", cfg.TMDBAPIKey, ""},
		{"TMDBBaseURL", cfg.TMDBBaseURL, "https://api.themoviedb.org/3"},
		{"TMDBLanguage", cfg.TMDBLanguage, "pt-BR"},
		{"TMDBCacheTTLDays", cfg.TMDBCacheTTLDays, int64(7)},
		{"ProviderTimeoutSecs", cfg.ProviderTimeoutSecs, int64(10)},
		{"RedisURL", cfg.RedisURL, ""},
		{"CloudProxyURL", cfg.CloudProxyURL, ""},
		{"CloudFetchTimeoutSecs", cfg.CloudFetchTimeoutSecs, int64(5)},
		{"AddonTimeoutSecs", cfg.AddonTimeoutSecs, int64(8)},
		{"DefaultAddonURL", cfg.DefaultAddonURL, "https://torrentio.strem.fun"},
		{"SwarmDataDir", cfg.SwarmDataDir, "data"},
		{"SwarmRetainSessions", cfg.SwarmRetainSessions, false},
		{"SearchDebounceMs", cfg.SearchDebounceMs, int64(300)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v (%T), want %v (%T)", tt.got, tt.got, tt.want, tt.want)
			}
		})
	}

	if len(cfg.AllowedOrigins) != 0 {
		t.Errorf("AllowedOrigins: got %v, want nil/empty", cfg.AllowedOrigins)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	setEnvs(t, map[string]string{
		"HTTP_ADDR":                   ":9090",
		"MONGO_URI":                   "mongodb://remote:27017",
		"MONGO_DB":                    "mydb",
		"MONGO_COLLECTION":            "mycatalog",
		"LOG_LEVEL":                   "DEBUG",
		"LOG_FORMAT":                  "JSON",
		"ALLOWED_ORIGINS":             "http://localhost:5173, https://example.com",
		"TMDB_API_KEY":                "k123",
		"TMDB_BASE_URL":               "https://tmdb.proxy.example/3",
		"TMDB_LANGUAGE":               "en-US",
		"TMDB_CACHE_TTL_DAYS":         "2",
		"PROVIDER_TIMEOUT_SECONDS":    "3",
		"REDIS_URL":                   "redis://localhost:6379/0",
		"CLOUD_PROXY_URL":             "https://proxy.example/get?url=",
		"CLOUD_FETCH_TIMEOUT_SECONDS": "10",
		"ADDON_TIMEOUT_SECONDS":       "4",
		"DEFAULT_ADDON_URL":           "https://addon.example",
		"SWARM_DATA_DIR":              "/mnt/swarm",
		"SWARM_RETAIN_SESSIONS":       "true",
		"SEARCH_DEBOUNCE_MS":          "500",
	})

	cfg := LoadConfig()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"HTTPAddr", cfg.HTTPAddr, ":9090"},
		{"MongoURI", cfg.MongoURI, "mongodb://remote:27017"},
		{"MongoDatabase", cfg.MongoDatabase, "mydb"},
		{"MongoCollection", cfg.MongoCollection, "mycatalog"},
		{"LogLevel", cfg.LogLevel, "debug"},
		{"LogFormat", cfg.LogFormat, "json"},
		{"TMDBAPIKey", cfg.TMDBAPIKey, "k123"},
		{"TMDBBaseURL", cfg.TMDBBaseURL, "https://tmdb.proxy.example/3"},
		{"TMDBLanguage", cfg.TMDBLanguage, "en-US"},
		{"TMDBCacheTTLDays", cfg.TMDBCacheTTLDays, int64(2)},
		{"ProviderTimeoutSecs", cfg.ProviderTimeoutSecs, int64(3)},
		{"RedisURL", cfg.RedisURL, "redis://localhost:6379/0"},
		{"CloudProxyURL", cfg.CloudProxyURL, "https://proxy.example/get?url="},
		{"CloudFetchTimeoutSecs", cfg.CloudFetchTimeoutSecs, int64(10)},
		{"AddonTimeoutSecs", cfg.AddonTimeoutSecs, int64(4)},
		{"DefaultAddonURL", cfg.DefaultAddonURL, "https://addon.example"},
		{"SwarmDataDir", cfg.SwarmDataDir, "/mnt/swarm"},
		{"SwarmRetainSessions", cfg.SwarmRetainSessions, true},
		{"SearchDebounceMs", cfg.SearchDebounceMs, int64(500)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v (%T), want %v (%T)", tt.got, tt.got, tt.want, tt.want)
			}
		})
	}

	wantOrigins := []string{"http://localhost:5173", "https://example.com"}
	if len(cfg.AllowedOrigins) != len(wantOrigins) {
		t.Fatalf("AllowedOrigins: got %d entries, want %d", len(cfg.AllowedOrigins), len(wantOrigins))
	}
	for i, got := range cfg.AllowedOrigins {
		if got != wantOrigins[i] {
			t.Errorf("AllowedOrigins[%d]: got %q, want %q", i, got, wantOrigins[i])
		}
	}
}

func TestGetEnvInt64InvalidFallsBack(t *testing.T) {
	tests := []struct {
		name     string
		envVal   string
		fallback int64
		want     int64
	}{
		{"empty string", "", 42, 42},
		{"not a number", "abc", 42, 42},
		{"negative number", "-5", 42, 42},
		{"zero", "0", 42, 0},
		{"valid positive", "100", 42, 100},
		{"whitespace around number", "  50  ", 42, 50},
		{"float", "3.14", 42, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_INT_VAR", tt.envVal)
			got := getEnvInt64("TEST_INT_VAR", tt.fallback)
			if got != tt.want {
				t.Errorf("getEnvInt64(%q, %d) = %d, want %d", tt.envVal, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name     string
		envVal   string
		fallback bool
		want     bool
	}{
		{"empty uses fallback", "", true, true},
		{"true", "true", false, true},
		{"one", "1", false, true},
		{"yes", "yes", false, true},
		{"false", "false", true, false},
		{"zero", "0", true, false},
		{"garbage uses fallback", "maybe", true, true},
		{"mixed case", "TRUE", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL_VAR", tt.envVal)
			got := getEnvBool("TEST_BOOL_VAR", tt.fallback)
			if got != tt.want {
				t.Errorf("getEnvBool(%q, %v) = %v, want %v", tt.envVal, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestSplitCSV(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty string", "", nil},
		{"whitespace only", "   ", nil},
		{"single value", "http://localhost:5173", []string{"http://localhost:5173"}},
		{"multiple values", "a,b,c", []string{"a", "b", "c"}},
		{"values with spaces", " a , b , c ", []string{"a", "b", "c"}},
		{"trailing comma", "a,b,", []string{"a", "b"}},
		{"empty entries filtered", "a,,b,,c", []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitCSV(tt.input)
			if tt.want == nil {
				if got != nil {
					t.Errorf("splitCSV(%q) = %v, want nil", tt.input, got)
				}
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("splitCSV(%q) returned %d elements, want %d", tt.input, len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("splitCSV(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLogLevelCaseInsensitive(t *testing.T) {
	t.Setenv("LOG_LEVEL", "DEBUG")
	cfg := LoadConfig()
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want %q", cfg.LogLevel, "debug")
	}

	t.Setenv("LOG_LEVEL", "Warn")
	cfg = LoadConfig()
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel: got %q, want %q", cfg.LogLevel, "warn")
	}
}
