package stremio

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"cinefeed/internal/domain"
)

// maxConcurrentAddons bounds the parallel addon queries so a long
// addon list cannot open unbounded outbound connections at once.
const maxConcurrentAddons = 10

const defaultAddonTimeout = 8 * time.Second

const maxBodyBytes = 1024 * 1024

// rawStream is one entry of an addon's streams array.
type rawStream struct {
	Title    string `json:"title"`
	Name     string `json:"name"`
	InfoHash string `json:"infoHash"`
	FileIdx  int    `json:"fileIdx"`
	URL      string `json:"url"`
}

type streamsResponse struct {
	Streams []rawStream `json:"streams"`
}

// Resolver fans a stream request out to the configured addon services
// and flattens whatever they answer. Addons are independent third
// parties: one timing out or answering garbage never suppresses the
// candidates of the others.
type Resolver struct {
	http    *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

type Config struct {
	Client  *http.Client
	Timeout time.Duration
}

func NewResolver(cfg Config, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultAddonTimeout
	}
	httpClient := cfg.Client
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Resolver{http: httpClient, timeout: timeout, logger: logger}
}

// Resolve queries every addon in parallel for candidate streams for
// one title. An empty addon list resolves to nothing without touching
// the network. Result order is completion order; candidates are
// unordered by contract.
func (r *Resolver) Resolve(ctx context.Context, contentType domain.ContentType, externalID string, addons []domain.Addon) []domain.StreamCandidate {
	if len(addons) == 0 {
		return nil
	}

	sem := semaphore.NewWeighted(maxConcurrentAddons)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var all []domain.StreamCandidate

	for _, addon := range addons {
		base, ok := normalizeBase(addon.URL)
		if !ok {
			continue
		}
		wg.Add(1)
		go func(addon domain.Addon, base string) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				return
			}
			defer sem.Release(1)

			candidates := r.queryAddon(ctx, addon, base, contentType, externalID)
			if len(candidates) == 0 {
				return
			}
			mu.Lock()
			all = append(all, candidates...)
			mu.Unlock()
		}(addon, base)
	}
	wg.Wait()
	return all
}

func (r *Resolver) queryAddon(ctx context.Context, addon domain.Addon, base string, contentType domain.ContentType, externalID string) []domain.StreamCandidate {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	endpoint := base + "/stream/" + string(contentType) + "/" + externalID + ".json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		r.logger.Warn("addon request build failed", slog.String("addon", addon.Name), slog.String("error", err.Error()))
		return nil
	}
	resp, err := r.http.Do(req)
	if err != nil {
		r.logger.Warn("addon query failed", slog.String("addon", addon.Name), slog.String("error", err.Error()))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.Warn("addon answered non-200", slog.String("addon", addon.Name), slog.Int("status", resp.StatusCode))
		return nil
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		r.logger.Warn("addon body read failed", slog.String("addon", addon.Name), slog.String("error", err.Error()))
		return nil
	}
	var parsed streamsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		r.logger.Warn("addon answered malformed JSON", slog.String("addon", addon.Name), slog.String("error", err.Error()))
		return nil
	}

	candidates := make([]domain.StreamCandidate, 0, len(parsed.Streams))
	for _, stream := range parsed.Streams {
		candidates = append(candidates, FormatStream(stream, addon.Name))
	}
	return candidates
}

// FormatStream normalizes one raw addon stream into a candidate,
// synthesizing a magnet URL when only an infohash is present.
func FormatStream(stream rawStream, addonName string) domain.StreamCandidate {
	title := stream.Title
	if title == "" {
		title = "Unknown"
	}
	name := stream.Name
	if name == "" {
		name = addonName
	}
	if name == "" {
		name = "Stremio Addon"
	}
	url := stream.URL
	if url == "" && stream.InfoHash != "" {
		url = "magnet:?xt=urn:btih:" + stream.InfoHash
	}
	return domain.StreamCandidate{
		Title:      title,
		SourceName: name,
		InfoHash:   stream.InfoHash,
		FileIndex:  stream.FileIdx,
		URL:        url,
	}
}

// normalizeBase cleans an addon's configured URL: users paste the
// manifest link as often as the base. Cinemeta is metadata-only and
// serves no streams, so it is skipped outright.
func normalizeBase(raw string) (string, bool) {
	base := strings.TrimSpace(raw)
	if base == "" {
		return "", false
	}
	if strings.Contains(base, "cinemeta") {
		return "", false
	}
	base = strings.TrimSuffix(base, "/manifest.json")
	base = strings.TrimRight(base, "/")
	return base, true
}
