package cloudimport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cinefeed/internal/domain"
)

const (
	defaultProxyURL      = "https://api.allorigins.win/get?url="
	defaultDirectTimeout = 5 * time.Second

	maxPayloadBytes = 4 * 1024 * 1024
)

// Catalog is the slice of the catalog store the importer drives.
type Catalog interface {
	ImportPayload(ctx context.Context, payload []byte, sourceName, sourceOrigin string) (int, error)
}

// Importer fetches an external cloud document and feeds it to the
// catalog. Cloud feeds are arbitrary third-party links: plain-HTTP
// ones trip mixed-content policy and many HTTPS ones lack CORS
// headers, so a failed direct fetch falls back to a read-through proxy
// exactly once. The proxy exists to route around those policies, not
// to retry for reliability.
type Importer struct {
	catalog       Catalog
	http          *http.Client
	proxyURL      string
	directTimeout time.Duration
	logger        *slog.Logger
}

type Config struct {
	ProxyURL      string
	DirectTimeout time.Duration
	Client        *http.Client
}

func NewImporter(catalog Catalog, cfg Config, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	proxyURL := strings.TrimSpace(cfg.ProxyURL)
	if proxyURL == "" {
		proxyURL = defaultProxyURL
	}
	timeout := cfg.DirectTimeout
	if timeout <= 0 {
		timeout = defaultDirectTimeout
	}
	httpClient := cfg.Client
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Importer{
		catalog:       catalog,
		http:          httpClient,
		proxyURL:      proxyURL,
		directTimeout: timeout,
		logger:        logger,
	}
}

// ImportFromURL fetches the document at rawURL and admits its items.
// Returns the number of titles actually admitted.
func (imp *Importer) ImportFromURL(ctx context.Context, rawURL, displayName string) (int, error) {
	payload, err := imp.fetchPayload(ctx, rawURL)
	if err != nil {
		return 0, err
	}
	return imp.catalog.ImportPayload(ctx, payload, displayName, rawURL)
}

// fetchPayload tries the direct route for HTTPS targets, then the
// proxy. Each route must yield a body that parses as JSON.
func (imp *Importer) fetchPayload(ctx context.Context, rawURL string) ([]byte, error) {
	if strings.HasPrefix(rawURL, "https://") {
		payload, err := imp.fetchDirect(ctx, rawURL)
		if err == nil {
			return payload, nil
		}
		imp.logger.Debug("direct cloud fetch failed, trying proxy",
			slog.String("url", rawURL),
			slog.String("error", err.Error()),
		)
	}
	return imp.fetchViaProxy(ctx, rawURL)
}

func (imp *Importer) fetchDirect(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, imp.directTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := imp.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cloud HTTP %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("cloud body is not JSON")
	}
	return body, nil
}

// fetchViaProxy fetches the target through the read-through proxy,
// which answers {"contents": "<body>"} with the body as a string to be
// re-parsed.
func (imp *Importer) fetchViaProxy(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imp.proxyURL+url.QueryEscape(rawURL), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidCloudFormat, err)
	}
	resp, err := imp.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: proxy fetch: %s", domain.ErrInvalidCloudFormat, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: proxy HTTP %d", domain.ErrInvalidCloudFormat, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: proxy read: %s", domain.ErrInvalidCloudFormat, err)
	}

	var envelope struct {
		Contents string `json:"contents"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Contents == "" {
		return nil, fmt.Errorf("%w: malformed proxy envelope", domain.ErrInvalidCloudFormat)
	}
	payload := []byte(envelope.Contents)
	if !json.Valid(payload) {
		return nil, fmt.Errorf("%w: proxied body is not JSON", domain.ErrInvalidCloudFormat)
	}
	return payload, nil
}
