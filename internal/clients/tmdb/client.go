package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL  = "https://api.themoviedb.org/3"
	coverBaseURL    = "https://image.tmdb.org/t/p/w500"
	backdropBaseURL = "https://image.tmdb.org/t/p/original"
	defaultLanguage = "pt-BR"
	redisCacheKey   = "cinefeed:tmdb:"

	maxBodyBytes = 512 * 1024
)

// Client wraps the metadata provider's read endpoints. It is stateless
// per call and does not retry internally; callers decide whether a
// failed page matters.
type Client struct {
	apiKey   string
	baseURL  string
	language string
	http     *http.Client
	redis    *redis.Client
	cacheTTL time.Duration
	limiter  *rate.Limiter
}

type Config struct {
	APIKey   string
	BaseURL  string
	Language string
	// Timeout bounds each provider request when no custom Client is
	// injected.
	Timeout  time.Duration
	Client   *http.Client
	Redis    *redis.Client
	CacheTTL time.Duration
}

// Result is one entry of a provider results array, movie and series
// spellings both present.
type Result struct {
	ID           int     `json:"id"`
	Title        string  `json:"title,omitempty"`
	Name         string  `json:"name,omitempty"`
	Overview     string  `json:"overview,omitempty"`
	PosterPath   string  `json:"poster_path,omitempty"`
	BackdropPath string  `json:"backdrop_path,omitempty"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	FirstAirDate string  `json:"first_air_date,omitempty"`
	MediaType    string  `json:"media_type,omitempty"`
	VoteAverage  float64 `json:"vote_average,omitempty"`
}

func (r Result) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

func (r Result) CoverURL() string {
	if r.PosterPath == "" {
		return ""
	}
	return coverBaseURL + r.PosterPath
}

func (r Result) BackdropURL() string {
	if r.BackdropPath == "" {
		return ""
	}
	return backdropBaseURL + r.BackdropPath
}

func (r Result) Year() string {
	date := r.ReleaseDate
	if date == "" {
		date = r.FirstAirDate
	}
	if len(date) >= 4 {
		return date[:4]
	}
	return ""
}

// Page is one page of a paginated results response.
type Page struct {
	Page       int      `json:"page"`
	Results    []Result `json:"results"`
	TotalPages int      `json:"total_pages"`
}

// Detail is a single-title detail response. Only the fields the core
// consumes are decoded; ExternalIDs.IMDBID keys stream resolution.
type Detail struct {
	ID           int    `json:"id"`
	Title        string `json:"title,omitempty"`
	Name         string `json:"name,omitempty"`
	Overview     string `json:"overview,omitempty"`
	PosterPath   string `json:"poster_path,omitempty"`
	BackdropPath string `json:"backdrop_path,omitempty"`
	ReleaseDate  string `json:"release_date,omitempty"`
	FirstAirDate string `json:"first_air_date,omitempty"`
	SeasonCount  int    `json:"number_of_seasons,omitempty"`
	ExternalIDs  struct {
		IMDBID string `json:"imdb_id,omitempty"`
	} `json:"external_ids"`
}

// Season is a series-season detail response.
type Season struct {
	Name     string `json:"name"`
	Episodes []struct {
		EpisodeNumber int    `json:"episode_number"`
		Name          string `json:"name"`
		Overview      string `json:"overview"`
		StillPath     string `json:"still_path"`
	} `json:"episodes"`
}

// Credits is the cast list of a title.
type Credits struct {
	Cast []struct {
		Name        string `json:"name"`
		Character   string `json:"character"`
		ProfilePath string `json:"profile_path"`
	} `json:"cast"`
}

func NewClient(cfg Config) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	language := strings.TrimSpace(cfg.Language)
	if language == "" {
		language = defaultLanguage
	}
	httpClient := cfg.Client
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 7 * 24 * time.Hour
	}
	return &Client{
		apiKey:   strings.TrimSpace(cfg.APIKey),
		baseURL:  strings.TrimRight(baseURL, "/"),
		language: language,
		http:     httpClient,
		redis:    cfg.Redis,
		cacheTTL: cacheTTL,
		limiter:  rate.NewLimiter(rate.Limit(20), 40),
	}
}

func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

func (c *Client) Trending(ctx context.Context, mediaType string) (Page, error) {
	if mediaType == "" {
		mediaType = "all"
	}
	var page Page
	err := c.get(ctx, "/trending/"+url.PathEscape(mediaType)+"/week", nil, &page)
	return page, err
}

func (c *Client) MoviesByGenre(ctx context.Context, genreID, page int) (Page, error) {
	params := url.Values{
		"with_genres": {strconv.Itoa(genreID)},
		"sort_by":     {"popularity.desc"},
		"page":        {strconv.Itoa(page)},
	}
	var out Page
	err := c.get(ctx, "/discover/movie", params, &out)
	return out, err
}

func (c *Client) SeriesByGenre(ctx context.Context, genreID, page int) (Page, error) {
	params := url.Values{
		"with_genres": {strconv.Itoa(genreID)},
		"sort_by":     {"popularity.desc"},
		"page":        {strconv.Itoa(page)},
	}
	var out Page
	err := c.get(ctx, "/discover/tv", params, &out)
	return out, err
}

func (c *Client) TopRated(ctx context.Context) (Page, error) {
	var out Page
	err := c.get(ctx, "/movie/top_rated", nil, &out)
	return out, err
}

func (c *Client) Details(ctx context.Context, mediaType string, id int) (Detail, error) {
	params := url.Values{"append_to_response": {"external_ids"}}
	var out Detail
	err := c.get(ctx, "/"+url.PathEscape(providerType(mediaType))+"/"+strconv.Itoa(id), params, &out)
	return out, err
}

func (c *Client) Credits(ctx context.Context, mediaType string, id int) (Credits, error) {
	var out Credits
	err := c.get(ctx, "/"+url.PathEscape(providerType(mediaType))+"/"+strconv.Itoa(id)+"/credits", nil, &out)
	return out, err
}

func (c *Client) SeasonDetails(ctx context.Context, seriesID, season int) (Season, error) {
	var out Season
	err := c.get(ctx, "/tv/"+strconv.Itoa(seriesID)+"/season/"+strconv.Itoa(season), nil, &out)
	return out, err
}

func (c *Client) SearchMulti(ctx context.Context, query string) (Page, error) {
	params := url.Values{"query": {strings.TrimSpace(query)}}
	var out Page
	err := c.get(ctx, "/search/multi", params, &out)
	return out, err
}

// providerType maps the catalog's "series" label to the provider's
// "tv" path segment.
func providerType(mediaType string) string {
	if mediaType == "series" {
		return "tv"
	}
	return mediaType
}

// get performs one request. The api key and locale ride as query
// params on every call. Responses are cached in Redis, when
// configured, keyed by path and parameters but never by the key
// itself.
func (c *Client) get(ctx context.Context, path string, params url.Values, v any) error {
	if !c.Enabled() {
		return fmt.Errorf("tmdb api key not configured")
	}

	if params == nil {
		params = url.Values{}
	}
	cacheKey := redisCacheKey + path + "?" + params.Encode() + ":" + c.language

	if c.redis != nil {
		if data, err := c.redis.Get(ctx, cacheKey).Bytes(); err == nil {
			if json.Unmarshal(data, v) == nil {
				return nil
			}
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("tmdb HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return err
	}

	if c.redis != nil {
		_ = c.redis.Set(ctx, cacheKey, body, c.cacheTTL).Err()
	}
	return nil
}
