package browse

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"cinefeed/internal/clients/tmdb"
	"cinefeed/internal/domain"
)

// AllCategory is the synthetic aggregate tab; it has no cursor and
// never loads more.
const AllCategory = "Todos"

// ErrSearchSuperseded reports that a newer search started while this
// one was waiting or in flight; its results must not reach the UI.
var ErrSearchSuperseded = errors.New("search superseded by newer query")

// movieGenres and seriesGenres fix both the set of provider categories
// and their order; initial load follows this order so the category
// tabs are deterministic across reloads.
var movieGenres = []domain.Genre{
	{ID: 28, Name: "Ação"},
	{ID: 12, Name: "Aventura"},
	{ID: 35, Name: "Comédia"},
	{ID: 27, Name: "Terror"},
	{ID: 10749, Name: "Romance"},
	{ID: 878, Name: "Ficção Científica"},
	{ID: 18, Name: "Drama"},
	{ID: 14, Name: "Fantasia"},
	{ID: 16, Name: "Animação"},
}

var seriesGenres = []domain.Genre{
	{ID: 10759, Name: "Ação e Aventura"},
	{ID: 35, Name: "Comédia"},
	{ID: 18, Name: "Drama"},
	{ID: 10765, Name: "Sci-Fi & Fantasy"},
	{ID: 16, Name: "Animação"},
	{ID: 80, Name: "Crime"},
	{ID: 9648, Name: "Mistério"},
}

// Provider is the slice of the metadata client the view consumes.
type Provider interface {
	MoviesByGenre(ctx context.Context, genreID, page int) (tmdb.Page, error)
	SeriesByGenre(ctx context.Context, genreID, page int) (tmdb.Page, error)
	SearchMulti(ctx context.Context, query string) (tmdb.Page, error)
}

// Catalog supplies the locally stored titles merged ahead of provider
// results.
type Catalog interface {
	TitlesByType(ct domain.ContentType) []domain.Title
}

// View is the per-content-type read model: provider pages grouped by
// category, a page cursor per category and the local catalog merged in
// front. One View serves one content type for one browsing session.
type View struct {
	contentType    domain.ContentType
	provider       Provider
	catalog        Catalog
	logger         *slog.Logger
	searchDebounce time.Duration

	mu          sync.Mutex
	content     map[string][]domain.Title
	order       []string
	cursors     map[string]domain.CategoryCursor
	inFlight    map[string]bool
	searchEpoch uint64
	closed      bool
}

type Option func(*View)

// WithSearchDebounce sets how long Search waits for the query to go
// idle before touching the network. Zero disables the wait.
func WithSearchDebounce(d time.Duration) Option {
	return func(v *View) {
		if d > 0 {
			v.searchDebounce = d
		}
	}
}

func NewView(contentType domain.ContentType, provider Provider, catalog Catalog, logger *slog.Logger, opts ...Option) *View {
	if logger == nil {
		logger = slog.Default()
	}
	v := &View{
		contentType: contentType,
		provider:    provider,
		catalog:     catalog,
		logger:      logger,
		content:     make(map[string][]domain.Title),
		cursors:     make(map[string]domain.CategoryCursor),
		inFlight:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Genres returns the fixed genre list for the view's content type.
func (v *View) Genres() []domain.Genre {
	if v.contentType == domain.ContentSeries {
		return seriesGenres
	}
	return movieGenres
}

// InitialLoad fetches page 1 for every genre, sequentially and in
// declared order, bounding outbound requests to one at a time. A
// failed genre is logged and skipped; it never aborts the pass, so
// the category simply does not appear.
func (v *View) InitialLoad(ctx context.Context) {
	for _, genre := range v.Genres() {
		page, err := v.fetchPage(ctx, genre.ID, 1)
		if err != nil {
			v.logger.Warn("genre page load failed",
				slog.String("category", genre.Name),
				slog.Int("genreId", genre.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		titles := formatResults(page.Results, v.contentType)

		v.mu.Lock()
		if v.closed {
			v.mu.Unlock()
			return
		}
		if _, exists := v.content[genre.Name]; !exists {
			v.order = append(v.order, genre.Name)
		}
		v.content[genre.Name] = titles
		v.cursors[genre.Name] = domain.CategoryCursor{GenreID: genre.ID, Page: 1}
		v.mu.Unlock()
	}
}

// LoadMore fetches the next provider page for one category and
// advances its cursor by exactly one. Calls for the aggregate tab, for
// unknown categories or while a load for the same category is still in
// flight are dropped, not queued: no user action may double-advance a
// cursor. Returns how many titles were appended.
func (v *View) LoadMore(ctx context.Context, category string) int {
	v.mu.Lock()
	cursor, ok := v.cursors[category]
	if category == AllCategory || !ok || v.inFlight[category] || v.closed {
		v.mu.Unlock()
		return 0
	}
	v.inFlight[category] = true
	v.mu.Unlock()

	defer func() {
		v.mu.Lock()
		delete(v.inFlight, category)
		v.mu.Unlock()
	}()

	nextPage := cursor.Page + 1
	page, err := v.fetchPage(ctx, cursor.GenreID, nextPage)
	if err != nil {
		// No data from the provider; the cursor stays put so the same
		// page is retried on the next user action.
		v.logger.Warn("load more failed",
			slog.String("category", category),
			slog.Int("page", nextPage),
			slog.String("error", err.Error()),
		)
		return 0
	}
	titles := formatResults(page.Results, v.contentType)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return 0
	}
	v.content[category] = append(v.content[category], titles...)
	v.cursors[category] = domain.CategoryCursor{GenreID: cursor.GenreID, Page: nextPage}
	return len(titles)
}

// Merged is the category-indexed read model handed to the UI.
type Merged struct {
	Categories []string                  `json:"categories"`
	Content    map[string][]domain.Title `json:"content"`
}

// MergedView merges local titles into the provider categories,
// local-first within each category. Local and provider entries are not
// deduplicated against each other: duplicate suppression is scoped to
// cloud import alone, and silently dropping either copy here could
// hide a locally curated title.
func (v *View) MergedView() Merged {
	local := v.catalog.TitlesByType(v.contentType)

	v.mu.Lock()
	defer v.mu.Unlock()

	content := make(map[string][]domain.Title, len(v.content)+4)
	categories := []string{AllCategory}
	for _, category := range v.order {
		categories = append(categories, category)
		content[category] = append([]domain.Title(nil), v.content[category]...)
	}

	for _, title := range local {
		if title.Category == "" {
			continue
		}
		if existing, ok := content[title.Category]; ok {
			content[title.Category] = append([]domain.Title{title}, existing...)
		} else {
			categories = append(categories, title.Category)
			content[title.Category] = []domain.Title{title}
		}
	}
	return Merged{Categories: categories, Content: content}
}

// Cursor exposes a category's pagination cursor.
func (v *View) Cursor(category string) (domain.CategoryCursor, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	cursor, ok := v.cursors[category]
	return cursor, ok
}

// Search merges locally matching titles with a provider multi-search
// narrowed to the view's media type. Each call claims a new epoch;
// when a newer call arrives while this one is debouncing or in flight,
// this one returns ErrSearchSuperseded and its results are dropped.
// Last writer wins by epoch, not by arrival time.
func (v *View) Search(ctx context.Context, query string) ([]domain.Title, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	v.mu.Lock()
	v.searchEpoch++
	epoch := v.searchEpoch
	v.mu.Unlock()

	if v.searchDebounce > 0 {
		timer := time.NewTimer(v.searchDebounce)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		if v.stale(epoch) {
			return nil, ErrSearchSuperseded
		}
	}

	results := v.searchLocal(query)

	page, err := v.provider.SearchMulti(ctx, query)
	if err != nil {
		// Provider failure is "no data", not a failed search; local
		// matches still count.
		v.logger.Warn("provider search failed", slog.String("query", query), slog.String("error", err.Error()))
	} else {
		for _, title := range formatResults(page.Results, v.contentType) {
			if title.Type == v.contentType {
				results = append(results, title)
			}
		}
	}

	if v.stale(epoch) {
		return nil, ErrSearchSuperseded
	}
	return results, nil
}

func (v *View) stale(epoch uint64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed || v.searchEpoch != epoch
}

func (v *View) searchLocal(query string) []domain.Title {
	needle := strings.ToLower(query)
	var matches []domain.Title
	for _, title := range v.catalog.TitlesByType(v.contentType) {
		if strings.Contains(strings.ToLower(title.Title), needle) {
			matches = append(matches, title)
		}
	}
	return matches
}

// Close marks the view dead: in-flight fetches and searches observe
// the flag before every state write, so nothing mutates a view the UI
// already navigated away from.
func (v *View) Close() {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()
}

func (v *View) fetchPage(ctx context.Context, genreID, page int) (tmdb.Page, error) {
	if v.contentType == domain.ContentSeries {
		return v.provider.SeriesByGenre(ctx, genreID, page)
	}
	return v.provider.MoviesByGenre(ctx, genreID, page)
}

// formatResults converts provider results into Titles, dropping any
// result without a cover image: a coverless entry renders as a hole in
// every list, so it never leaves this layer.
func formatResults(results []tmdb.Result, fallback domain.ContentType) []domain.Title {
	titles := make([]domain.Title, 0, len(results))
	for _, r := range results {
		if r.PosterPath == "" {
			continue
		}
		ct := fallback
		if r.MediaType != "" {
			ct = domain.NormalizeContentType(r.MediaType)
		}
		titles = append(titles, domain.Title{
			ID:          int64(r.ID),
			Title:       r.DisplayTitle(),
			Cover:       r.CoverURL(),
			Backdrop:    r.BackdropURL(),
			Description: r.Overview,
			Year:        r.Year(),
			Type:        ct,
			IsExternal:  true,
		})
	}
	return titles
}
