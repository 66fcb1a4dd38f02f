package browse

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cinefeed/internal/clients/tmdb"
	"cinefeed/internal/domain"
)

type pageKey struct {
	genreID int
	page    int
}

type fakeProvider struct {
	mu         sync.Mutex
	pages      map[pageKey]tmdb.Page
	failGenres map[int]bool
	search     tmdb.Page
	searchErr  error
	gate       chan struct{} // when set, calls block until the gate closes
	calls      []pageKey
}

func (f *fakeProvider) fetch(ctx context.Context, genreID, page int) (tmdb.Page, error) {
	f.mu.Lock()
	f.calls = append(f.calls, pageKey{genreID, page})
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return tmdb.Page{}, ctx.Err()
		}
	}
	if f.failGenres[genreID] {
		return tmdb.Page{}, errors.New("connection refused")
	}
	return f.pages[pageKey{genreID, page}], nil
}

func (f *fakeProvider) MoviesByGenre(ctx context.Context, genreID, page int) (tmdb.Page, error) {
	return f.fetch(ctx, genreID, page)
}

func (f *fakeProvider) SeriesByGenre(ctx context.Context, genreID, page int) (tmdb.Page, error) {
	return f.fetch(ctx, genreID, page)
}

func (f *fakeProvider) SearchMulti(ctx context.Context, query string) (tmdb.Page, error) {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return tmdb.Page{}, ctx.Err()
		}
	}
	if f.searchErr != nil {
		return tmdb.Page{}, f.searchErr
	}
	return f.search, nil
}

type fakeCatalog struct {
	titles []domain.Title
}

func (f *fakeCatalog) TitlesByType(ct domain.ContentType) []domain.Title {
	var out []domain.Title
	for _, t := range f.titles {
		if t.Type == ct {
			out = append(out, t)
		}
	}
	return out
}

func results(names ...string) []tmdb.Result {
	out := make([]tmdb.Result, 0, len(names))
	for i, name := range names {
		out = append(out, tmdb.Result{ID: i + 1, Title: name, PosterPath: "/" + name + ".jpg"})
	}
	return out
}

func allMoviePages(provider *fakeProvider) {
	if provider.pages == nil {
		provider.pages = make(map[pageKey]tmdb.Page)
	}
	for _, genre := range movieGenres {
		provider.pages[pageKey{genre.ID, 1}] = tmdb.Page{Page: 1, Results: results("a", "b")}
	}
}

func TestInitialLoadDeterministicOrder(t *testing.T) {
	provider := &fakeProvider{}
	allMoviePages(provider)
	view := NewView(domain.ContentMovie, provider, &fakeCatalog{}, nil)

	view.InitialLoad(context.Background())

	merged := view.MergedView()
	want := []string{AllCategory}
	for _, genre := range movieGenres {
		want = append(want, genre.Name)
	}
	if len(merged.Categories) != len(want) {
		t.Fatalf("categories = %v", merged.Categories)
	}
	for i, category := range want {
		if merged.Categories[i] != category {
			t.Fatalf("category[%d] = %q, want %q", i, merged.Categories[i], category)
		}
	}

	// Cursors seeded at page 1.
	cursor, ok := view.Cursor("Terror")
	if !ok || cursor.Page != 1 || cursor.GenreID != 27 {
		t.Fatalf("cursor = %+v ok=%v", cursor, ok)
	}
}

func TestInitialLoadIsolatesFailedGenre(t *testing.T) {
	// One genre's provider call fails; every other genre still
	// populates and nothing escapes the pass.
	provider := &fakeProvider{failGenres: map[int]bool{27: true}}
	allMoviePages(provider)
	view := NewView(domain.ContentMovie, provider, &fakeCatalog{}, nil)

	view.InitialLoad(context.Background())

	merged := view.MergedView()
	if _, found := merged.Content["Terror"]; found {
		t.Fatal("failed genre must be absent")
	}
	if len(merged.Content["Comédia"]) != 2 {
		t.Fatalf("other genres should populate, got %+v", merged.Content["Comédia"])
	}
	if _, ok := view.Cursor("Terror"); ok {
		t.Fatal("failed genre must not get a cursor")
	}
}

func TestFormatDropsCoverlessResults(t *testing.T) {
	raw := []tmdb.Result{
		{ID: 1, Title: "Com Capa", PosterPath: "/c.jpg"},
		{ID: 2, Title: "Sem Capa"},
	}
	titles := formatResults(raw, domain.ContentMovie)
	if len(titles) != 1 || titles[0].Title != "Com Capa" {
		t.Fatalf("titles = %+v", titles)
	}
	if !titles[0].IsExternal {
		t.Fatal("provider results must be marked external")
	}
}

func TestLoadMoreAdvancesCursorOnce(t *testing.T) {
	provider := &fakeProvider{}
	allMoviePages(provider)
	provider.pages[pageKey{35, 2}] = tmdb.Page{Page: 2, Results: results("x", "y", "z")}
	view := NewView(domain.ContentMovie, provider, &fakeCatalog{}, nil)
	view.InitialLoad(context.Background())

	added := view.LoadMore(context.Background(), "Comédia")
	if added != 3 {
		t.Fatalf("added = %d, want 3", added)
	}
	cursor, _ := view.Cursor("Comédia")
	if cursor.Page != 2 {
		t.Fatalf("cursor page = %d, want 2", cursor.Page)
	}
	merged := view.MergedView()
	if len(merged.Content["Comédia"]) != 5 {
		t.Fatalf("category length = %d, want 5", len(merged.Content["Comédia"]))
	}
}

func TestLoadMoreDropsAggregateAndUnknown(t *testing.T) {
	provider := &fakeProvider{}
	allMoviePages(provider)
	view := NewView(domain.ContentMovie, provider, &fakeCatalog{}, nil)
	view.InitialLoad(context.Background())
	calls := len(provider.calls)

	if added := view.LoadMore(context.Background(), AllCategory); added != 0 {
		t.Fatal("aggregate tab must not load more")
	}
	if added := view.LoadMore(context.Background(), "Inexistente"); added != 0 {
		t.Fatal("unknown category must not load more")
	}
	if len(provider.calls) != calls {
		t.Fatal("dropped calls must not reach the provider")
	}
}

func TestLoadMoreReentrancyGuard(t *testing.T) {
	provider := &fakeProvider{}
	allMoviePages(provider)
	view := NewView(domain.ContentMovie, provider, &fakeCatalog{}, nil)
	view.InitialLoad(context.Background())

	provider.pages[pageKey{35, 2}] = tmdb.Page{Page: 2, Results: results("x")}
	gate := make(chan struct{})
	provider.mu.Lock()
	provider.gate = gate
	provider.mu.Unlock()

	done := make(chan int, 1)
	go func() { done <- view.LoadMore(context.Background(), "Comédia") }()

	// Wait for the first call to reach the provider, then issue a
	// second while it is still in flight.
	for {
		provider.mu.Lock()
		inFlight := len(provider.calls) > len(movieGenres)
		provider.mu.Unlock()
		if inFlight {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if added := view.LoadMore(context.Background(), "Comédia"); added != 0 {
		t.Fatal("second call while one is outstanding must be dropped")
	}

	close(gate)
	if added := <-done; added != 1 {
		t.Fatalf("first call added = %d, want 1", added)
	}
	cursor, _ := view.Cursor("Comédia")
	if cursor.Page != 2 {
		t.Fatalf("cursor advanced %d times, want exactly one advance", cursor.Page-1)
	}
}

func TestLoadMoreFailureKeepsCursor(t *testing.T) {
	provider := &fakeProvider{}
	allMoviePages(provider)
	view := NewView(domain.ContentMovie, provider, &fakeCatalog{}, nil)
	view.InitialLoad(context.Background())

	provider.mu.Lock()
	provider.failGenres = map[int]bool{35: true}
	provider.mu.Unlock()

	if added := view.LoadMore(context.Background(), "Comédia"); added != 0 {
		t.Fatal("failed load should add nothing")
	}
	cursor, _ := view.Cursor("Comédia")
	if cursor.Page != 1 {
		t.Fatalf("cursor must not advance on failure, page = %d", cursor.Page)
	}
}

func TestMergedViewLocalFirstNoDedup(t *testing.T) {
	provider := &fakeProvider{pages: map[pageKey]tmdb.Page{
		{28, 1}: {Page: 1, Results: results("Duna")},
	}}
	catalog := &fakeCatalog{titles: []domain.Title{
		{ID: 100, Title: "Duna", Type: domain.ContentMovie, Category: "Ação"},
		{ID: 101, Title: "Curta Local", Type: domain.ContentMovie, Category: "Meus Filmes"},
	}}
	view := NewView(domain.ContentMovie, provider, catalog, nil)
	view.InitialLoad(context.Background())

	merged := view.MergedView()

	acao := merged.Content["Ação"]
	if len(acao) != 2 {
		t.Fatalf("local and provider copies both stay: %+v", acao)
	}
	if acao[0].ID != 100 {
		t.Fatal("local title must be prepended")
	}

	if len(merged.Content["Meus Filmes"]) != 1 {
		t.Fatal("local-only category missing")
	}
	last := merged.Categories[len(merged.Categories)-1]
	if last != "Meus Filmes" {
		t.Fatalf("local-only category should trail, got order %v", merged.Categories)
	}
}

func TestSearchMergesLocalAndProvider(t *testing.T) {
	provider := &fakeProvider{search: tmdb.Page{Results: []tmdb.Result{
		{ID: 1, Title: "Duna: Parte Dois", PosterPath: "/d2.jpg", MediaType: "movie"},
		{ID: 2, Name: "Duna: A Série", PosterPath: "/ds.jpg", MediaType: "tv"},
	}}}
	catalog := &fakeCatalog{titles: []domain.Title{
		{ID: 50, Title: "duna 1984", Type: domain.ContentMovie},
	}}
	view := NewView(domain.ContentMovie, provider, catalog, nil)

	got, err := view.Search(context.Background(), "Duna")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %+v", got)
	}
	if got[0].ID != 50 {
		t.Fatal("local match should lead")
	}
	if got[1].Title != "Duna: Parte Dois" {
		t.Fatal("tv result must be filtered out of a movie view")
	}
}

func TestSearchProviderFailureKeepsLocal(t *testing.T) {
	provider := &fakeProvider{searchErr: errors.New("timeout")}
	catalog := &fakeCatalog{titles: []domain.Title{{ID: 1, Title: "Duna", Type: domain.ContentMovie}}}
	view := NewView(domain.ContentMovie, provider, catalog, nil)

	got, err := view.Search(context.Background(), "dun")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %+v", got)
	}
}

func TestSearchStaleEpochDiscarded(t *testing.T) {
	provider := &fakeProvider{search: tmdb.Page{Results: []tmdb.Result{
		{ID: 1, Title: "Velho", PosterPath: "/v.jpg", MediaType: "movie"},
	}}}
	view := NewView(domain.ContentMovie, provider, &fakeCatalog{}, nil)

	gate := make(chan struct{})
	provider.mu.Lock()
	provider.gate = gate
	provider.mu.Unlock()

	type answer struct {
		titles []domain.Title
		err    error
	}
	first := make(chan answer, 1)
	go func() {
		titles, err := view.Search(context.Background(), "velho")
		first <- answer{titles, err}
	}()
	time.Sleep(5 * time.Millisecond)

	// A newer query claims the epoch; then both provider calls return.
	second := make(chan answer, 1)
	go func() {
		titles, err := view.Search(context.Background(), "novo")
		second <- answer{titles, err}
	}()
	time.Sleep(5 * time.Millisecond)
	close(gate)

	got := <-first
	if !errors.Is(got.err, ErrSearchSuperseded) {
		t.Fatalf("stale search must be discarded, got titles=%v err=%v", got.titles, got.err)
	}
	if got := <-second; got.err != nil {
		t.Fatalf("current search failed: %v", got.err)
	}
}

func TestSearchDebounceSupersede(t *testing.T) {
	provider := &fakeProvider{search: tmdb.Page{}}
	view := NewView(domain.ContentMovie, provider, &fakeCatalog{}, nil, WithSearchDebounce(30*time.Millisecond))

	first := make(chan error, 1)
	go func() {
		_, err := view.Search(context.Background(), "d")
		first <- err
	}()
	time.Sleep(5 * time.Millisecond)
	if _, err := view.Search(context.Background(), "du"); err != nil {
		t.Fatalf("second search: %v", err)
	}
	if err := <-first; !errors.Is(err, ErrSearchSuperseded) {
		t.Fatalf("debounced first search should be superseded, got %v", err)
	}
}

func TestCloseStopsMutation(t *testing.T) {
	provider := &fakeProvider{}
	allMoviePages(provider)
	view := NewView(domain.ContentMovie, provider, &fakeCatalog{}, nil)
	view.InitialLoad(context.Background())

	gate := make(chan struct{})
	provider.mu.Lock()
	provider.gate = gate
	provider.pages[pageKey{35, 2}] = tmdb.Page{Page: 2, Results: results("x")}
	provider.mu.Unlock()

	done := make(chan int, 1)
	go func() { done <- view.LoadMore(context.Background(), "Comédia") }()
	for {
		provider.mu.Lock()
		inFlight := len(provider.calls) > len(movieGenres)
		provider.mu.Unlock()
		if inFlight {
			break
		}
		time.Sleep(time.Millisecond)
	}

	view.Close()
	close(gate)

	if added := <-done; added != 0 {
		t.Fatal("closed view must not be mutated by an in-flight fetch")
	}
	cursor, _ := view.Cursor("Comédia")
	if cursor.Page != 1 {
		t.Fatal("closed view cursor must not advance")
	}
}

func TestSeriesViewUsesSeriesGenres(t *testing.T) {
	provider := &fakeProvider{pages: map[pageKey]tmdb.Page{
		{10765, 1}: {Page: 1, Results: results("Fundação")},
	}}
	view := NewView(domain.ContentSeries, provider, &fakeCatalog{}, nil)
	view.InitialLoad(context.Background())

	merged := view.MergedView()
	titles := merged.Content["Sci-Fi & Fantasy"]
	if len(titles) != 1 || titles[0].Type != domain.ContentSeries {
		t.Fatalf("series view content = %+v", titles)
	}
}
