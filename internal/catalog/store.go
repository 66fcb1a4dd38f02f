package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cinefeed/internal/domain"
	"cinefeed/internal/domain/ports"
)

// Store owns the authoritative Title and Source collections. Every
// mutation funnels through the normalizer and deduplicator as the
// operation requires, and the full collection is persisted through the
// repository before the in-memory copy is swapped. Writes are
// serialized; reads are concurrent.
//
// No operation shrinks the Title collection: titles admitted from a
// cloud source survive the removal of that source.
type Store struct {
	mu      sync.RWMutex
	repo    ports.CatalogRepository
	logger  *slog.Logger
	titles  []domain.Title
	sources []domain.Source
}

func NewStore(repo ports.CatalogRepository, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{repo: repo, logger: logger}
}

// Load reads both collections once at process start. An empty or
// missing title collection falls back to the built-in seed data; the
// seed is not written back until the first real mutation.
func (s *Store) Load(ctx context.Context) error {
	titles, err := s.repo.LoadTitles(ctx)
	if err != nil {
		return fmt.Errorf("load titles: %w", err)
	}
	sources, err := s.repo.LoadSources(ctx)
	if err != nil {
		return fmt.Errorf("load sources: %w", err)
	}
	if len(titles) == 0 {
		titles = SeedTitles()
		s.logger.Info("catalog empty, using seed data", slog.Int("titles", len(titles)))
	}

	s.mu.Lock()
	s.titles = titles
	s.sources = sources
	s.mu.Unlock()
	return nil
}

// Titles returns a copy of the current collection.
func (s *Store) Titles() []domain.Title {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Title(nil), s.titles...)
}

// TitlesByType filters the collection by content type. Titles with no
// type at all are grouped with movies, matching how legacy entries
// behaved before the type field existed.
func (s *Store) TitlesByType(ct domain.ContentType) []domain.Title {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Title, 0, len(s.titles))
	for _, t := range s.titles {
		if t.Type == ct || (ct == domain.ContentMovie && t.Type == "") {
			out = append(out, t)
		}
	}
	return out
}

// Sources returns a copy of the registered cloud sources.
func (s *Store) Sources() []domain.Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Source(nil), s.sources...)
}

// AddTitle appends a single title with id = max+1 and persists. A
// manual add deliberately skips the deduplicator: the operator already
// sees the collection and may want an intentional near-duplicate.
func (s *Store) AddTitle(ctx context.Context, fields domain.Title) (domain.Title, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fields.ID = domain.NextID(s.titles)
	if fields.Type == "" {
		fields.Type = domain.ContentMovie
	}
	next := append(append([]domain.Title(nil), s.titles...), fields)
	if err := s.repo.SaveTitles(ctx, next); err != nil {
		return domain.Title{}, fmt.Errorf("persist titles: %w", err)
	}
	s.titles = next
	s.logger.Info("title added", slog.Int64("id", fields.ID), slog.String("title", fields.Title))
	return fields, nil
}

// UpdateTitle replaces every field of the title with the given id,
// preserving the id. A miss is a silent no-op: the caller got the id
// from the current collection, so a vanished id is stale UI state, not
// an error.
func (s *Store) UpdateTitle(ctx context.Context, id int64, fields domain.Title) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, t := range s.titles {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	fields.ID = id
	next := append([]domain.Title(nil), s.titles...)
	next[idx] = fields
	if err := s.repo.SaveTitles(ctx, next); err != nil {
		return fmt.Errorf("persist titles: %w", err)
	}
	s.titles = next
	return nil
}

// BulkAdd assigns sequential ids starting at max+1, drops candidates
// whose title already exists, persists and returns the admitted count.
// Items are assumed already normalized by the caller.
func (s *Store) BulkAdd(ctx context.Context, items []domain.Title) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nextID := domain.NextID(s.titles)
	withIDs := make([]domain.Title, len(items))
	for i, item := range items {
		item.ID = nextID
		nextID++
		withIDs[i] = item
	}

	admitted := Dedupe(s.titles, withIDs)
	if len(admitted) == 0 {
		return 0, nil
	}
	next := append(append([]domain.Title(nil), s.titles...), admitted...)
	if err := s.repo.SaveTitles(ctx, next); err != nil {
		return 0, fmt.Errorf("persist titles: %w", err)
	}
	s.titles = next
	s.logger.Info("titles bulk added", slog.Int("admitted", len(admitted)), slog.Int("offered", len(items)))
	return len(admitted), nil
}

// ImportPayload admits the items of a cloud document: the payload is
// either a top-level JSON array or an object with a results array.
// All items are normalized, deduplicated against the current
// collection and persisted together with a new Source record carrying
// the admitted count. There are no partial imports: any failure aborts
// the whole operation.
func (s *Store) ImportPayload(ctx context.Context, payload []byte, sourceName, sourceOrigin string) (int, error) {
	items, err := extractItems(payload)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, domain.ErrEmptyPayload
	}

	candidates := make([]domain.Title, 0, len(items))
	for _, item := range items {
		t, err := Normalize(item)
		if err != nil {
			return 0, err
		}
		// Cloud feeds guarantee no stable external id.
		t.ID = domain.NewCloudID()
		candidates = append(candidates, t)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	admitted := Dedupe(s.titles, candidates)
	nextTitles := s.titles
	if len(admitted) > 0 {
		nextTitles = append(append([]domain.Title(nil), s.titles...), admitted...)
		if err := s.repo.SaveTitles(ctx, nextTitles); err != nil {
			return 0, fmt.Errorf("persist titles: %w", err)
		}
	}

	source := domain.NewSource(sourceName, sourceOrigin, len(admitted), time.Now())
	nextSources := append(append([]domain.Source(nil), s.sources...), source)
	if err := s.repo.SaveSources(ctx, nextSources); err != nil {
		// Undo the titles write so a restart never surfaces imported
		// titles without their Source record.
		if len(admitted) > 0 {
			if rbErr := s.repo.SaveTitles(ctx, s.titles); rbErr != nil {
				s.logger.Error("titles rollback failed after sources write error",
					slog.String("source", sourceName),
					slog.String("error", rbErr.Error()),
				)
			}
		}
		return 0, fmt.Errorf("persist sources: %w", err)
	}

	s.titles = nextTitles
	s.sources = nextSources
	s.logger.Info("cloud import admitted",
		slog.String("source", sourceName),
		slog.Int("offered", len(items)),
		slog.Int("admitted", len(admitted)),
	)
	return len(admitted), nil
}

// RemoveSource deletes the Source record only. Titles already merged
// in stay: nothing ties a title back to the source that admitted it.
func (s *Store) RemoveSource(ctx context.Context, sourceID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.Source, 0, len(s.sources))
	for _, src := range s.sources {
		if src.ID != sourceID {
			next = append(next, src)
		}
	}
	if len(next) == len(s.sources) {
		return nil
	}
	if err := s.repo.SaveSources(ctx, next); err != nil {
		return fmt.Errorf("persist sources: %w", err)
	}
	s.sources = next
	return nil
}

// extractItems accepts either a bare array of items or an object whose
// results field holds the array.
func extractItems(payload []byte) ([]map[string]any, error) {
	var direct []map[string]any
	if err := json.Unmarshal(payload, &direct); err == nil {
		return direct, nil
	}
	var wrapped struct {
		Results []map[string]any `json:"results"`
	}
	if err := json.Unmarshal(payload, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidCloudFormat, firstBytes(payload))
	}
	return wrapped.Results, nil
}

func firstBytes(payload []byte) string {
	const limit = 48
	if len(payload) <= limit {
		return string(payload)
	}
	return string(payload[:limit]) + "..."
}
