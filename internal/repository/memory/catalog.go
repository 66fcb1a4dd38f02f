package memory

import (
	"context"
	"sync"

	"cinefeed/internal/domain"
)

// CatalogRepository keeps both collections in process memory. It backs
// tests and zero-config runs where no Mongo URI is supplied; nothing
// survives a restart.
type CatalogRepository struct {
	mu      sync.RWMutex
	titles  []domain.Title
	sources []domain.Source
}

func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{}
}

func (r *CatalogRepository) LoadTitles(ctx context.Context) ([]domain.Title, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Title(nil), r.titles...), nil
}

func (r *CatalogRepository) SaveTitles(ctx context.Context, titles []domain.Title) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.titles = append([]domain.Title(nil), titles...)
	return nil
}

func (r *CatalogRepository) LoadSources(ctx context.Context) ([]domain.Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Source(nil), r.sources...), nil
}

func (r *CatalogRepository) SaveSources(ctx context.Context, sources []domain.Source) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = append([]domain.Source(nil), sources...)
	return nil
}
