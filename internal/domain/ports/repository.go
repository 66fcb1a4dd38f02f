package ports

import (
	"context"

	"cinefeed/internal/domain"
)

// CatalogRepository persists the two owned collections as whole
// documents: the catalog store writes the full collection on every
// mutation and reads it back once at process start.
type CatalogRepository interface {
	LoadTitles(ctx context.Context) ([]domain.Title, error)
	SaveTitles(ctx context.Context, titles []domain.Title) error
	LoadSources(ctx context.Context) ([]domain.Source, error)
	SaveSources(ctx context.Context, sources []domain.Source) error
}
