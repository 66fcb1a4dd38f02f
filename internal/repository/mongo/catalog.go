package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cinefeed/internal/domain"
)

// The catalog persists as two whole documents, one per owned
// collection. The store rewrites the full collection on every
// mutation, so per-item updates buy nothing here.
const (
	titlesDocID  = "titles"
	sourcesDocID = "sources"
)

type titleDoc struct {
	ID          int64  `bson:"id"`
	Title       string `bson:"title"`
	Cover       string `bson:"cover"`
	Backdrop    string `bson:"backdrop"`
	Description string `bson:"description"`
	Year        string `bson:"year"`
	Type        string `bson:"type"`
	Category    string `bson:"category"`
	VideoURL    string `bson:"videoUrl"`
	IsExternal  bool   `bson:"isExternal,omitempty"`
}

type sourceDoc struct {
	ID     int64  `bson:"id"`
	Name   string `bson:"name"`
	Origin string `bson:"origin"`
	Count  int    `bson:"count"`
	Date   string `bson:"date"`
}

type titlesCollectionDoc struct {
	ID     string     `bson:"_id"`
	Titles []titleDoc `bson:"titles"`
}

type sourcesCollectionDoc struct {
	ID      string      `bson:"_id"`
	Sources []sourceDoc `bson:"sources"`
}

type CatalogRepository struct {
	collection *mongo.Collection
}

func NewCatalogRepository(client *mongo.Client, dbName, collectionName string) *CatalogRepository {
	return &CatalogRepository{collection: client.Database(dbName).Collection(collectionName)}
}

func Connect(ctx context.Context, uri string, extra ...*options.ClientOptions) (*mongo.Client, error) {
	opts := append([]*options.ClientOptions{options.Client().ApplyURI(uri)}, extra...)
	client, err := mongo.Connect(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (r *CatalogRepository) LoadTitles(ctx context.Context) ([]domain.Title, error) {
	var doc titlesCollectionDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": titlesDocID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	titles := make([]domain.Title, 0, len(doc.Titles))
	for _, d := range doc.Titles {
		titles = append(titles, fromTitleDoc(d))
	}
	return titles, nil
}

func (r *CatalogRepository) SaveTitles(ctx context.Context, titles []domain.Title) error {
	docs := make([]titleDoc, 0, len(titles))
	for _, t := range titles {
		docs = append(docs, toTitleDoc(t))
	}
	_, err := r.collection.ReplaceOne(
		ctx,
		bson.M{"_id": titlesDocID},
		titlesCollectionDoc{ID: titlesDocID, Titles: docs},
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *CatalogRepository) LoadSources(ctx context.Context) ([]domain.Source, error) {
	var doc sourcesCollectionDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": sourcesDocID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	sources := make([]domain.Source, 0, len(doc.Sources))
	for _, d := range doc.Sources {
		sources = append(sources, domain.Source(d))
	}
	return sources, nil
}

func (r *CatalogRepository) SaveSources(ctx context.Context, sources []domain.Source) error {
	docs := make([]sourceDoc, 0, len(sources))
	for _, s := range sources {
		docs = append(docs, sourceDoc(s))
	}
	_, err := r.collection.ReplaceOne(
		ctx,
		bson.M{"_id": sourcesDocID},
		sourcesCollectionDoc{ID: sourcesDocID, Sources: docs},
		options.Replace().SetUpsert(true),
	)
	return err
}

func toTitleDoc(t domain.Title) titleDoc {
	return titleDoc{
		ID:          t.ID,
		Title:       t.Title,
		Cover:       t.Cover,
		Backdrop:    t.Backdrop,
		Description: t.Description,
		Year:        t.Year,
		Type:        string(t.Type),
		Category:    t.Category,
		VideoURL:    t.VideoURL,
		IsExternal:  t.IsExternal,
	}
}

func fromTitleDoc(d titleDoc) domain.Title {
	return domain.Title{
		ID:          d.ID,
		Title:       d.Title,
		Cover:       d.Cover,
		Backdrop:    d.Backdrop,
		Description: d.Description,
		Year:        d.Year,
		Type:        domain.ContentType(d.Type),
		Category:    d.Category,
		VideoURL:    d.VideoURL,
		IsExternal:  d.IsExternal,
	}
}
