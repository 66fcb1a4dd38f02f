package domain

import (
	"errors"
	"math/rand/v2"
	"time"
)

type ContentType string

const (
	ContentMovie  ContentType = "movie"
	ContentSeries ContentType = "series"
)

// NormalizeContentType maps loose type labels (TMDB uses "tv" for series)
// to a canonical ContentType, defaulting to movie.
func NormalizeContentType(raw string) ContentType {
	switch raw {
	case "series", "tv":
		return ContentSeries
	default:
		return ContentMovie
	}
}

// Title is one canonical catalog entry, regardless of which origin
// (seed data, admin add, cloud import, provider lookup) produced it.
type Title struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Cover       string      `json:"cover"`
	Backdrop    string      `json:"backdrop"`
	Description string      `json:"description"`
	Year        string      `json:"year"`
	Type        ContentType `json:"type"`
	Category    string      `json:"category"`
	VideoURL    string      `json:"videoUrl"`
	IsExternal  bool        `json:"isExternal,omitempty"`
}

// Validate checks domain invariants for Title.
func (t Title) Validate() error {
	if t.Title == "" {
		return errors.New("title is required")
	}
	switch t.Type {
	case ContentMovie, ContentSeries:
		// valid
	case "":
		return errors.New("type is required")
	default:
		return errors.New("invalid type: " + string(t.Type))
	}
	return nil
}

// NextID returns the id for a locally created title: one past the
// largest id in the collection, starting at 1.
func NextID(titles []Title) int64 {
	var max int64
	for _, t := range titles {
		if t.ID > max {
			max = t.ID
		}
	}
	return max + 1
}

// NewCloudID generates a process-unique id for a cloud-imported title.
// Cloud feeds carry no stable external id, so the id is time-based with
// a random tie-break for items admitted within the same millisecond.
func NewCloudID() int64 {
	return time.Now().UnixMilli()*1000 + rand.Int64N(1000)
}
