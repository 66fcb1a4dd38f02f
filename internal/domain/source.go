package domain

import "time"

// Source is a registered bulk-import origin and its admission count.
// Removing a Source does not cascade to the titles it admitted: no
// back-reference from Title to Source is kept, so selective rollback
// is not supported.
type Source struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Origin string `json:"origin"`
	Count  int    `json:"count"`
	Date   string `json:"date"`
}

// NewSource builds a Source record for a completed import. The id is
// the creation timestamp in unix milliseconds.
func NewSource(name, origin string, count int, now time.Time) Source {
	return Source{
		ID:     now.UnixMilli(),
		Name:   name,
		Origin: origin,
		Count:  count,
		Date:   now.Format("02/01/2006"),
	}
}
