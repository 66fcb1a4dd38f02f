package domain

// Genre identifies one remote-provider genre and the display name its
// results are grouped under.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CategoryCursor points at the next provider page for one category.
// It is seeded at page 1 on the first load of a content-type view and
// advanced by exactly one on each successful load-more.
type CategoryCursor struct {
	GenreID int `json:"genreId"`
	Page    int `json:"page"`
}
