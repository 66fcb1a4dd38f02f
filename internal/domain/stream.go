package domain

// Addon is a third-party service queried for candidate playable
// streams for a title.
type Addon struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// StreamCandidate is one playable source offered by an addon. URL is
// either a direct locator or a magnet identifier synthesized from
// InfoHash. Candidates are ephemeral: produced per resolution request
// and never persisted.
type StreamCandidate struct {
	Title      string `json:"title"`
	SourceName string `json:"name"`
	InfoHash   string `json:"infoHash,omitempty"`
	FileIndex  int    `json:"fileIdx,omitempty"`
	URL        string `json:"url"`
}
