package domain

import "time"

// MediaFile is one entry of a swarm session's file list.
type MediaFile struct {
	Index  int    `json:"index"`
	Path   string `json:"path"`
	Length int64  `json:"length"`
}

// PlaybackState is a telemetry sample for one playback session:
// cumulative progress ratio and instantaneous download rate, published
// at 1 Hz while the session is live.
type PlaybackState struct {
	Magnet        string        `json:"magnet"`
	Phase         PlaybackPhase `json:"phase"`
	File          string        `json:"file,omitempty"`
	Progress      float64       `json:"progress"`
	DownloadSpeed int64         `json:"downloadSpeed"`
	Peers         int           `json:"peers"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}
