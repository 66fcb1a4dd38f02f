package apihttp

import (
	"net/http"
	"strings"
)

type startPlaybackRequest struct {
	Magnet string `json:"magnet"`
}

func (s *Server) handlePlaybackStart(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if s.playback == nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", "playback not configured")
		return
	}
	var req startPlaybackRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !strings.HasPrefix(req.Magnet, "magnet:") {
		writeError(w, http.StatusBadRequest, "invalid_request", "magnet link required")
		return
	}
	updates, err := s.playback.Start(r.Context(), req.Magnet)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	go s.publishTelemetry(updates)
	writeJSON(w, http.StatusAccepted, s.playback.State())
}

func (s *Server) handlePlaybackPlaying(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if s.playback == nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", "playback not configured")
		return
	}
	if err := s.playback.MarkPlaying(); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.playback.State())
}

func (s *Server) handlePlaybackState(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if s.playback == nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", "playback not configured")
		return
	}
	writeJSON(w, http.StatusOK, s.playback.State())
}

func (s *Server) handlePlaybackStop(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if s.playback == nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", "playback not configured")
		return
	}
	s.playback.Stop()
	w.WriteHeader(http.StatusNoContent)
}
