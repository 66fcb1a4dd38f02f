package apihttp

import (
	"errors"
	"net/http"
	"strings"

	"cinefeed/internal/browse"
	"cinefeed/internal/domain"
)

func (s *Server) viewForType(ct domain.ContentType) BrowseView {
	if ct == domain.ContentSeries {
		return s.series
	}
	return s.movies
}

func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	ct := domain.ContentMovie
	if strings.HasSuffix(r.URL.Path, "/series") {
		ct = domain.ContentSeries
	}
	view := s.viewForType(ct)
	if view == nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", "browse view not configured")
		return
	}
	writeJSON(w, http.StatusOK, view.MergedView())
}

type loadMoreRequest struct {
	Type     string `json:"type"`
	Category string `json:"category"`
}

func (s *Server) handleLoadMore(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req loadMoreRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Category) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "category is required")
		return
	}
	view := s.viewForType(domain.NormalizeContentType(req.Type))
	if view == nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", "browse view not configured")
		return
	}
	added := view.LoadMore(r.Context(), req.Category)
	writeJSON(w, http.StatusOK, map[string]int{"added": added})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "q is required")
		return
	}
	view := s.viewForType(parseContentTypeQuery(r))
	if view == nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", "browse view not configured")
		return
	}
	results, err := view.Search(r.Context(), query)
	if err != nil {
		if errors.Is(err, browse.ErrSearchSuperseded) {
			writeError(w, http.StatusConflict, "superseded", "a newer search replaced this one")
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if s.provider == nil || !s.provider.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "unavailable", "metadata provider not configured")
		return
	}
	ct := parseContentTypeQuery(r)
	page, err := s.provider.Trending(r.Context(), string(ct))
	if err != nil {
		writeError(w, http.StatusBadGateway, "provider_error", "metadata provider request failed")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleDetails(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if s.provider == nil || !s.provider.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "unavailable", "metadata provider not configured")
		return
	}
	id, err := parseIntQuery(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "id must be an integer")
		return
	}
	detail, err := s.provider.Details(r.Context(), string(parseContentTypeQuery(r)), id)
	if err != nil {
		writeError(w, http.StatusBadGateway, "provider_error", "metadata provider request failed")
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleSeason(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if s.provider == nil || !s.provider.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "unavailable", "metadata provider not configured")
		return
	}
	seriesID, err := parseIntQuery(r, "seriesId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "seriesId must be an integer")
		return
	}
	season, err := parseIntQuery(r, "season")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "season must be an integer")
		return
	}
	result, err := s.provider.SeasonDetails(r.Context(), seriesID, season)
	if err != nil {
		writeError(w, http.StatusBadGateway, "provider_error", "metadata provider request failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCredits(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if s.provider == nil || !s.provider.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "unavailable", "metadata provider not configured")
		return
	}
	id, err := parseIntQuery(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "id must be an integer")
		return
	}
	credits, err := s.provider.Credits(r.Context(), string(parseContentTypeQuery(r)), id)
	if err != nil {
		writeError(w, http.StatusBadGateway, "provider_error", "metadata provider request failed")
		return
	}
	writeJSON(w, http.StatusOK, credits)
}
