package apihttp

import (
	"net/http"
	"strings"

	"cinefeed/internal/metrics"
)

type importRequest struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.catalog.Sources())
	case http.MethodPost:
		if s.importer == nil {
			writeError(w, http.StatusServiceUnavailable, "unavailable", "cloud import not configured")
			return
		}
		var req importRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.URL) == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "url is required")
			return
		}
		added, err := s.importer.ImportFromURL(r.Context(), req.URL, req.Name)
		if err != nil {
			metrics.CloudImportsTotal.WithLabelValues("error").Inc()
			writeDomainError(w, err)
			return
		}
		metrics.CloudImportsTotal.WithLabelValues("ok").Inc()
		metrics.CloudImportedTitles.Add(float64(added))
		metrics.CatalogTitles.Set(float64(len(s.catalog.Titles())))
		metrics.CatalogSources.Set(float64(len(s.catalog.Sources())))
		writeJSON(w, http.StatusCreated, map[string]int{"added": added})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

func (s *Server) handleSourceByID(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodDelete) {
		return
	}
	id, err := pathID(r.URL.Path, "/api/sources/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid source id")
		return
	}
	if err := s.catalog.RemoveSource(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	metrics.CatalogSources.Set(float64(len(s.catalog.Sources())))
	w.WriteHeader(http.StatusNoContent)
}
