package apihttp

import (
	"net/http"
	"strings"

	"cinefeed/internal/domain"
	"cinefeed/internal/metrics"
)

type resolveRequest struct {
	Type       string         `json:"type"`
	ExternalID string         `json:"externalId"`
	Addons     []domain.Addon `json:"addons"`
}

func (s *Server) handleResolveStreams(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if s.resolver == nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", "stream resolver not configured")
		return
	}
	var req resolveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.ExternalID) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "externalId is required")
		return
	}
	addons := req.Addons
	if len(addons) == 0 {
		addons = s.defaultAddons
	}
	candidates := s.resolver.Resolve(r.Context(), domain.NormalizeContentType(req.Type), req.ExternalID, addons)
	if len(candidates) == 0 {
		metrics.AddonQueriesTotal.WithLabelValues("empty").Inc()
	} else {
		metrics.AddonQueriesTotal.WithLabelValues("ok").Inc()
		metrics.StreamCandidatesTotal.Add(float64(len(candidates)))
	}
	if candidates == nil {
		candidates = []domain.StreamCandidate{}
	}
	writeJSON(w, http.StatusOK, candidates)
}
