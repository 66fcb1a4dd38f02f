package apihttp

import (
	"net/http"

	"cinefeed/internal/domain"
	"cinefeed/internal/metrics"
)

type titleRequest struct {
	Title       string `json:"title"`
	Cover       string `json:"cover"`
	Backdrop    string `json:"backdrop"`
	Description string `json:"description"`
	Year        string `json:"year"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	VideoURL    string `json:"videoUrl"`
}

func (req titleRequest) toDomain() domain.Title {
	return domain.Title{
		Title:       req.Title,
		Cover:       req.Cover,
		Backdrop:    req.Backdrop,
		Description: req.Description,
		Year:        req.Year,
		Type:        domain.NormalizeContentType(req.Type),
		Category:    req.Category,
		VideoURL:    req.VideoURL,
	}
}

func (s *Server) handleTitles(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.catalog.Titles())
	case http.MethodPost:
		var req titleRequest
		if !decodeBody(w, r, &req) {
			return
		}
		title, err := s.catalog.AddTitle(r.Context(), req.toDomain())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		metrics.CatalogTitles.Set(float64(len(s.catalog.Titles())))
		writeJSON(w, http.StatusCreated, title)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

func (s *Server) handleTitleByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut && r.Method != http.MethodPatch {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	id, err := pathID(r.URL.Path, "/api/catalog/titles/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid title id")
		return
	}
	var req titleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.catalog.UpdateTitle(r.Context(), id, req.toDomain()); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBulkAdd(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var reqs []titleRequest
	if !decodeBody(w, r, &reqs) {
		return
	}
	items := make([]domain.Title, 0, len(reqs))
	for _, req := range reqs {
		items = append(items, req.toDomain())
	}
	added, err := s.catalog.BulkAdd(r.Context(), items)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	metrics.CatalogTitles.Set(float64(len(s.catalog.Titles())))
	writeJSON(w, http.StatusOK, map[string]int{"added": added})
}
