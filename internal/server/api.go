package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/mangaview/internal/library"
	"github.com/ziadkadry99/mangaview/internal/site"
)

// seriesDetail is the response of GET /api/series/{slug}.
type seriesDetail struct {
	site.IndexEntry
	Filtered []int `json:"filtered"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"series":   len(s.Catalog().Series()),
		"sessions": s.Sessions(),
	})
}

func (s *Server) handleListSeries(w http.ResponseWriter, r *http.Request) {
	series := library.FilterSeries(s.Catalog().Series(), r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, site.IndexEntries(series, s.cfg.Covers))
}

func (s *Server) handleGetSeries(w http.ResponseWriter, r *http.Request) {
	sr, ok := s.Catalog().Lookup(chi.URLParam(r, "slug"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "series not found"})
		return
	}
	entry := site.IndexEntries([]*library.Series{sr}, s.cfg.Covers)[0]
	writeJSON(w, http.StatusOK, seriesDetail{
		IndexEntry: entry,
		Filtered:   library.FilterChapters(entry.Chapters, r.URL.Query().Get("q")),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
