package search

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts GET /api/search. idx may be nil.
func RegisterRoutes(r chi.Router, idx *Index) {
	r.Get("/api/search", handleSearch(idx))
}

func handleSearch(idx *Index) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if idx == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": ErrDisabled.Error()})
			return
		}
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		if q == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "q is required"})
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		results, err := idx.Query(r.Context(), q, limit)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if results == nil {
			results = []Result{}
		}
		writeJSON(w, http.StatusOK, results)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
