package dashboard

import (
	"encoding/json"
	"net/http"

	"github.com/ziadkadry99/ytnotes/internal/history"
)

func (d *Dashboard) handleStats(w http.ResponseWriter, r *http.Request) {
	if d.history == nil {
		writeJSON(w, http.StatusOK, history.Stats{ByStyle: map[string]int{}})
		return
	}
	st, err := d.history.Stats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
