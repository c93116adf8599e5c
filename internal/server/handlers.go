package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/ziadkadry99/ytnotes/internal/notes"
)

const maxRequestBytes = 64 << 10

type generateResponse struct {
	Notes string `json:"notes"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req notes.Request
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.Style == "" {
		req.Style = string(notes.StyleDefault)
	}

	res, err := s.deps.Notes.Generate(r.Context(), req)
	if err != nil {
		status := notes.StatusCode(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("generating notes", "url", req.YouTubeURL, "err", err)
		} else {
			s.logger.Warn("rejected notes request", "url", req.YouTubeURL, "err", err)
		}
		writeError(w, status, err.Error())
		return
	}

	s.logger.Info("notes generated",
		"video_id", res.VideoID,
		"style", res.Style,
		"model", res.Model,
		"duration", res.Duration.Round(time.Millisecond),
	)
	writeJSON(w, http.StatusOK, generateResponse{Notes: res.Notes})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
