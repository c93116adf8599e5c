package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/ytnotes/internal/db"
	"github.com/ziadkadry99/ytnotes/internal/history"
)

func setupTest(t *testing.T) (chi.Router, *history.Store) {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	store := history.NewStore(database)
	r := chi.NewRouter()
	New(store).RegisterRoutes(r)
	return r, store
}

func TestIndexCarriesFormElements(t *testing.T) {
	r, _ := setupTest(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	body := w.Body.String()
	for _, id := range []string{"youtube-url", "notes-style", "generate-btn", "loader", "notes-output", "copy-btn", "download-btn"} {
		if !strings.Contains(body, `id="`+id+`"`) {
			t.Errorf("index missing element #%s", id)
		}
	}
}

func TestStaticScript(t *testing.T) {
	r, _ := setupTest(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/script.js", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	for _, want := range []string{"/generate_notes", "Copied!", "Downloaded!", "youtube_notes_", "Failed to generate notes",
		"data.notes.trim() === ''", "clearTimeout(btn._flashTimer)"} {
		if !strings.Contains(w.Body.String(), want) {
			t.Errorf("script missing %q", want)
		}
	}
}

func TestStatsEndpoint(t *testing.T) {
	r, store := setupTest(t)
	ctx := context.Background()

	store.Save(ctx, history.Record{VideoID: "aaaaaaaaaaa", YouTubeURL: "u", Style: "concise", Notes: "n", CostUSD: 0.5})
	store.Save(ctx, history.Record{VideoID: "aaaaaaaaaaa", YouTubeURL: "u", Style: "detailed", Notes: "n", CostUSD: 0.25})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var st history.Stats
	if err := json.NewDecoder(w.Body).Decode(&st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.TotalNotes != 2 || st.UniqueVideos != 1 || st.TotalCostUSD != 0.75 {
		t.Errorf("stats = %+v", st)
	}
}

func TestStatsWithoutHistory(t *testing.T) {
	r := chi.NewRouter()
	New(nil).RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"total_notes":0`) {
		t.Errorf("status = %d body = %s", w.Code, w.Body.String())
	}
}
