// Package search keeps a semantic index of generated notes.
package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	chromem "github.com/philippgille/chromem-go"

	"github.com/ziadkadry99/ytnotes/internal/embeddings"
	"github.com/ziadkadry99/ytnotes/internal/history"
)

const (
	collectionName  = "notes"
	maxIndexedChars = 8000
	defaultLimit    = 5
)

// ErrDisabled is returned by a nil Index.
var ErrDisabled = errors.New("search is disabled: no embedding provider configured")

// Result is one search hit.
type Result struct {
	ID         string    `json:"id"`
	VideoID    string    `json:"video_id"`
	YouTubeURL string    `json:"youtube_url"`
	Style      string    `json:"style"`
	CreatedAt  time.Time `json:"created_at"`
	Snippet    string    `json:"snippet"`
	Similarity float32   `json:"similarity"`
}

// Index is a chromem-go collection of notes keyed by history record id.
// A nil *Index is valid and reports ErrDisabled.
type Index struct {
	mu         sync.RWMutex
	db         *chromem.DB
	collection *chromem.Collection
}

// New opens the index. An empty dir keeps it in memory; otherwise it is
// persisted (gzip-compressed) under dir.
func New(embedder embeddings.Embedder, dir string) (*Index, error) {
	var (
		db  *chromem.DB
		err error
	)
	if dir == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(dir, true)
		if err != nil {
			return nil, fmt.Errorf("opening search index: %w", err)
		}
	}

	col, err := db.GetOrCreateCollection(collectionName, nil, embeddings.ToChromemFunc(embedder))
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return &Index{db: db, collection: col}, nil
}

// Add indexes rec's notes. Re-adding an id replaces it.
func (i *Index) Add(ctx context.Context, rec history.Record) error {
	if i == nil {
		return ErrDisabled
	}
	content := truncate(rec.Notes, maxIndexedChars)

	i.mu.Lock()
	defer i.mu.Unlock()
	return i.collection.AddDocument(ctx, chromem.Document{
		ID:      rec.ID,
		Content: content,
		Metadata: map[string]string{
			"video_id":    rec.VideoID,
			"youtube_url": rec.YouTubeURL,
			"style":       rec.Style,
			"created_at":  rec.CreatedAt.UTC().Format(time.RFC3339),
		},
	})
}

// Query returns up to limit notes most similar to q.
func (i *Index) Query(ctx context.Context, q string, limit int) ([]Result, error) {
	if i == nil {
		return nil, ErrDisabled
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	// chromem-go requires nResults <= collection size.
	count := i.collection.Count()
	if count == 0 {
		return nil, nil
	}
	limit = min(limit, count)

	hits, err := i.collection.Query(ctx, q, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	out := make([]Result, len(hits))
	for n, h := range hits {
		created, _ := time.Parse(time.RFC3339, h.Metadata["created_at"])
		out[n] = Result{
			ID:         h.ID,
			VideoID:    h.Metadata["video_id"],
			YouTubeURL: h.Metadata["youtube_url"],
			Style:      h.Metadata["style"],
			CreatedAt:  created,
			Snippet:    snippet(h.Content),
			Similarity: h.Similarity,
		}
	}
	return out, nil
}

// Delete drops a record from the index.
func (i *Index) Delete(ctx context.Context, id string) error {
	if i == nil {
		return ErrDisabled
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.collection.Delete(ctx, nil, nil, id)
}

// DeleteAll drops every id that is present in the index. It is a no-op on a
// nil Index.
func (i *Index) DeleteAll(ctx context.Context, ids []string) error {
	if i == nil {
		return nil
	}
	i.mu.Lock()
	defer i.mu.Unlock()

	present := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := i.collection.GetByID(ctx, id); err == nil {
			present = append(present, id)
		}
	}
	if len(present) == 0 {
		return nil
	}
	return i.collection.Delete(ctx, nil, nil, present...)
}

// DeleteHook keeps the index in step with the history table. Failures are
// logged; the records are already gone from the table.
func (i *Index) DeleteHook(logger *log.Logger) history.DeleteHook {
	return func(ctx context.Context, ids []string) {
		if err := i.DeleteAll(ctx, ids); err != nil {
			logger.Warn("could not remove notes from search index", "ids", ids, "err", err)
		}
	}
}

// Count returns the number of indexed notes.
func (i *Index) Count() int {
	if i == nil {
		return 0
	}
	return i.collection.Count()
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func snippet(s string) string {
	const snippetRunes = 240
	r := []rune(s)
	if len(r) <= snippetRunes {
		return s
	}
	return string(r[:snippetRunes]) + "…"
}
