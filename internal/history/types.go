// Package history persists every generated set of notes.
package history

import "time"

// Record is one successful note generation.
type Record struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	VideoID      string    `json:"video_id"`
	YouTubeURL   string    `json:"youtube_url"`
	Style        string    `json:"style"`
	Notes        string    `json:"notes"`
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	CostUSD      float64   `json:"cost_usd"`
	DurationMS   int64     `json:"duration_ms"`
}

// ListFilter narrows List results. Zero fields match everything.
type ListFilter struct {
	VideoID string
	Style   string
	Limit   int
	Offset  int
}

// Stats summarizes the history table.
type Stats struct {
	TotalNotes   int            `json:"total_notes"`
	UniqueVideos int            `json:"unique_videos"`
	TotalCostUSD float64        `json:"total_cost_usd"`
	ByStyle      map[string]int `json:"by_style"`
}
