package search

import (
	"fmt"
	"strings"
)

// FormatResults renders hits as plain text for the terminal and MCP.
func FormatResults(results []Result) string {
	if len(results) == 0 {
		return "No matching notes."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d note(s):\n\n", len(results))
	for n, r := range results {
		fmt.Fprintf(&sb, "--- %d. %s (similarity: %.4f) ---\n", n+1, r.VideoID, r.Similarity)
		fmt.Fprintf(&sb, "ID: %s\n", r.ID)
		if r.Style != "" {
			fmt.Fprintf(&sb, "Style: %s\n", r.Style)
		}
		if !r.CreatedAt.IsZero() {
			fmt.Fprintf(&sb, "Created: %s\n", r.CreatedAt.Format("2006-01-02 15:04"))
		}
		sb.WriteString("\n")
		sb.WriteString(r.Snippet)
		sb.WriteString("\n\n")
	}
	return sb.String()
}
