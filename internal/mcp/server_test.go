package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/ytnotes/internal/db"
	"github.com/ziadkadry99/ytnotes/internal/history"
	"github.com/ziadkadry99/ytnotes/internal/notes"
	"github.com/ziadkadry99/ytnotes/internal/search"
)

type mockGenerator struct {
	last notes.Request
	err  error
}

func (m *mockGenerator) Generate(_ context.Context, req notes.Request) (*notes.Result, error) {
	m.last = req
	if m.err != nil {
		return nil, m.err
	}
	return &notes.Result{Notes: "# Notes for " + req.YouTubeURL}, nil
}

// mockEmbedder returns a constant vector; ordering is irrelevant to these tests.
type mockEmbedder struct{}

func (m *mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = []float32{1, 0, 0}
	}
	return result, nil
}
func (m *mockEmbedder) Dimensions() int { return 3 }
func (m *mockEmbedder) Name() string    { return "mock" }

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", result.Content[0])
	}
	return tc.Text
}

func call(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func setupHistory(t *testing.T) *history.Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return history.NewStore(database)
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		tool     mcp.Tool
		wantName string
	}{
		{generateNotesTool, "generate_notes"},
		{listNotesTool, "list_notes"},
		{getNotesTool, "get_notes"},
		{searchNotesTool, "search_notes"},
	}

	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv := NewServer(&mockGenerator{}, nil, nil)
	if srv == nil || srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
}

func TestHandleGenerateNotes(t *testing.T) {
	gen := &mockGenerator{}
	srv := NewServer(gen, nil, nil)
	ctx := context.Background()

	t.Run("default style", func(t *testing.T) {
		result, err := srv.handleGenerateNotes(ctx, call(map[string]any{"youtube_url": "https://youtu.be/dQw4w9WgXcQ"}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		if gen.last.Style != "default" {
			t.Errorf("style = %q", gen.last.Style)
		}
		if !strings.HasPrefix(textOf(t, result), "# Notes for") {
			t.Errorf("text = %q", textOf(t, result))
		}
	})

	t.Run("missing url", func(t *testing.T) {
		result, _ := srv.handleGenerateNotes(ctx, call(map[string]any{}))
		if !result.IsError {
			t.Error("expected error for missing youtube_url")
		}
	})

	t.Run("generation failure", func(t *testing.T) {
		failing := NewServer(&mockGenerator{err: notes.ErrInvalidURL}, nil, nil)
		result, _ := failing.handleGenerateNotes(ctx, call(map[string]any{"youtube_url": "nope"}))
		if !result.IsError || textOf(t, result) != "Invalid YouTube URL." {
			t.Errorf("result = %+v", result)
		}
	})
}

func TestHandleListAndGetNotes(t *testing.T) {
	store := setupHistory(t)
	ctx := context.Background()
	saved, _ := store.Save(ctx, history.Record{VideoID: "dQw4w9WgXcQ", YouTubeURL: "https://youtu.be/dQw4w9WgXcQ", Notes: "full notes"})

	srv := NewServer(&mockGenerator{}, store, nil)

	result, _ := srv.handleListNotes(ctx, call(map[string]any{"limit": float64(5)}))
	if result.IsError || !strings.Contains(textOf(t, result), saved.ID) {
		t.Errorf("list = %+v", result)
	}

	result, _ = srv.handleGetNotes(ctx, call(map[string]any{"id": saved.ID}))
	if result.IsError || textOf(t, result) != "full notes" {
		t.Errorf("get = %+v", result)
	}

	result, _ = srv.handleGetNotes(ctx, call(map[string]any{"id": "missing"}))
	if !result.IsError {
		t.Error("expected error for unknown id")
	}
}

func TestHandleListNotesEmptyAndDisabled(t *testing.T) {
	ctx := context.Background()

	empty := NewServer(&mockGenerator{}, setupHistory(t), nil)
	result, _ := empty.handleListNotes(ctx, call(map[string]any{}))
	if result.IsError {
		t.Error("empty history should not be an error")
	}

	disabled := NewServer(&mockGenerator{}, nil, nil)
	result, _ = disabled.handleListNotes(ctx, call(map[string]any{}))
	if !result.IsError {
		t.Error("expected error without history")
	}
}

func TestHandleSearchNotes(t *testing.T) {
	ctx := context.Background()
	idx, err := search.New(&mockEmbedder{}, "")
	if err != nil {
		t.Fatalf("search.New: %v", err)
	}
	idx.Add(ctx, history.Record{ID: "r1", VideoID: "dQw4w9WgXcQ", Notes: "entropy and thermodynamics"})

	srv := NewServer(&mockGenerator{}, nil, idx)
	result, _ := srv.handleSearchNotes(ctx, call(map[string]any{"query": "entropy"}))
	if result.IsError || !strings.Contains(textOf(t, result), "r1") {
		t.Errorf("search = %+v", result)
	}

	result, _ = srv.handleSearchNotes(ctx, call(map[string]any{}))
	if !result.IsError {
		t.Error("expected error for missing query")
	}

	disabled := NewServer(&mockGenerator{}, nil, nil)
	result, _ = disabled.handleSearchNotes(ctx, call(map[string]any{"query": "x"}))
	if !result.IsError {
		t.Error("expected error when search is disabled")
	}
}
