package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/ytnotes/internal/history"
	"github.com/ziadkadry99/ytnotes/internal/notes"
	"github.com/ziadkadry99/ytnotes/internal/search"
)

func (s *Server) handleGenerateNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("youtube_url")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: youtube_url"), nil
	}

	res, err := s.notes.Generate(ctx, notes.Request{
		YouTubeURL: url,
		Style:      request.GetString("style", string(notes.StyleDefault)),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(res.Notes), nil
}

func (s *Server) handleListNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.history == nil {
		return mcp.NewToolResultError("history is not available"), nil
	}

	limit := request.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}
	records, err := s.history.List(ctx, history.ListFilter{
		VideoID: request.GetString("video_id", ""),
		Limit:   limit,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing notes failed: %v", err)), nil
	}
	if len(records) == 0 {
		return mcp.NewToolResultText("No notes generated yet. Use generate_notes first."), nil
	}

	var sb strings.Builder
	for _, r := range records {
		fmt.Fprintf(&sb, "%s  %s  %-10s  %s\n", r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Style, r.YouTubeURL)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleGetNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.history == nil {
		return mcp.NewToolResultError("history is not available"), nil
	}
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}

	rec, err := s.history.Get(ctx, id)
	if errors.Is(err, history.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("no notes with id %q", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading notes failed: %v", err)), nil
	}
	return mcp.NewToolResultText(rec.Notes), nil
}

func (s *Server) handleSearchNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	results, err := s.index.Query(ctx, query, request.GetInt("limit", 5))
	if errors.Is(err, search.ErrDisabled) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	return mcp.NewToolResultText(search.FormatResults(results)), nil
}
