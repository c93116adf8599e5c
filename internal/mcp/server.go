// Package mcp exposes note generation to agents over the Model Context Protocol.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/ytnotes/internal/history"
	"github.com/ziadkadry99/ytnotes/internal/notes"
	"github.com/ziadkadry99/ytnotes/internal/search"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Generator produces notes for one request.
type Generator interface {
	Generate(ctx context.Context, req notes.Request) (*notes.Result, error)
}

// HistoryReader is the read side of the history store.
type HistoryReader interface {
	List(ctx context.Context, filter history.ListFilter) ([]history.Record, error)
	Get(ctx context.Context, id string) (*history.Record, error)
}

// Server wraps an MCP server that exposes the notes tools.
type Server struct {
	notes   Generator
	history HistoryReader
	index   *search.Index
	mcp     *server.MCPServer
}

// NewServer creates an MCP server. hist and index may be nil; their tools
// then report that the feature is unavailable.
func NewServer(gen Generator, hist HistoryReader, index *search.Index) *Server {
	s := &Server{
		notes:   gen,
		history: hist,
		index:   index,
	}

	s.mcp = server.NewMCPServer(
		"ytnotes",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(generateNotesTool, s.handleGenerateNotes)
	s.mcp.AddTool(listNotesTool, s.handleListNotes)
	s.mcp.AddTool(getNotesTool, s.handleGetNotes)
	s.mcp.AddTool(searchNotesTool, s.handleSearchNotes)
}

// Serve starts the MCP server on stdio. Stdout carries protocol messages, so
// all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
