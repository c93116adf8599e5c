package mcp

import "github.com/mark3labs/mcp-go/mcp"

var generateNotesTool = mcp.NewTool("generate_notes",
	mcp.WithDescription("Generate structured lecture notes from a YouTube video's transcript."),
	mcp.WithString("youtube_url",
		mcp.Required(),
		mcp.Description("YouTube watch, embed, /v/ or youtu.be link"),
	),
	mcp.WithString("style",
		mcp.Description("Note style (default \"default\")"),
		mcp.Enum("default", "concise", "detailed", "key_points"),
	),
)

var listNotesTool = mcp.NewTool("list_notes",
	mcp.WithDescription("List previously generated notes, newest first."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of entries to return (default 10)"),
	),
	mcp.WithString("video_id",
		mcp.Description("Only list notes for this 11-character video id"),
	),
)

var getNotesTool = mcp.NewTool("get_notes",
	mcp.WithDescription("Get the full text of previously generated notes by id."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("History record id as returned by list_notes"),
	),
)

var searchNotesTool = mcp.NewTool("search_notes",
	mcp.WithDescription("Semantically search previously generated notes."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 5)"),
	),
)
