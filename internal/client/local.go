package client

import (
	"context"

	"github.com/ziadkadry99/ytnotes/internal/notes"
)

// Generator is the in-process note pipeline.
type Generator interface {
	Generate(ctx context.Context, req notes.Request) (*notes.Result, error)
}

// LocalAPI runs generation in process, answering errors the way the HTTP
// endpoint would.
type LocalAPI struct {
	gen Generator
}

// NewLocalAPI wraps gen as an API.
func NewLocalAPI(gen Generator) *LocalAPI {
	return &LocalAPI{gen: gen}
}

func (a *LocalAPI) GenerateNotes(ctx context.Context, youtubeURL, style string) (string, error) {
	if style == "" {
		style = string(notes.StyleDefault)
	}
	res, err := a.gen.Generate(ctx, notes.Request{YouTubeURL: youtubeURL, Style: style})
	if err != nil {
		return "", &APIError{Status: notes.StatusCode(err), Message: err.Error()}
	}
	return res.Notes, nil
}
