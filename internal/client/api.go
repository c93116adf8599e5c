package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// GenericError is shown when the server fails without an error message.
const GenericError = "Failed to generate notes"

// API is the note-generation backend.
type API interface {
	GenerateNotes(ctx context.Context, youtubeURL, style string) (string, error)
}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// APIClient calls POST /generate_notes on a ytnotes server.
type APIClient struct {
	baseURL string
	client  *http.Client
}

// NewAPIClient creates a client for the server at baseURL. A nil client uses
// http.DefaultClient; no timeout is imposed beyond the caller's context.
func NewAPIClient(baseURL string, client *http.Client) *APIClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &APIClient{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

type generateRequest struct {
	YouTubeURL string `json:"youtube_url"`
	Style      string `json:"style"`
}

type generateResponse struct {
	Notes *string `json:"notes"`
	Error string  `json:"error"`
}

// GenerateNotes posts one request. Non-2xx responses become *APIError
// carrying the server's error field, or GenericError when it has none.
func (c *APIClient) GenerateNotes(ctx context.Context, youtubeURL, style string) (string, error) {
	body, err := json.Marshal(generateRequest{YouTubeURL: youtubeURL, Style: style})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate_notes", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out generateResponse
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := out.Error
		if decodeErr != nil || msg == "" {
			msg = GenericError
		}
		return "", &APIError{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil || out.Notes == nil {
		return "", &APIError{Status: resp.StatusCode, Message: GenericError}
	}
	return *out.Notes, nil
}
