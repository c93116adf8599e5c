package notes

import (
	"errors"
	"net/http"
)

var (
	// ErrMissingURL is returned when the request carries no URL.
	ErrMissingURL = errors.New("Please enter a YouTube URL.")
	// ErrInvalidURL is returned when no video id can be parsed from the URL.
	ErrInvalidURL = errors.New("Invalid YouTube URL.")
	// ErrEmptyNotes is returned when the provider answers with no text, as
	// Gemini does for blocked candidates.
	ErrEmptyNotes = errors.New("model returned no notes")
)

// TranscriptError wraps a failure to obtain the video transcript.
type TranscriptError struct {
	VideoID string
	Err     error
}

func (e *TranscriptError) Error() string {
	return "Error fetching transcript: " + e.Err.Error()
}

func (e *TranscriptError) Unwrap() error { return e.Err }

// GenerationError wraps a failure of the LLM provider.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	return "Error generating notes: " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error { return e.Err }

// StatusCode maps a Generate error onto the HTTP status the API answers with.
func StatusCode(err error) int {
	var te *TranscriptError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrMissingURL), errors.Is(err, ErrInvalidURL), errors.As(err, &te):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
