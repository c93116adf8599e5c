package youtube

import (
	"regexp"
	"strings"
)

// videoURLPattern matches watch, embed, /v/ and youtu.be links and captures
// the 11-character video id.
var videoURLPattern = regexp.MustCompile(`(?:https?://)?(?:www\.)?(?:youtube\.com/(?:watch\?v=|embed/|v/)|youtu\.be/)([a-zA-Z0-9_-]{11})`)

// DefaultDownloadID is used in place of a video id when none can be parsed.
const DefaultDownloadID = "notes"

// Validity is the live validation state of a URL input.
type Validity int

const (
	ValidityEmpty Validity = iota
	ValidityValid
	ValidityInvalid
)

func (v Validity) String() string {
	switch v {
	case ValidityValid:
		return "valid"
	case ValidityInvalid:
		return "invalid"
	default:
		return "empty"
	}
}

// ExtractVideoID returns the video id embedded in a YouTube URL.
func ExtractVideoID(rawURL string) (string, bool) {
	m := videoURLPattern.FindStringSubmatch(rawURL)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

// Validate classifies user input for live feedback. Surrounding whitespace
// is ignored; blank input is neither valid nor invalid.
func Validate(input string) Validity {
	input = strings.TrimSpace(input)
	if input == "" {
		return ValidityEmpty
	}
	if _, ok := ExtractVideoID(input); ok {
		return ValidityValid
	}
	return ValidityInvalid
}

// DownloadFilename derives the notes file name for a submitted URL.
func DownloadFilename(rawURL, ext string) string {
	id, ok := ExtractVideoID(rawURL)
	if !ok {
		id = DefaultDownloadID
	}
	return "youtube_notes_" + id + ext
}

// WatchURL returns the canonical watch page for a video id.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
