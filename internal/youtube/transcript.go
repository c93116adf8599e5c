package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	defaultWatchBase     = "https://www.youtube.com"
	innertubePlayerPath  = "/youtubei/v1/player"
	androidClientVersion = "20.10.38"
	androidUserAgent     = "com.google.android.youtube/" + androidClientVersion + " (Linux; U; Android 11) gzip"
	browserUserAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

	playerResponseMarker = "ytInitialPlayerResponse = "
	maxWatchPageBytes    = 6 << 20
	maxTimedTextBytes    = 512 << 10
)

// ErrNoTranscript is returned when a video exposes no usable caption track.
var ErrNoTranscript = errors.New("no transcript available")

// TranscriptFetcher returns the plain-text transcript of a video.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string) (string, error)
}

// Fetcher retrieves transcripts from YouTube caption tracks.
type Fetcher struct {
	client    *http.Client
	baseURL   string
	languages []string
	retry     RetryConfig
	logger    *log.Logger
}

// Option customizes a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithBaseURL points the fetcher at a different YouTube origin.
func WithBaseURL(u string) Option {
	return func(f *Fetcher) { f.baseURL = strings.TrimRight(u, "/") }
}

// WithLanguages sets caption language preferences, most preferred first.
func WithLanguages(langs ...string) Option {
	return func(f *Fetcher) { f.languages = langs }
}

// WithRetry overrides the retry policy.
func WithRetry(rc RetryConfig) Option {
	return func(f *Fetcher) { f.retry = rc }
}

// WithLogger sets the logger used for fallback warnings.
func WithLogger(l *log.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// NewFetcher creates a Fetcher with sane defaults.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{Timeout: 30 * time.Second},
		baseURL:   defaultWatchBase,
		languages: []string{"en"},
		retry:     DefaultRetryConfig,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

type playerResponse struct {
	Captions *struct {
		TracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
}

type timedText struct {
	Lines []struct {
		Text string `xml:",chardata"`
	} `xml:"text"`
}

// Fetch scrapes the watch page for caption tracks and falls back to the
// Android player endpoint when the page yields nothing usable.
func (f *Fetcher) Fetch(ctx context.Context, videoID string) (string, error) {
	text, err := f.fetchViaWatchPage(ctx, videoID)
	if err == nil {
		return text, nil
	}
	f.logger.Warn("watch page transcript failed, trying player", "video", videoID, "err", err)

	text, err = f.fetchViaPlayer(ctx, videoID)
	if err != nil {
		return "", fmt.Errorf("transcript for %s: %w", videoID, err)
	}
	return text, nil
}

func (f *Fetcher) fetchViaWatchPage(ctx context.Context, videoID string) (string, error) {
	watchURL := f.baseURL + "/watch?v=" + videoID
	resp, err := doWithRetry(ctx, f.retry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, watchURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", browserUserAgent)
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		return f.client.Do(req)
	})
	if err != nil {
		return "", fmt.Errorf("watch page: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxWatchPageBytes))
	if err != nil {
		return "", fmt.Errorf("reading watch page: %w", err)
	}

	idx := bytes.Index(body, []byte(playerResponseMarker))
	if idx < 0 {
		return "", errors.New("player response not found in watch page")
	}
	raw := extractJSONObject(body[idx+len(playerResponseMarker):])
	if raw == nil {
		return "", errors.New("malformed player response in watch page")
	}

	var pr playerResponse
	if err := json.Unmarshal(raw, &pr); err != nil {
		return "", fmt.Errorf("decoding player response: %w", err)
	}
	return f.fetchFromPlayer(ctx, pr)
}

func (f *Fetcher) fetchViaPlayer(ctx context.Context, videoID string) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"videoId": videoID,
		"context": map[string]any{
			"client": map[string]any{
				"clientName":        "ANDROID",
				"clientVersion":     androidClientVersion,
				"androidSdkVersion": 30,
				"hl":                "en",
				"gl":                "US",
			},
		},
		"racyCheckOk":    true,
		"contentCheckOk": true,
	})
	if err != nil {
		return "", err
	}

	resp, err := doWithRetry(ctx, f.retry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+innertubePlayerPath+"?prettyPrint=false", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", androidUserAgent)
		req.Header.Set("X-Youtube-Client-Name", "3")
		req.Header.Set("X-Youtube-Client-Version", androidClientVersion)
		return f.client.Do(req)
	})
	if err != nil {
		return "", fmt.Errorf("player: %w", err)
	}
	defer resp.Body.Close()

	var pr playerResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return "", fmt.Errorf("decoding player: %w", err)
	}
	return f.fetchFromPlayer(ctx, pr)
}

func (f *Fetcher) fetchFromPlayer(ctx context.Context, pr playerResponse) (string, error) {
	if pr.Captions == nil || len(pr.Captions.TracklistRenderer.CaptionTracks) == 0 {
		if pr.PlayabilityStatus != nil && pr.PlayabilityStatus.Reason != "" {
			return "", fmt.Errorf("%w: %s", ErrNoTranscript, pr.PlayabilityStatus.Reason)
		}
		return "", ErrNoTranscript
	}
	track, ok := pickTrack(pr.Captions.TracklistRenderer.CaptionTracks, f.languages)
	if !ok {
		return "", fmt.Errorf("%w: every caption track needs a browser token", ErrNoTranscript)
	}
	return f.fetchTimedText(ctx, track.BaseURL)
}

func (f *Fetcher) fetchTimedText(ctx context.Context, trackURL string) (string, error) {
	resp, err := doWithRetry(ctx, f.retry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, trackURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", browserUserAgent)
		return f.client.Do(req)
	})
	if err != nil {
		return "", fmt.Errorf("timedtext: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: timedtext status %d", ErrNoTranscript, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTimedTextBytes))
	if err != nil {
		return "", err
	}
	// Clients without a PoToken get an empty 200.
	if len(bytes.TrimSpace(body)) == 0 {
		return "", fmt.Errorf("%w: empty timedtext response", ErrNoTranscript)
	}

	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return "", fmt.Errorf("parsing timedtext: %w", err)
	}

	parts := make([]string, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		text := strings.Join(strings.Fields(html.UnescapeString(line.Text)), " ")
		if text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return "", ErrNoTranscript
	}
	return strings.Join(parts, " "), nil
}

// pickTrack prefers a manual track in a preferred language, then an
// auto-generated one, then any English track. Tracks that need a PoToken
// cannot be fetched outside a browser and are skipped.
func pickTrack(tracks []captionTrack, langs []string) (captionTrack, bool) {
	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if !strings.Contains(t.BaseURL, "&exp=xpe") {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		return captionTrack{}, false
	}
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t, true
			}
		}
	}
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang {
				return t, true
			}
		}
	}
	for _, t := range usable {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t, true
		}
	}
	return usable[0], true
}

// extractJSONObject returns the balanced JSON object at the start of b.
func extractJSONObject(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inString := false
	escaped := false
	for i, c := range b {
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return b[:i+1]
			}
		}
	}
	return nil
}
