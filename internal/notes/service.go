// Package notes turns a YouTube URL into structured lecture notes.
package notes

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ziadkadry99/ytnotes/internal/history"
	"github.com/ziadkadry99/ytnotes/internal/llm"
	"github.com/ziadkadry99/ytnotes/internal/youtube"
)

// Request is one note-generation call.
type Request struct {
	YouTubeURL string `json:"youtube_url"`
	Style      string `json:"style"`
}

// Result is a successful generation.
type Result struct {
	Notes        string
	VideoID      string
	Style        Style
	RecordID     string
	Provider     string
	Model        string
	InputTokens  int
	OutputTokens int
	CostUSD      float64
	Duration     time.Duration
}

// Recorder persists successful generations.
type Recorder interface {
	Save(ctx context.Context, rec history.Record) (*history.Record, error)
}

// Indexer makes generated notes searchable.
type Indexer interface {
	Add(ctx context.Context, rec history.Record) error
}

// Observer receives one call per finished generation.
type Observer interface {
	ObserveGeneration(style, status string, d time.Duration)
}

// Service runs the transcript → prompt → LLM pipeline.
type Service struct {
	transcripts youtube.TranscriptFetcher
	provider    llm.Provider
	model       string
	recorder    Recorder
	indexer     Indexer
	observer    Observer
	logger      *log.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithModel sets the model reported in results and used for cost estimates.
func WithModel(model string) Option {
	return func(s *Service) { s.model = model }
}

// WithRecorder stores every successful generation.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithIndexer indexes every recorded generation for search.
func WithIndexer(i Indexer) Option {
	return func(s *Service) { s.indexer = i }
}

// WithObserver reports generation outcomes, typically to metrics.
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a Service.
func NewService(transcripts youtube.TranscriptFetcher, provider llm.Provider, opts ...Option) *Service {
	s := &Service{
		transcripts: transcripts,
		provider:    provider,
		logger:      log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate produces notes for req. Errors are ErrMissingURL, ErrInvalidURL,
// *TranscriptError or *GenerationError.
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	style := ParseStyle(req.Style)

	res, err := s.generate(ctx, strings.TrimSpace(req.YouTubeURL), style)
	if s.observer != nil {
		s.observer.ObserveGeneration(string(style), outcome(err), time.Since(start))
	}
	if err != nil {
		return nil, err
	}
	res.Duration = time.Since(start)
	s.record(ctx, req.YouTubeURL, res)
	return res, nil
}

func (s *Service) generate(ctx context.Context, url string, style Style) (*Result, error) {
	if url == "" {
		return nil, ErrMissingURL
	}
	videoID, ok := youtube.ExtractVideoID(url)
	if !ok {
		return nil, ErrInvalidURL
	}

	s.logger.Debug("fetching transcript", "video_id", videoID)
	transcript, err := s.transcripts.Fetch(ctx, videoID)
	if err != nil {
		return nil, &TranscriptError{VideoID: videoID, Err: err}
	}

	prompt := FormatPrompt(transcript, style)
	req := llm.UserPrompt(prompt)
	req.Model = s.model

	s.logger.Debug("generating notes", "video_id", videoID, "style", style, "provider", s.provider.Name())
	resp, err := s.provider.Complete(ctx, req)
	if err != nil {
		return nil, &GenerationError{Provider: s.provider.Name(), Err: err}
	}
	if strings.TrimSpace(resp.Content) == "" {
		return nil, &GenerationError{Provider: s.provider.Name(), Err: ErrEmptyNotes}
	}

	model := resp.Model
	if model == "" {
		model = s.model
	}
	inTok, outTok := resp.InputTokens, resp.OutputTokens
	if inTok == 0 {
		inTok = llm.EstimateTokens(prompt)
	}
	if outTok == 0 {
		outTok = llm.EstimateTokens(resp.Content)
	}

	return &Result{
		Notes:        resp.Content,
		VideoID:      videoID,
		Style:        style,
		Provider:     s.provider.Name(),
		Model:        model,
		InputTokens:  inTok,
		OutputTokens: outTok,
		CostUSD:      llm.EstimateCost(model, inTok, outTok),
	}, nil
}

// record stores and indexes res. Failures are logged, never returned.
func (s *Service) record(ctx context.Context, url string, res *Result) {
	if s.recorder == nil {
		return
	}
	saved, err := s.recorder.Save(ctx, history.Record{
		VideoID:      res.VideoID,
		YouTubeURL:   strings.TrimSpace(url),
		Style:        string(res.Style),
		Notes:        res.Notes,
		Provider:     res.Provider,
		Model:        res.Model,
		InputTokens:  res.InputTokens,
		OutputTokens: res.OutputTokens,
		CostUSD:      res.CostUSD,
		DurationMS:   res.Duration.Milliseconds(),
	})
	if err != nil {
		s.logger.Warn("saving history record", "video_id", res.VideoID, "err", err)
		return
	}
	res.RecordID = saved.ID

	if s.indexer == nil {
		return
	}
	if err := s.indexer.Add(ctx, *saved); err != nil {
		s.logger.Warn("indexing notes", "id", saved.ID, "err", err)
	}
}

func outcome(err error) string {
	switch StatusCode(err) {
	case http.StatusOK:
		return "ok"
	case http.StatusBadRequest:
		return "bad_request"
	default:
		return "error"
	}
}
