// Package client holds the form controller behind the notes front ends.
package client

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ziadkadry99/ytnotes/internal/render"
	"github.com/ziadkadry99/ytnotes/internal/youtube"
)

const (
	MsgEmptyURL   = "Please enter a YouTube URL"
	MsgCopyFailed = "Failed to copy text to clipboard"
	MsgSaveFailed = "Failed to save notes"

	LabelCopy     = "Copy"
	LabelCopied   = "Copied!"
	LabelDownload = "Download"
	LabelSaved    = "Downloaded!"

	// DefaultFeedback is how long transient labels stay up.
	DefaultFeedback = 2 * time.Second
)

// State is the controller's view model.
type State struct {
	IsGenerating bool
	CurrentNotes string
	LastURL      string
}

// Controller implements the generate, copy, download and live-validation
// handlers of the notes form. It is safe for concurrent use.
type Controller struct {
	view      View
	api       API
	clipboard Clipboard
	saver     FileSaver
	feedback  time.Duration
	format    func(string) string

	generating atomic.Bool

	mu            sync.Mutex
	currentNotes  string
	lastURL       string
	copyTimer     *time.Timer
	downloadTimer *time.Timer
}

// Option customizes a Controller.
type Option func(*Controller)

// WithFeedbackDuration sets how long transient labels stay up.
func WithFeedbackDuration(d time.Duration) Option {
	return func(c *Controller) { c.feedback = d }
}

// WithFormatter replaces the light-markdown formatter applied before
// ShowNotes, e.g. with an identity function for plain-text views.
func WithFormatter(f func(string) string) Option {
	return func(c *Controller) { c.format = f }
}

// NewController creates a Controller. clipboard and saver may be nil when
// the front end has no such capability.
func NewController(view View, api API, clipboard Clipboard, saver FileSaver, opts ...Option) *Controller {
	c := &Controller{
		view:      view,
		api:       api,
		clipboard: clipboard,
		saver:     saver,
		feedback:  DefaultFeedback,
		format:    render.Light,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the controller state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		IsGenerating: c.generating.Load(),
		CurrentNotes: c.currentNotes,
		LastURL:      c.lastURL,
	}
}

// Generate runs one generate cycle. It returns false without doing anything
// when a cycle is already in flight.
func (c *Controller) Generate(ctx context.Context, rawURL, style string) bool {
	if !c.generating.CompareAndSwap(false, true) {
		return false
	}
	defer c.generating.Store(false)

	url := strings.TrimSpace(rawURL)
	if url == "" {
		c.fail(MsgEmptyURL)
		return true
	}

	c.mu.Lock()
	c.currentNotes = ""
	c.lastURL = url
	c.mu.Unlock()

	c.view.SetLoading(true)
	c.view.ClearOutput()
	c.view.SetActionsVisible(false)
	defer c.view.SetLoading(false)

	notes, err := c.api.GenerateNotes(ctx, url, style)
	if err != nil {
		c.fail(errorMessage(err))
		return true
	}
	if strings.TrimSpace(notes) == "" {
		c.fail(GenericError)
		return true
	}
	if render.IsInBandError(notes) {
		c.fail(notes)
		return true
	}

	c.mu.Lock()
	c.currentNotes = notes
	c.mu.Unlock()

	c.view.ShowNotes(c.format(notes))
	c.view.SetActionsVisible(true)
	return true
}

// Copy writes the current notes, unformatted, to the clipboard.
func (c *Controller) Copy() {
	notes := c.State().CurrentNotes
	if notes == "" {
		return
	}
	if c.clipboard == nil {
		c.view.ShowError(MsgCopyFailed)
		return
	}
	if err := c.clipboard.WriteAll(notes); err != nil {
		c.view.ShowError(MsgCopyFailed)
		return
	}
	c.flash(&c.copyTimer, c.view.SetCopyLabel, LabelCopied, LabelCopy)
}

// Download saves the current notes as youtube_notes_<id>.txt and returns
// where the file went.
func (c *Controller) Download() (string, error) {
	st := c.State()
	if st.CurrentNotes == "" {
		return "", nil
	}
	if c.saver == nil {
		c.view.ShowError(MsgSaveFailed)
		return "", errors.New("no file saver configured")
	}

	name := youtube.DownloadFilename(st.LastURL, ".txt")
	path, err := c.saver.Save(name, []byte(st.CurrentNotes))
	if err != nil {
		c.view.ShowError(MsgSaveFailed + ": " + err.Error())
		return "", err
	}
	c.flash(&c.downloadTimer, c.view.SetDownloadLabel, LabelSaved, LabelDownload)
	return path, nil
}

// URLInput live-validates the URL field.
func (c *Controller) URLInput(text string) youtube.Validity {
	v := youtube.Validate(text)
	c.view.SetURLValidity(v)
	return v
}

// fail renders msg as the panel's error and drops any notes, keeping the
// actions hidden while there is nothing to act on.
func (c *Controller) fail(msg string) {
	c.mu.Lock()
	c.currentNotes = ""
	c.mu.Unlock()

	c.view.SetActionsVisible(false)
	c.view.ShowError(msg)
}

func (c *Controller) flash(timer **time.Timer, set func(string), label, restore string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if *timer != nil {
		(*timer).Stop()
	}
	set(label)
	*timer = time.AfterFunc(c.feedback, func() { set(restore) })
}

func errorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, context.Canceled) {
		return GenericError
	}
	return GenericError + ": " + err.Error()
}
