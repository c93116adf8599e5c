package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ziadkadry99/ytnotes/internal/notes"
	"github.com/ziadkadry99/ytnotes/internal/youtube"
)

// viewState is the presentation state a recordingView has seen.
type viewState struct {
	loading        bool
	loadingCalls   []bool
	output         string
	errMsg         string
	actionsVisible bool
	copyLabel      string
	downloadLabel  string
	validity       youtube.Validity
}

// recordingView captures the latest presentation state.
type recordingView struct {
	mu             sync.Mutex
	loading        bool
	loadingCalls   []bool
	output         string
	errMsg         string
	actionsVisible bool
	copyLabel      string
	downloadLabel  string
	validity       youtube.Validity
}

func (v *recordingView) SetLoading(loading bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = loading
	v.loadingCalls = append(v.loadingCalls, loading)
}

func (v *recordingView) ClearOutput() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.output, v.errMsg = "", ""
}

func (v *recordingView) ShowNotes(markup string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.output, v.errMsg = markup, ""
}

func (v *recordingView) ShowError(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errMsg = msg
}

func (v *recordingView) SetActionsVisible(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.actionsVisible = visible
}

func (v *recordingView) SetCopyLabel(label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.copyLabel = label
}

func (v *recordingView) SetDownloadLabel(label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.downloadLabel = label
}

func (v *recordingView) SetURLValidity(val youtube.Validity) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.validity = val
}

func (v *recordingView) snapshot() viewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return viewState{
		loading:        v.loading,
		loadingCalls:   append([]bool(nil), v.loadingCalls...),
		output:         v.output,
		errMsg:         v.errMsg,
		actionsVisible: v.actionsVisible,
		copyLabel:      v.copyLabel,
		downloadLabel:  v.downloadLabel,
		validity:       v.validity,
	}
}

type fakeAPI struct {
	notes   string
	err     error
	calls   atomic.Int32
	release chan struct{} // when set, calls block until closed
	entered chan struct{}
}

func (a *fakeAPI) GenerateNotes(ctx context.Context, url, style string) (string, error) {
	a.calls.Add(1)
	if a.entered != nil {
		a.entered <- struct{}{}
	}
	if a.release != nil {
		<-a.release
	}
	return a.notes, a.err
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

type fakeSaver struct {
	name string
	data []byte
	err  error
}

func (s *fakeSaver) Save(name string, data []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.name, s.data = name, data
	return "/tmp/" + name, nil
}

func newTestController(api API) (*Controller, *recordingView, *fakeClipboard, *fakeSaver) {
	view := &recordingView{copyLabel: LabelCopy, downloadLabel: LabelDownload}
	clip := &fakeClipboard{}
	saver := &fakeSaver{}
	c := NewController(view, api, clip, saver, WithFeedbackDuration(30*time.Millisecond))
	return c, view, clip, saver
}

func TestGenerateEmptyURL(t *testing.T) {
	api := &fakeAPI{notes: "x"}
	c, view, _, _ := newTestController(api)

	if !c.Generate(context.Background(), "   ", "default") {
		t.Fatal("Generate should run when idle")
	}

	got := view.snapshot()
	if got.errMsg != "Please enter a YouTube URL" {
		t.Errorf("error = %q", got.errMsg)
	}
	if api.calls.Load() != 0 {
		t.Errorf("expected no network call, got %d", api.calls.Load())
	}
	if len(got.loadingCalls) != 0 {
		t.Errorf("loading UI should not be touched, got %v", got.loadingCalls)
	}
	if c.State().IsGenerating {
		t.Error("guard should be released")
	}
}

func TestGenerateSuccess(t *testing.T) {
	raw := "**Hi** there\n- item"
	c, view, _, _ := newTestController(&fakeAPI{notes: raw})

	c.Generate(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "concise")

	got := view.snapshot()
	if got.output != "<strong>Hi</strong> there<br>• item" {
		t.Errorf("output = %q", got.output)
	}
	if !got.actionsVisible {
		t.Error("copy/download should be visible")
	}
	if c.State().CurrentNotes != raw {
		t.Errorf("CurrentNotes = %q, want raw %q", c.State().CurrentNotes, raw)
	}
	if len(got.loadingCalls) != 2 || !got.loadingCalls[0] || got.loadingCalls[1] {
		t.Errorf("loading calls = %v, want [true false]", got.loadingCalls)
	}
}

func TestGenerateInBandError(t *testing.T) {
	c, view, _, _ := newTestController(&fakeAPI{notes: "Error: bad input"})

	c.Generate(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "default")

	got := view.snapshot()
	if got.errMsg != "Error: bad input" {
		t.Errorf("error = %q", got.errMsg)
	}
	if got.actionsVisible {
		t.Error("copy/download should be hidden")
	}
	if c.State().CurrentNotes != "" {
		t.Error("CurrentNotes should be empty on error")
	}
	if got.loading {
		t.Error("loader should be hidden")
	}
}

func TestGenerateEmptyNotes(t *testing.T) {
	for _, notes := range []string{"", "  \n"} {
		c, view, _, _ := newTestController(&fakeAPI{notes: notes})

		c.Generate(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "default")

		got := view.snapshot()
		if got.actionsVisible {
			t.Errorf("notes %q: copy/download should be hidden", notes)
		}
		if got.errMsg != GenericError {
			t.Errorf("notes %q: error = %q, want %q", notes, got.errMsg, GenericError)
		}
		if c.State().CurrentNotes != "" {
			t.Errorf("notes %q: CurrentNotes = %q", notes, c.State().CurrentNotes)
		}
	}
}

func TestGenerateAPIError(t *testing.T) {
	c, view, _, _ := newTestController(&fakeAPI{err: &APIError{Status: 500, Message: "boom"}})

	c.Generate(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "default")

	got := view.snapshot()
	if got.errMsg != "boom" {
		t.Errorf("error = %q, want boom", got.errMsg)
	}
	if got.loading || got.actionsVisible {
		t.Errorf("state after failure = %+v", got)
	}
}

func TestGenerateNetworkError(t *testing.T) {
	c, view, _, _ := newTestController(&fakeAPI{err: errors.New("connection refused")})

	c.Generate(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "default")

	if got := view.snapshot().errMsg; got != "Failed to generate notes: connection refused" {
		t.Errorf("error = %q", got)
	}
}

func TestGenerateClearsPreviousNotes(t *testing.T) {
	api := &fakeAPI{notes: "first"}
	c, view, _, _ := newTestController(api)
	c.Generate(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "default")

	api.notes, api.err = "", &APIError{Status: 400, Message: "Invalid YouTube URL."}
	c.Generate(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "default")

	if c.State().CurrentNotes != "" || view.snapshot().actionsVisible {
		t.Error("a failed cycle must drop the previous notes")
	}
}

func TestConcurrentGenerateIsNoOp(t *testing.T) {
	api := &fakeAPI{notes: "done", release: make(chan struct{}), entered: make(chan struct{}, 1)}
	c, _, _, _ := newTestController(api)

	first := make(chan bool)
	go func() { first <- c.Generate(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "default") }()
	<-api.entered

	if !c.State().IsGenerating {
		t.Error("IsGenerating should be set while in flight")
	}

	var wg sync.WaitGroup
	var started atomic.Int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c.Generate(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "default") {
				started.Add(1)
			}
		}()
	}
	wg.Wait()

	close(api.release)
	if !<-first {
		t.Error("first call should have run")
	}
	if started.Load() != 0 {
		t.Errorf("%d overlapping calls ran", started.Load())
	}
	if api.calls.Load() != 1 {
		t.Errorf("API calls = %d, want 1", api.calls.Load())
	}
	if c.State().IsGenerating {
		t.Error("guard should be released")
	}
}

func TestCopy(t *testing.T) {
	raw := "**Hi** there"
	c, view, clip, _ := newTestController(&fakeAPI{notes: raw})
	c.Generate(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "default")

	c.Copy()
	if clip.text != raw {
		t.Errorf("clipboard = %q, want %q", clip.text, raw)
	}
	if got := view.snapshot().copyLabel; got != "Copied!" {
		t.Errorf("label = %q", got)
	}

	deadline := time.Now().Add(2 * time.Second)
	for view.snapshot().copyLabel != LabelCopy {
		if time.Now().After(deadline) {
			t.Fatal("copy label was not restored")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCopyFailure(t *testing.T) {
	c, view, clip, _ := newTestController(&fakeAPI{notes: "notes"})
	c.Generate(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "default")
	clip.err = errors.New("no display")

	c.Copy()

	got := view.snapshot()
	if got.errMsg != "Failed to copy text to clipboard" {
		t.Errorf("error = %q", got.errMsg)
	}
	if got.copyLabel != LabelCopy {
		t.Errorf("label should not change on failure, got %q", got.copyLabel)
	}
}

func TestCopyWithoutNotesIsNoOp(t *testing.T) {
	c, view, clip, _ := newTestController(&fakeAPI{})
	c.Copy()
	if clip.text != "" || view.snapshot().errMsg != "" {
		t.Error("copy without notes should do nothing")
	}
}

func TestDownloadFilename(t *testing.T) {
	tests := []struct {
		url      string
		wantName string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "youtube_notes_dQw4w9WgXcQ.txt"},
		{"youtu.be/abcdefghijk", "youtube_notes_abcdefghijk.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			c, view, _, saver := newTestController(&fakeAPI{notes: "body"})
			c.Generate(context.Background(), tt.url, "default")

			path, err := c.Download()
			if err != nil {
				t.Fatalf("Download: %v", err)
			}
			if saver.name != tt.wantName || path != "/tmp/"+tt.wantName {
				t.Errorf("name = %q path = %q", saver.name, path)
			}
			if string(saver.data) != "body" {
				t.Errorf("data = %q", saver.data)
			}
			if view.snapshot().downloadLabel != "Downloaded!" {
				t.Errorf("label = %q", view.snapshot().downloadLabel)
			}
		})
	}
}

func TestDownloadDefaultsToNotes(t *testing.T) {
	// The backend accepted a URL the client pattern cannot parse.
	c, _, _, saver := newTestController(&fakeAPI{notes: "body"})
	c.Generate(context.Background(), "https://m.youtube.com/shorts/xyz", "default")

	if _, err := c.Download(); err != nil {
		t.Fatalf("Download: %v", err)
	}
	if saver.name != "youtube_notes_notes.txt" {
		t.Errorf("name = %q", saver.name)
	}
}

func TestDownloadFailure(t *testing.T) {
	c, view, _, saver := newTestController(&fakeAPI{notes: "body"})
	c.Generate(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "default")
	saver.err = errors.New("read-only file system")

	if _, err := c.Download(); err == nil {
		t.Fatal("expected error")
	}
	if got := view.snapshot().errMsg; got != "Failed to save notes: read-only file system" {
		t.Errorf("error = %q", got)
	}
}

func TestURLInput(t *testing.T) {
	c, view, _, _ := newTestController(&fakeAPI{})

	tests := []struct {
		in   string
		want youtube.Validity
	}{
		{"", youtube.ValidityEmpty},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", youtube.ValidityValid},
		{"https://example.com", youtube.ValidityInvalid},
	}
	for _, tt := range tests {
		if got := c.URLInput(tt.in); got != tt.want {
			t.Errorf("URLInput(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if view.snapshot().validity != tt.want {
			t.Errorf("view validity for %q = %v", tt.in, view.snapshot().validity)
		}
	}
}

func TestAPIClient(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantNotes string
		wantErr   string
	}{
		{"success", 200, `{"notes":"# Notes"}`, "# Notes", ""},
		{"server error with message", 500, `{"error":"boom"}`, "", "boom"},
		{"server error without message", 502, `<html>bad gateway</html>`, "", "Failed to generate notes"},
		{"ok without notes", 200, `{}`, "", "Failed to generate notes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/generate_notes" {
					t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			notes, err := NewAPIClient(srv.URL+"/", nil).GenerateNotes(context.Background(), "u", "default")
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if notes != tt.wantNotes {
					t.Errorf("notes = %q", notes)
				}
				return
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.Message != tt.wantErr || apiErr.Status != tt.status {
				t.Errorf("err = %+v", apiErr)
			}
		})
	}
}

type stubGenerator struct {
	res *notes.Result
	err error
	req notes.Request
}

func (g *stubGenerator) Generate(_ context.Context, req notes.Request) (*notes.Result, error) {
	g.req = req
	return g.res, g.err
}

func TestLocalAPI(t *testing.T) {
	gen := &stubGenerator{res: &notes.Result{Notes: "# local"}}
	got, err := NewLocalAPI(gen).GenerateNotes(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "")
	if err != nil || got != "# local" {
		t.Fatalf("got %q, %v", got, err)
	}
	if gen.req.Style != "default" {
		t.Errorf("style = %q", gen.req.Style)
	}

	gen = &stubGenerator{err: notes.ErrInvalidURL}
	_, err = NewLocalAPI(gen).GenerateNotes(context.Background(), "x", "concise")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest || apiErr.Message != "Invalid YouTube URL." {
		t.Errorf("err = %v", err)
	}
}

func TestWithFormatter(t *testing.T) {
	view := &recordingView{}
	c := NewController(view, &fakeAPI{notes: "**raw**"}, nil, nil,
		WithFormatter(func(s string) string { return "[" + s + "]" }))

	c.Generate(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "default")
	if got := view.snapshot().output; got != "[**raw**]" {
		t.Errorf("output = %q", got)
	}
}

func TestCopyWithoutClipboard(t *testing.T) {
	view := &recordingView{}
	c := NewController(view, &fakeAPI{notes: "n"}, nil, nil)
	c.Generate(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "default")

	c.Copy()
	if view.snapshot().errMsg != MsgCopyFailed {
		t.Errorf("error = %q", view.snapshot().errMsg)
	}
}
