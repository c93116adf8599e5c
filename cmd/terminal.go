package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"

	"github.com/ziadkadry99/ytnotes/internal/client"
	"github.com/ziadkadry99/ytnotes/internal/progress"
	"github.com/ziadkadry99/ytnotes/internal/youtube"
)

// terminalView renders the notes form onto a terminal: notes go to out,
// everything else to the logger.
type terminalView struct {
	mu      sync.Mutex
	out     io.Writer
	loader  progress.Loader
	logger  *log.Logger
	lastErr string
}

func newTerminalView(out io.Writer, loader progress.Loader, logger *log.Logger) *terminalView {
	return &terminalView{out: out, loader: loader, logger: logger}
}

func (v *terminalView) SetLoading(loading bool) {
	if loading {
		v.loader.Start("Generating notes...")
		return
	}
	v.loader.Stop()
}

func (v *terminalView) ClearOutput() {
	v.mu.Lock()
	v.lastErr = ""
	v.mu.Unlock()
}

func (v *terminalView) ShowNotes(markup string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintln(v.out, markup)
}

func (v *terminalView) ShowError(msg string) {
	v.mu.Lock()
	v.lastErr = msg
	v.mu.Unlock()
	v.logger.Error(msg)
}

func (v *terminalView) SetActionsVisible(bool) {}

func (v *terminalView) SetCopyLabel(label string) {
	if label != client.LabelCopy {
		v.logger.Info(label, "action", "copy")
	}
}

func (v *terminalView) SetDownloadLabel(label string) {
	if label != client.LabelDownload {
		v.logger.Info(label, "action", "download")
	}
}

func (v *terminalView) SetURLValidity(val youtube.Validity) {
	v.logger.Debug("url input", "validity", val)
}

// LastError returns the most recent error shown, or "".
func (v *terminalView) LastError() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastErr
}

// dirSaver writes downloads into a directory.
type dirSaver struct {
	dir string
}

func (s dirSaver) Save(name string, data []byte) (string, error) {
	dir := s.dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating download directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// systemClipboard is the OS clipboard.
type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}
