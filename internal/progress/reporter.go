// Package progress shows a loader while notes are being generated.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Loader is shown while a long-running call is in flight.
type Loader interface {
	Start(message string)
	Stop()
}

// NewLoader returns a SpinnerLoader on interactive terminals, or a CILoader
// if the CI environment variable is set.
func NewLoader(w io.Writer) Loader {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CILoader{w: w}
	}
	return &SpinnerLoader{w: w}
}

// SpinnerLoader animates an indeterminate progressbar spinner.
type SpinnerLoader struct {
	w    io.Writer
	mu   sync.Mutex
	bar  *progressbar.ProgressBar
	stop chan struct{}
	done chan struct{}
}

func (l *SpinnerLoader) Start(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.bar != nil {
		return
	}

	l.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(l.w),
		progressbar.OptionSetDescription(message),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionClearOnFinish(),
	)
	l.stop = make(chan struct{})
	l.done = make(chan struct{})

	go func(bar *progressbar.ProgressBar, stop, done chan struct{}) {
		defer close(done)
		tick := time.NewTicker(100 * time.Millisecond)
		defer tick.Stop()
		for {
			select {
			case <-stop:
				return
			case <-tick.C:
				_ = bar.Add(1)
			}
		}
	}(l.bar, l.stop, l.done)
}

func (l *SpinnerLoader) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.bar == nil {
		return
	}
	close(l.stop)
	<-l.done
	_ = l.bar.Finish()
	l.bar = nil
}

// CILoader prints start and stop lines suitable for CI logs.
type CILoader struct {
	w       io.Writer
	mu      sync.Mutex
	started time.Time
	running bool
}

func (l *CILoader) Start(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return
	}
	l.running = true
	l.started = time.Now()
	fmt.Fprintln(l.w, message)
}

func (l *CILoader) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.running {
		return
	}
	l.running = false
	fmt.Fprintf(l.w, "done in %s\n", time.Since(l.started).Round(time.Millisecond))
}
