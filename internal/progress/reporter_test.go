package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestNewLoaderPicksCI(t *testing.T) {
	t.Setenv("CI", "true")
	if _, ok := NewLoader(&bytes.Buffer{}).(*CILoader); !ok {
		t.Error("expected CILoader when CI is set")
	}
}

func TestNewLoaderPicksSpinner(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	if _, ok := NewLoader(&bytes.Buffer{}).(*SpinnerLoader); !ok {
		t.Error("expected SpinnerLoader outside CI")
	}
}

func TestCILoader(t *testing.T) {
	var buf bytes.Buffer
	l := &CILoader{w: &buf}

	l.Stop() // no-op before Start
	l.Start("Generating notes")
	l.Start("ignored while running")
	l.Stop()
	l.Stop()

	out := buf.String()
	if strings.Count(out, "Generating notes") != 1 || strings.Contains(out, "ignored") {
		t.Errorf("output = %q", out)
	}
	if strings.Count(out, "done in") != 1 {
		t.Errorf("expected one completion line, got %q", out)
	}
}

func TestSpinnerLoaderStartStop(t *testing.T) {
	var buf bytes.Buffer
	l := &SpinnerLoader{w: &buf}

	l.Start("Generating notes")
	time.Sleep(250 * time.Millisecond)
	l.Stop()
	l.Stop()

	if l.bar != nil {
		t.Error("bar should be cleared after Stop")
	}

	// Restartable.
	l.Start("again")
	l.Stop()
}
