package client

import "github.com/ziadkadry99/ytnotes/internal/youtube"

// View is the presentation surface the Controller drives. Implementations
// must be safe to call from the goroutine that runs Controller methods and
// from the timer goroutine that restores transient labels.
type View interface {
	// SetLoading disables the generate control and shows the loader, or
	// restores both.
	SetLoading(loading bool)
	// ClearOutput empties the notes panel.
	ClearOutput()
	// ShowNotes displays formatted notes markup.
	ShowNotes(markup string)
	// ShowError renders an error message in the notes panel.
	ShowError(msg string)
	// SetActionsVisible shows or hides the copy and download controls.
	SetActionsVisible(visible bool)
	// SetCopyLabel and SetDownloadLabel relabel the action controls.
	SetCopyLabel(label string)
	SetDownloadLabel(label string)
	// SetURLValidity reflects live URL validation.
	SetURLValidity(v youtube.Validity)
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// FileSaver stores a downloaded file and returns where it went.
type FileSaver interface {
	Save(name string, data []byte) (string, error)
}
