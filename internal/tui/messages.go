package tui

import (
	"time"

	"github.com/bft-labs/labelrec/internal/domain"
)

type elapsedMsg struct{ d time.Duration }

type lineMsg struct{ line string }

type reviewMsg struct{ text string }

type labelMsg struct{ snapshot domain.LabelSnapshot }

type errorMsg struct{ text, title string }

type controlsMsg struct{ controls domain.Controls }

type portsMsg struct{ names []string }

type checklistMsg struct {
	name   string
	people []string
	person string
}

// pickedMsg carries a path chosen in a native dialog.
type pickedMsg struct {
	mode promptMode
	path string
}

// pickFailedMsg means the native dialog could not be shown and the inline
// prompt takes over.
type pickFailedMsg struct {
	mode promptMode
	err  error
}
