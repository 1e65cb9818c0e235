package ports

import (
	"time"

	"github.com/bft-labs/labelrec/internal/domain"
)

// Surface accepts display commands from the controller and the capture
// worker. Implementations must be safe for concurrent use.
type Surface interface {
	ShowElapsed(d time.Duration)
	ShowLine(line string)
	ShowReview(text string)
	ShowLabel(s domain.LabelSnapshot)
	ShowError(text, title string)
	ShowControls(c domain.Controls)
	ShowPorts(ports []string)
	ShowChecklist(name string, people []string, person string)
}

// Dialogs picks files for the operator.
type Dialogs interface {
	// PickChecklist returns the chosen file, or "" if the operator cancelled.
	PickChecklist(start string) (string, error)

	// PickOutputDir returns the chosen directory, or "" if cancelled.
	PickOutputDir(start string) (string, error)
}
