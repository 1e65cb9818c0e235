// Package dialog opens native file pickers.
package dialog

import (
	"errors"

	"github.com/ncruces/zenity"
)

// Zenity implements ports.Dialogs with the platform's native dialogs.
type Zenity struct{}

// NewZenity creates a Zenity dialog adapter.
func NewZenity() *Zenity { return &Zenity{} }

// PickChecklist asks for a CSV file. Cancelling returns "" and no error.
func (Zenity) PickChecklist(start string) (string, error) {
	path, err := zenity.SelectFile(
		zenity.Title("Select checklist CSV file"),
		zenity.Filename(start),
		zenity.FileFilters{
			{
				Name:     "CSV Files",
				Patterns: []string{"*.csv"},
			},
		},
	)
	return cancelled(path, err)
}

// PickOutputDir asks for the sample output directory.
func (Zenity) PickOutputDir(start string) (string, error) {
	path, err := zenity.SelectFile(
		zenity.Title("Select output directory"),
		zenity.Filename(start),
		zenity.Directory(),
	)
	return cancelled(path, err)
}

func cancelled(path string, err error) (string, error) {
	if errors.Is(err, zenity.ErrCanceled) {
		return "", nil
	}
	return path, err
}
