package dialog

import (
	"errors"
	"testing"

	"github.com/ncruces/zenity"
)

func TestCancelled(t *testing.T) {
	boom := errors.New("no display")
	tests := []struct {
		name     string
		path     string
		err      error
		wantPath string
		wantErr  error
	}{
		{"chosen", "/tmp/a.csv", nil, "/tmp/a.csv", nil},
		{"cancel", "", zenity.ErrCanceled, "", nil},
		{"failure", "", boom, "", boom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cancelled(tt.path, tt.err)
			if got != tt.wantPath || !errors.Is(err, tt.wantErr) || (tt.wantErr == nil && err != nil) {
				t.Errorf("cancelled() = (%q, %v), want (%q, %v)", got, err, tt.wantPath, tt.wantErr)
			}
		})
	}
}
