package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatError_TextNamesCause(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "extension",
			err:  ErrNotCSV,
			want: "The selected file is not a valid CSV file. The file name must end with .csv extension",
		},
		{
			name: "missing file",
			err:  errors.New("open list.csv: no such file or directory"),
			want: "The selected file is not a valid CSV file: open list.csv: no such file or directory",
		},
		{
			name: "bad count",
			err:  fmt.Errorf("row 2 column ali_done_count: %w", errors.New(`count "-1" is negative`)),
			want: `The selected file is not a valid CSV file: row 2 column ali_done_count: count "-1" is negative`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &FormatError{Path: "list.csv", Err: tt.err}
			assert.Equal(t, tt.want, e.Text())
			assert.ErrorIs(t, e, ErrFormat)
			assert.Equal(t, "CSV file error!", e.Title())
		})
	}
}

func TestDescribe(t *testing.T) {
	text, title := Describe(fmt.Errorf("wrapped: %w", &ConnectionError{Device: "/dev/ttyUSB0", Err: errors.New("busy")}))
	assert.Equal(t, "Could not open serial port!", text)
	assert.Equal(t, "Error!", title)

	text, title = Describe(errors.New("plain"))
	assert.Equal(t, "plain", text)
	assert.Equal(t, "Error!", title)
}
