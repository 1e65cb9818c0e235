package domain

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching. Every typed error below unwraps to one of
// these in addition to its cause.
var (
	ErrConnection = errors.New("labelrec: connection error")
	ErrNotReady   = errors.New("labelrec: not ready")
	ErrDecode     = errors.New("labelrec: decode error")
	ErrColumns    = errors.New("labelrec: checklist columns invalid")
	ErrFormat     = errors.New("labelrec: checklist format invalid")
	ErrExhausted  = errors.New("labelrec: checklist exhausted")
	ErrIO         = errors.New("labelrec: io error")

	// ErrNotCSV is the FormatError cause for a path without a .csv extension.
	ErrNotCSV = errors.New("not a .csv file")
)

// UserError is implemented by every error that is reported to the operator as
// a (text, title) dialog.
type UserError interface {
	error
	Text() string
	Title() string
}

// ConnectionError reports a serial device that could not be opened.
type ConnectionError struct {
	Device string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Device, e.Err)
}
func (e *ConnectionError) Unwrap() []error { return []error{ErrConnection, e.Err} }
func (e *ConnectionError) Text() string { return "Could not open serial port!" }
func (e *ConnectionError) Title() string { return "Error!" }

// NotReadyError reports an operation requested before its preconditions hold.
type NotReadyError struct {
	Reason string
	title  string
}

// NewNotReady builds a NotReadyError with the given dialog text and title.
func NewNotReady(reason, title string) *NotReadyError {
	return &NotReadyError{Reason: reason, title: title}
}

func (e *NotReadyError) Error() string { return "not ready: " + e.Reason }
func (e *NotReadyError) Unwrap() error { return ErrNotReady }
func (e *NotReadyError) Text() string { return e.Reason }
func (e *NotReadyError) Title() string {
	if e.title == "" {
		return "Error!"
	}
	return e.title
}

// DecodeError reports bytes from the channel that are not ASCII. It is fatal
// to the connection.
type DecodeError struct {
	Offset int
	Byte   byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode: non-ascii byte 0x%02x at offset %d", e.Byte, e.Offset)
}
func (e *DecodeError) Unwrap() error { return ErrDecode }
func (e *DecodeError) Text() string {
	return "Decode error! This error is probably caused by incorrect baudrate."
}
func (e *DecodeError) Title() string { return "Error!" }

// ColumnError reports a checklist that lacks the columns for a person.
type ColumnError struct {
	Missing []string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("checklist columns missing: %v", e.Missing)
}
func (e *ColumnError) Unwrap() error { return ErrColumns }
func (e *ColumnError) Text() string { return "The CSV file columns are not valid!" }
func (e *ColumnError) Title() string { return "CSV columns error" }

// FormatError reports a checklist file that is not a readable CSV table.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("checklist %s: %v", e.Path, e.Err)
}
func (e *FormatError) Unwrap() []error { return []error{ErrFormat, e.Err} }
func (e *FormatError) Text() string {
	if errors.Is(e.Err, ErrNotCSV) {
		return "The selected file is not a valid CSV file. The file name must end with .csv extension"
	}
	return fmt.Sprintf("The selected file is not a valid CSV file: %v", e.Err)
}
func (e *FormatError) Title() string { return "CSV file error!" }

// ExhaustedError reports a checklist with no remaining work for a person.
type ExhaustedError struct {
	Person string
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("checklist finished for %q", e.Person)
}
func (e *ExhaustedError) Unwrap() error { return ErrExhausted }
func (e *ExhaustedError) Text() string {
	return "The chosen CSV file is finished. Please choose another file!"
}
func (e *ExhaustedError) Title() string { return "CSV finished error" }

// IOError reports a failure writing samples or the checklist.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}
func (e *IOError) Unwrap() []error { return []error{ErrIO, e.Err} }
func (e *IOError) Text() string { return fmt.Sprintf("Could not %s %s: %v", e.Op, e.Path, e.Err) }
func (e *IOError) Title() string { return "Save error" }

// ChannelError reports a non-decode failure of the serial channel during
// recording. The dialog text is the cause's description.
type ChannelError struct {
	Err error
}

func (e *ChannelError) Error() string { return "serial channel: " + e.Err.Error() }
func (e *ChannelError) Unwrap() error { return e.Err }
func (e *ChannelError) Text() string { return e.Err.Error() }
func (e *ChannelError) Title() string { return "Error!" }

// Describe returns the dialog text and title for err. Errors that are not
// UserErrors are shown with their message under a generic title.
func Describe(err error) (text, title string) {
	var ue UserError
	if errors.As(err, &ue) {
		return ue.Text(), ue.Title()
	}
	return err.Error(), "Error!"
}
