package ports

import "time"

// SerialConfig is the line configuration used when opening a device.
type SerialConfig struct {
	BaudRate    int
	DataBits    int
	StopBits    int
	ReadTimeout time.Duration
}

// Channel is an open byte-stream connection to a serial device.
// A Channel is owned by one goroutine at a time: the controller while idle,
// the capture worker while recording.
type Channel interface {
	// ReadLine blocks up to the read timeout and returns the bytes read up to
	// and including '\n'. On timeout it returns whatever partial line has
	// accumulated, which may be empty.
	ReadLine() ([]byte, error)

	// FlushInput discards bytes received but not yet read.
	FlushInput() error

	// Close releases the device. Calling Close more than once is a no-op.
	Close() error

	// Device returns the identifier the channel was opened with.
	Device() string
}

// Opener opens a Channel to a device.
type Opener interface {
	// Open returns a *domain.ConnectionError when the device cannot be opened.
	Open(device string, cfg SerialConfig) (Channel, error)
}

// PortLister enumerates the serial devices currently present.
type PortLister interface {
	ListPorts() ([]string, error)
}
