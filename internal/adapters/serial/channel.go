// Package serial implements the serial ports on go.bug.st/serial.
package serial

import (
	"bytes"
	"errors"
	"sync"
	"time"

	bugserial "go.bug.st/serial"

	"github.com/bft-labs/labelrec/internal/domain"
	"github.com/bft-labs/labelrec/internal/ports"
)

// ErrClosed is returned by ReadLine after Close.
var ErrClosed = errors.New("serial: channel closed")

const readChunk = 256

// port is the subset of bugserial.Port the channel uses.
type port interface {
	Read(p []byte) (int, error)
	ResetInputBuffer() error
	Close() error
}

// Channel is a line-oriented reader over an open serial port.
type Channel struct {
	device  string
	timeout time.Duration
	port    port

	mu      sync.Mutex
	closed  bool
	pending []byte
	buf     []byte
}

func newChannel(device string, p port, timeout time.Duration) *Channel {
	return &Channel{
		device:  device,
		timeout: timeout,
		port:    p,
		buf:     make([]byte, readChunk),
	}
}

// Device returns the identifier the channel was opened with.
func (c *Channel) Device() string { return c.device }

// ReadLine blocks until a full line is buffered, the port read times out, or
// the read timeout has elapsed since the call began. A timeout yields the
// partial line accumulated so far, possibly empty.
func (c *Channel) ReadLine() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}

	deadline := time.Now().Add(c.timeout)
	for {
		if i := bytes.IndexByte(c.pending, '\n'); i >= 0 {
			return c.take(i + 1), nil
		}
		if !time.Now().Before(deadline) {
			return c.take(len(c.pending)), nil
		}
		// The port read waits for at least one byte or its own timeout, so
		// this loop never spins on an idle line.
		n, err := c.port.Read(c.buf)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return c.take(len(c.pending)), nil
		}
		c.pending = append(c.pending, c.buf[:n]...)
	}
}

func (c *Channel) take(n int) []byte {
	out := make([]byte, n)
	copy(out, c.pending[:n])
	c.pending = c.pending[:copy(c.pending, c.pending[n:])]
	return out
}

// FlushInput drops the driver's input buffer and any partial line.
func (c *Channel) FlushInput() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.pending = c.pending[:0]
	return c.port.ResetInputBuffer()
}

// Close releases the port. Subsequent calls return nil.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.pending = nil
	return c.port.Close()
}

// Opener opens serial devices with go.bug.st/serial.
type Opener struct {
	logger ports.Logger
}

// NewOpener creates an Opener that logs opens and failures.
func NewOpener(logger ports.Logger) *Opener {
	return &Opener{logger: logger}
}

// Open opens device with the given line settings. Any failure, including a
// rejected read timeout, is reported as a *domain.ConnectionError.
func (o *Opener) Open(device string, cfg ports.SerialConfig) (ports.Channel, error) {
	mode := &bugserial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		Parity:   bugserial.NoParity,
		StopBits: stopBits(cfg.StopBits),
	}
	p, err := bugserial.Open(device, mode)
	if err != nil {
		o.logger.Warn("serial open failed", ports.String("device", device), ports.Err(err))
		return nil, &domain.ConnectionError{Device: device, Err: err}
	}
	if err := p.SetReadTimeout(cfg.ReadTimeout); err != nil {
		p.Close()
		o.logger.Warn("serial read timeout rejected", ports.String("device", device), ports.Err(err))
		return nil, &domain.ConnectionError{Device: device, Err: err}
	}
	o.logger.Info("serial opened",
		ports.String("device", device),
		ports.Int("baud", cfg.BaudRate),
		ports.Int("data_bits", cfg.DataBits),
		ports.Int("stop_bits", cfg.StopBits),
		ports.Duration("read_timeout", cfg.ReadTimeout),
	)
	return newChannel(device, p, cfg.ReadTimeout), nil
}

func stopBits(n int) bugserial.StopBits {
	if n == 2 {
		return bugserial.TwoStopBits
	}
	return bugserial.OneStopBit
}
