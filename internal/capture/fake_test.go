package capture

import (
	"errors"
	"sync"
	"time"

	"github.com/bft-labs/labelrec/internal/ports"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, fields ...ports.Field) {}
func (nopLogger) Info(msg string, fields ...ports.Field)  {}
func (nopLogger) Warn(msg string, fields ...ports.Field)  {}
func (nopLogger) Error(msg string, fields ...ports.Field) {}

// fakeChannel serves queued lines; an idle read times out after 5ms.
type fakeChannel struct {
	lines   chan []byte
	errs    chan error
	mu      sync.Mutex
	flushes int
	closed  bool
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{lines: make(chan []byte, 64), errs: make(chan error, 1)}
}

func (c *fakeChannel) feed(lines ...string) {
	for _, l := range lines {
		c.lines <- []byte(l)
	}
}

func (c *fakeChannel) ReadLine() ([]byte, error) {
	select {
	case err := <-c.errs:
		return nil, err
	case l := <-c.lines:
		return l, nil
	case <-time.After(5 * time.Millisecond):
		return nil, nil
	}
}

func (c *fakeChannel) FlushInput() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("closed")
	}
	c.flushes++
	return nil
}

func (c *fakeChannel) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func (c *fakeChannel) Device() string { return "/dev/fake0" }

type recordingSink struct {
	mu       sync.Mutex
	lines    []string
	elapsed  []time.Duration
	failures []error
	takes    []uint64
	failed   chan struct{}
}

func newRecordingSink() *recordingSink {
	return &recordingSink{failed: make(chan struct{}, 1)}
}

func (s *recordingSink) OnLine(line string) {
	s.mu.Lock()
	s.lines = append(s.lines, line)
	s.mu.Unlock()
}

func (s *recordingSink) OnElapsed(d time.Duration) {
	s.mu.Lock()
	s.elapsed = append(s.elapsed, d)
	s.mu.Unlock()
}

func (s *recordingSink) OnFailure(ch ports.Channel, take uint64, err error) {
	s.mu.Lock()
	s.failures = append(s.failures, err)
	s.takes = append(s.takes, take)
	s.mu.Unlock()
	s.failed <- struct{}{}
}

func (s *recordingSink) lineCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}
