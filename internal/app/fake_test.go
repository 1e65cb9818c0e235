package app

import (
	"errors"
	"sync"
	"time"

	"github.com/bft-labs/labelrec/internal/domain"
	"github.com/bft-labs/labelrec/internal/ports"
)

type fakeChannel struct {
	device string
	lines  chan []byte
	mu     sync.Mutex
	closed bool
}

func newFakeChannel(device string) *fakeChannel {
	return &fakeChannel{device: device, lines: make(chan []byte, 64)}
}

func (c *fakeChannel) feed(lines ...string) {
	for _, l := range lines {
		c.lines <- []byte(l)
	}
}

func (c *fakeChannel) ReadLine() ([]byte, error) {
	if c.isClosed() {
		return nil, errors.New("port closed")
	}
	select {
	case l := <-c.lines:
		return l, nil
	case <-time.After(5 * time.Millisecond):
		return nil, nil
	}
}

func (c *fakeChannel) FlushInput() error { return nil }

func (c *fakeChannel) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func (c *fakeChannel) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeChannel) Device() string { return c.device }

type fakeOpener struct {
	mu     sync.Mutex
	opened []*fakeChannel
	err    error
}

func (o *fakeOpener) Open(device string, cfg ports.SerialConfig) (ports.Channel, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return nil, &domain.ConnectionError{Device: device, Err: o.err}
	}
	ch := newFakeChannel(device)
	o.opened = append(o.opened, ch)
	return ch, nil
}

func (o *fakeOpener) last() *fakeChannel {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.opened[len(o.opened)-1]
}

type fakeLister struct {
	names []string
	err   error
}

func (l fakeLister) ListPorts() ([]string, error) { return l.names, l.err }

type dialogCall struct{ text, title string }

// fakeSurface records everything the controller shows.
type fakeSurface struct {
	mu        sync.Mutex
	lines     []string
	elapsed   []time.Duration
	reviews   []string
	labels    []domain.LabelSnapshot
	errors    []dialogCall
	controls  domain.Controls
	ports     []string
	checklist string
	people    []string
	person    string
}

func (s *fakeSurface) ShowElapsed(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elapsed = append(s.elapsed, d)
}

func (s *fakeSurface) ShowLine(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
}

func (s *fakeSurface) ShowReview(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews = append(s.reviews, text)
}

func (s *fakeSurface) ShowLabel(l domain.LabelSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.labels = append(s.labels, l)
}

func (s *fakeSurface) ShowError(text, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, dialogCall{text, title})
}

func (s *fakeSurface) ShowControls(c domain.Controls) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controls = c
}

func (s *fakeSurface) ShowPorts(names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ports = names
}

func (s *fakeSurface) ShowChecklist(name string, people []string, person string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checklist, s.people, s.person = name, people, person
}

func (s *fakeSurface) lineCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

func (s *fakeSurface) lastLabel() domain.LabelSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.labels[len(s.labels)-1]
}

func (s *fakeSurface) lastError() dialogCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.errors) == 0 {
		return dialogCall{}
	}
	return s.errors[len(s.errors)-1]
}

func (s *fakeSurface) currentControls() domain.Controls {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controls
}
