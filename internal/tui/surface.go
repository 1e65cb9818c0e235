package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bft-labs/labelrec/internal/domain"
)

// Surface implements ports.Surface by posting messages to a running
// bubbletea program. Messages posted before Attach are dropped.
type Surface struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

// NewSurface creates a detached Surface.
func NewSurface() *Surface { return &Surface{} }

// Attach routes messages to send, normally (*tea.Program).Send.
func (s *Surface) Attach(send func(tea.Msg)) {
	s.mu.Lock()
	s.send = send
	s.mu.Unlock()
}

func (s *Surface) post(msg tea.Msg) {
	s.mu.RLock()
	send := s.send
	s.mu.RUnlock()
	if send != nil {
		send(msg)
	}
}

func (s *Surface) ShowElapsed(d time.Duration)      { s.post(elapsedMsg{d}) }
func (s *Surface) ShowLine(line string)             { s.post(lineMsg{line}) }
func (s *Surface) ShowReview(text string)           { s.post(reviewMsg{text}) }
func (s *Surface) ShowLabel(l domain.LabelSnapshot) { s.post(labelMsg{l}) }
func (s *Surface) ShowError(text, title string)     { s.post(errorMsg{text, title}) }
func (s *Surface) ShowControls(c domain.Controls)   { s.post(controlsMsg{c}) }

func (s *Surface) ShowPorts(names []string) {
	s.post(portsMsg{append([]string(nil), names...)})
}

func (s *Surface) ShowChecklist(name string, people []string, person string) {
	s.post(checklistMsg{name, append([]string(nil), people...), person})
}
