// Package capture owns the recording lifecycle: a background read loop that
// fills the capture buffer, the operator's segment markers, and the review
// and sample views derived from them.
package capture

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bft-labs/labelrec/internal/domain"
	"github.com/bft-labs/labelrec/internal/ports"
)

// DefaultPrefixLen is the number of leading characters of each captured line
// that are not part of the sample (the device's timestamp field).
const DefaultPrefixLen = 8

// Sink receives what the worker produces. OnLine and OnElapsed are called
// from worker goroutines while recording. OnFailure is called once, after the
// read loop has ended, with the channel that failed and the take it was
// recording.
type Sink interface {
	OnLine(line string)
	OnElapsed(d time.Duration)
	OnFailure(ch ports.Channel, take uint64, err error)
}

// Config holds the session settings.
type Config struct {
	DecodePolicy DecodePolicy
	TickInterval time.Duration

	// JoinTimeout bounds how long Stop waits for the read loop; the loop may
	// be inside one blocking read when stop is requested.
	JoinTimeout time.Duration
}

// DefaultConfig returns a Config with a 1 Hz elapsed counter.
func DefaultConfig() Config {
	return Config{
		DecodePolicy: DecodeStrict,
		TickInterval: time.Second,
		JoinTimeout:  5 * time.Second,
	}
}

// Session is one operator's capture buffer and markers plus the worker that
// fills them.
type Session struct {
	cfg    Config
	sink   Sink
	logger ports.Logger
	life   *lifecycle

	mu        sync.Mutex
	take      uint64
	lines     []string
	markers   []int
	hasTake   bool
	committed bool
}

// NewSession creates an idle session.
func NewSession(cfg Config, sink Sink, logger ports.Logger) *Session {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if cfg.JoinTimeout <= 0 {
		cfg.JoinTimeout = DefaultConfig().JoinTimeout
	}
	return &Session{
		cfg:     cfg,
		sink:    sink,
		logger:  logger,
		life:    newLifecycle(logger),
		markers: []int{0},
	}
}

// State returns the lifecycle state.
func (s *Session) State() State { return s.life.State() }

// Take identifies the current recording. It increases with every Start and
// is zero before the first one.
func (s *Session) Take() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.take
}

// Recording reports whether the read loop is running.
func (s *Session) Recording() bool { return s.life.State() == StateRecording }

// Start clears the buffer, resets the markers to [0] and starts reading ch
// in the background.
func (s *Session) Start(ch ports.Channel) error {
	if ch == nil {
		return domain.NewNotReady("Please connect to a serial port before recording.", "Serial port error")
	}
	if !s.life.CanStart() {
		return domain.NewNotReady("A recording is already in progress.", "Recording error")
	}
	// Bytes received before start belong to no take.
	if err := ch.FlushInput(); err != nil {
		return &domain.ChannelError{Err: fmt.Errorf("flush input: %w", err)}
	}

	s.mu.Lock()
	s.take++
	take := s.take
	s.lines = nil
	s.markers = []int{0}
	s.hasTake = false
	s.committed = false
	s.mu.Unlock()

	if err := s.life.TransitionTo(StateRecording, "start"); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.life.SetCancel(cancel)
	s.life.AddWorker()
	go s.readLoop(ctx, ch, take)
	s.life.AddWorker()
	go s.tickLoop(ctx)

	s.logger.Info("recording started", ports.String("device", ch.Device()), ports.Int("take", int(take)))
	return nil
}

func (s *Session) readLoop(ctx context.Context, ch ports.Channel, take uint64) {
	defer s.life.WorkerDone()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		raw, err := ch.ReadLine()
		if err != nil {
			s.fail(ch, take, &domain.ChannelError{Err: err})
			return
		}
		if len(raw) == 0 {
			continue
		}
		line, err := Decode(raw, s.cfg.DecodePolicy)
		if err != nil {
			s.fail(ch, take, err)
			return
		}

		s.mu.Lock()
		s.lines = append(s.lines, line)
		s.mu.Unlock()
		s.sink.OnLine(line)
	}
}

func (s *Session) tickLoop(ctx context.Context) {
	defer s.life.WorkerDone()
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	var ticks int
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ticks++
			s.sink.OnElapsed(time.Duration(ticks) * time.Second)
		}
	}
}

func (s *Session) fail(ch ports.Channel, take uint64, err error) {
	if terr := s.life.TransitionTo(StateFailed, err.Error()); terr != nil {
		s.logger.Warn("capture failure in unexpected state", ports.Err(terr))
	}
	s.life.Cancel()

	s.mu.Lock()
	s.hasTake = true
	s.mu.Unlock()

	s.logger.Error("recording failed", ports.String("device", ch.Device()), ports.Err(err))
	s.sink.OnFailure(ch, take, err)
}

// Stop requests the read loop to end and waits for it. The buffer and
// markers are left intact. Stop after a failure only reaps the workers.
func (s *Session) Stop() error {
	switch s.life.State() {
	case StateRecording:
		// Loses the race with fail() when the channel dies concurrently;
		// either way the workers are cancelled below.
		_ = s.life.TransitionTo(StateStopping, "stop requested")
	case StateFailed:
	default:
		return ErrNotRecording
	}

	s.life.Cancel()
	err := s.life.WaitWithTimeout(s.cfg.JoinTimeout)
	if s.life.State() == StateStopping {
		_ = s.life.TransitionTo(StateIdle, "workers joined")
	}

	s.mu.Lock()
	s.hasTake = true
	n := len(s.lines)
	m := len(s.markers)
	s.mu.Unlock()

	s.logger.Info("recording stopped", ports.Int("lines", n), ports.Int("markers", m))
	return err
}

// MarkSegment appends the current buffer length to the markers when it is
// strictly greater than the last marker. It reports whether a marker was
// added.
func (s *Session) MarkSegment() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.lines)
	if n <= s.markers[len(s.markers)-1] {
		return false
	}
	s.markers = append(s.markers, n)
	return true
}

// Lines returns a copy of the capture buffer.
func (s *Session) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

// Markers returns a copy of the segment markers.
func (s *Session) Markers() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.markers...)
}

// Saveable reports whether a stopped take exists that has not been
// committed yet.
func (s *Session) Saveable() bool {
	if s.life.State() == StateRecording || s.life.State() == StateStopping {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasTake && !s.committed
}

// MarkCommitted records that the current take has been saved.
func (s *Session) MarkCommitted() {
	s.mu.Lock()
	s.committed = true
	s.mu.Unlock()
}

// Render returns the buffer for review: every line without its terminator,
// with a separator line before each line that starts a marked segment.
func (s *Session) Render(separator string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	next := 1
	for i, line := range s.lines {
		if next < len(s.markers) && i == s.markers[next] {
			b.WriteString(separator)
			b.WriteByte('\n')
			next++
		}
		b.WriteString(TrimTerminator(line))
		b.WriteByte('\n')
	}
	return b.String()
}

// ClosedSegments returns the sample lines of each segment between
// consecutive markers, skipping the first span [0, markers[1]) which holds
// whatever arrived before the operator's first mark. Each line loses its
// first prefixLen characters and its terminator.
func (s *Session) ClosedSegments(prefixLen int) [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var segs [][]string
	for i := 2; i < len(s.markers); i++ {
		span := s.lines[s.markers[i-1]:s.markers[i]]
		seg := make([]string, len(span))
		for j, line := range span {
			seg[j] = SampleText(line, prefixLen)
		}
		segs = append(segs, seg)
	}
	return segs
}

// TrimTerminator removes a trailing "\r\n", "\n" or "\r".
func TrimTerminator(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

// SampleText strips the terminator and the first prefixLen characters.
func SampleText(line string, prefixLen int) string {
	t := TrimTerminator(line)
	if prefixLen <= 0 {
		return t
	}
	if len(t) <= prefixLen {
		return ""
	}
	return t[prefixLen:]
}

// FormatElapsed renders the recording clock.
func FormatElapsed(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("Record Time: %02d:%02d", secs/60, secs%60)
}
