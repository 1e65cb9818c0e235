// Package app holds the session controller: the single place where operator
// intents are checked against the current connection, checklist and
// recording, and turned into capture and ledger operations.
package app

import (
	"errors"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/bft-labs/labelrec/internal/capture"
	"github.com/bft-labs/labelrec/internal/domain"
	"github.com/bft-labs/labelrec/internal/ledger"
	"github.com/bft-labs/labelrec/internal/ports"
)

// Config holds the controller settings.
type Config struct {
	Serial    ports.SerialConfig
	Capture   capture.Config
	OutputDir string
	Separator string
	PrefixLen int
	Person    string
}

// Controller serializes intents and owns the connection, the active
// checklist view and the capture session.
type Controller struct {
	cfg     Config
	opener  ports.Opener
	lister  ports.PortLister
	ledger  *ledger.Ledger
	surface ports.Surface
	logger  ports.Logger
	session *capture.Session

	mu     sync.Mutex
	ch     ports.Channel
	table  *domain.Checklist
	person string
	view   *ledger.View
}

// NewController creates a Controller. The surface must be safe for
// concurrent use: worker lines and ticks reach it from the capture
// goroutines.
func NewController(
	cfg Config,
	opener ports.Opener,
	lister ports.PortLister,
	l *ledger.Ledger,
	surface ports.Surface,
	logger ports.Logger,
) *Controller {
	if cfg.Separator == "" {
		cfg.Separator = "#"
	}
	c := &Controller{
		cfg:     cfg,
		opener:  opener,
		lister:  lister,
		ledger:  l,
		surface: surface,
		logger:  logger,
		person:  cfg.Person,
	}
	c.session = capture.NewSession(cfg.Capture, sinkFor(c), logger)
	return c
}

// Handle applies one intent. Any error is shown to the operator as a
// dialog, logged and returned; the controls are refreshed either way.
func (c *Controller) Handle(in Intent) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.dispatch(in)
	if err != nil {
		text, title := domain.Describe(err)
		c.logger.Warn("intent failed",
			ports.String("intent", in.name()),
			ports.String("title", title),
			ports.Err(err),
		)
		c.surface.ShowError(text, title)
	}
	c.surface.ShowControls(c.controls())
	return err
}

func (c *Controller) dispatch(in Intent) error {
	if c.session.Recording() {
		switch in.(type) {
		case Stop, MarkSegment, ChannelFailed, RefreshPorts:
		default:
			return domain.NewNotReady("Please stop the recording first.", "Recording error")
		}
	}

	switch in := in.(type) {
	case RefreshPorts:
		return c.refreshPorts()
	case Connect:
		return c.connect(in.Device)
	case Disconnect:
		return c.disconnect()
	case ChooseChecklist:
		return c.chooseChecklist(in.Path)
	case ChangePerson:
		return c.changePerson(in.Person)
	case Start:
		return c.start()
	case Stop:
		return c.stop()
	case MarkSegment:
		return c.mark()
	case Save:
		return c.save(in.OutputRoot)
	case ChannelFailed:
		return c.channelFailed(in)
	}
	return errors.New("unknown intent")
}

// Close stops a running recording and releases the connection.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.Recording() {
		if err := c.session.Stop(); err != nil {
			c.logger.Warn("stop on close", ports.Err(err))
		}
	}
	if c.ch == nil {
		return nil
	}
	err := c.ch.Close()
	c.ch = nil
	return err
}

// controls derives the enablement of every control from the current state.
func (c *Controller) controls() domain.Controls {
	rec := c.session.Recording()
	return domain.Controls{
		Connect: !rec,
		Start:   !rec && c.ch != nil && c.view != nil && !c.view.Finished(),
		Stop:    rec,
		Mark:    rec,
		Save:    c.session.Saveable(),
	}
}

func (c *Controller) refreshPorts() error {
	names, err := c.lister.ListPorts()
	if err != nil {
		return &domain.ConnectionError{Device: "port list", Err: err}
	}
	c.surface.ShowPorts(names)
	return nil
}

func (c *Controller) connect(device string) error {
	if device == "" {
		return domain.NewNotReady("Please choose a serial port.", "Serial port error")
	}
	if c.ch != nil {
		if err := c.ch.Close(); err != nil {
			c.logger.Warn("close previous connection", ports.String("device", c.ch.Device()), ports.Err(err))
		}
		c.ch = nil
	}

	ch, err := c.opener.Open(device, c.cfg.Serial)
	if err != nil {
		return err
	}
	c.ch = ch
	c.logger.Info("connected",
		ports.String("device", device),
		ports.Int("baud_rate", c.cfg.Serial.BaudRate),
	)

	if c.table == nil {
		return nil
	}
	// A new connection starts a fresh pass over the checklist.
	v, err := ledger.Activate(c.table, c.person)
	if err != nil {
		c.view = nil
		return err
	}
	c.view = v
	c.surface.ShowLabel(v.Current())
	return nil
}

func (c *Controller) disconnect() error {
	if c.ch == nil {
		return nil
	}
	err := c.ch.Close()
	c.logger.Info("disconnected", ports.String("device", c.ch.Device()))
	c.ch = nil
	if err != nil {
		return &domain.ChannelError{Err: err}
	}
	return nil
}

func (c *Controller) chooseChecklist(path string) error {
	if path == "" {
		return nil
	}
	t, err := c.ledger.Load(path)
	if err != nil {
		return err
	}

	people := ledger.People(t)
	person := c.person
	if !slices.Contains(people, person) && len(people) > 0 {
		person = people[0]
	}
	return c.activate(t, person)
}

func (c *Controller) changePerson(person string) error {
	if c.table == nil {
		c.person = person
		return nil
	}
	return c.activate(c.table, person)
}

// activate replaces the checklist, person and view together. On failure the
// previous ones stay in place.
func (c *Controller) activate(t *domain.Checklist, person string) error {
	v, err := ledger.Activate(t, person)
	if err != nil {
		return err
	}
	c.table, c.person, c.view = t, person, v
	c.surface.ShowChecklist(filepath.Base(t.Path), ledger.People(t), person)
	c.surface.ShowLabel(v.Current())
	return nil
}

func (c *Controller) start() error {
	if c.view == nil {
		return domain.NewNotReady("Please choose a CSV file before recording.", "CSV file error")
	}
	if c.view.Finished() {
		return domain.NewNotReady("The current csv file is finished. Please choose another file.", "CSV finished error")
	}
	if c.ch == nil {
		// Reported by the session with the serial port wording.
		return c.session.Start(nil)
	}

	if err := c.session.Start(c.ch); err != nil {
		return err
	}
	c.surface.ShowReview("")
	c.surface.ShowElapsed(0)
	return nil
}

func (c *Controller) stop() error {
	if !c.session.Recording() {
		return domain.NewNotReady("There is no recording to stop.", "Recording error")
	}
	if err := c.session.Stop(); err != nil {
		c.logger.Warn("recording stopped with error", ports.Err(err))
	}
	c.surface.ShowReview(c.session.Render(c.cfg.Separator))
	return nil
}

func (c *Controller) mark() error {
	if !c.session.Recording() {
		return domain.NewNotReady("Please start recording before marking a segment.", "Recording error")
	}
	if c.session.MarkSegment() {
		m := c.session.Markers()
		c.logger.Debug("segment marked", ports.Int("at", m[len(m)-1]))
	}
	return nil
}

func (c *Controller) save(root string) error {
	if !c.session.Saveable() {
		return domain.NewNotReady("Please record and stop before saving.", "Save error")
	}
	if c.view == nil {
		return domain.NewNotReady("Please choose a CSV file before recording.", "CSV file error")
	}
	if root == "" {
		root = c.cfg.OutputDir
	}

	res, err := c.ledger.Commit(c.view, c.session.Take(), c.session.ClosedSegments(c.cfg.PrefixLen), root, c.cfg.Separator)
	if err != nil {
		return err
	}
	c.session.MarkCommitted()
	c.surface.ShowLabel(res.Snapshot)
	return nil
}

func (c *Controller) channelFailed(f ChannelFailed) error {
	if f.Channel == nil || f.Channel != c.ch {
		c.logger.Debug("ignoring failure of replaced channel")
		return nil
	}
	if f.Take != c.session.Take() {
		c.logger.Debug("ignoring failure of an earlier take",
			ports.Int("take", int(f.Take)), ports.Int("current", int(c.session.Take())))
		return nil
	}
	if err := c.session.Stop(); err != nil && !errors.Is(err, capture.ErrNotRecording) {
		c.logger.Warn("reaping failed recording", ports.Err(err))
	}
	if err := c.ch.Close(); err != nil {
		c.logger.Warn("close failed channel", ports.Err(err))
	}
	c.ch = nil
	c.surface.ShowReview(c.session.Render(c.cfg.Separator))
	return f.Err
}

// sink forwards worker output to the surface and posts failures back as
// intents. It never takes the controller lock: Stop holds it while joining
// the worker.
type sink struct {
	c *Controller
}

func sinkFor(c *Controller) sink { return sink{c: c} }

func (s sink) OnLine(line string) { s.c.surface.ShowLine(capture.TrimTerminator(line)) }

func (s sink) OnElapsed(d time.Duration) { s.c.surface.ShowElapsed(d) }

func (s sink) OnFailure(ch ports.Channel, take uint64, err error) {
	go s.c.Handle(ChannelFailed{Channel: ch, Take: take, Err: err})
}
