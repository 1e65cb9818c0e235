package app

import "github.com/bft-labs/labelrec/internal/ports"

// Intent is an operator request or an internal event handled by the
// Controller.
type Intent interface {
	name() string
}

// RefreshPorts re-enumerates the serial devices.
type RefreshPorts struct{}

// Connect opens Device, closing any open connection first.
type Connect struct {
	Device string
}

// Disconnect closes the open connection.
type Disconnect struct{}

// ChooseChecklist loads the CSV at Path. An empty Path means the operator
// cancelled the picker.
type ChooseChecklist struct {
	Path string
}

// ChangePerson switches the active person.
type ChangePerson struct {
	Person string
}

// Start begins a recording.
type Start struct{}

// Stop ends the recording.
type Stop struct{}

// MarkSegment closes the current segment.
type MarkSegment struct{}

// Save commits the stopped take. An empty OutputRoot uses the configured
// output directory.
type Save struct {
	OutputRoot string
}

// ChannelFailed is posted by the capture worker when the channel it was
// reading dies. Take is the recording the worker belonged to.
type ChannelFailed struct {
	Channel ports.Channel
	Take    uint64
	Err     error
}

func (RefreshPorts) name() string    { return "refresh_ports" }
func (Connect) name() string         { return "connect" }
func (Disconnect) name() string      { return "disconnect" }
func (ChooseChecklist) name() string { return "choose_checklist" }
func (ChangePerson) name() string    { return "change_person" }
func (Start) name() string           { return "start" }
func (Stop) name() string            { return "stop" }
func (MarkSegment) name() string     { return "mark_segment" }
func (Save) name() string            { return "save" }
func (ChannelFailed) name() string   { return "channel_failed" }
