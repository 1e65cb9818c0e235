package tui

import (
	"context"
	"sync"

	"github.com/bft-labs/labelrec/internal/app"
)

// Handler applies intents. *app.Controller implements it.
type Handler interface {
	Handle(in app.Intent) error
}

// Queue accepts intents from the event loop. Enqueue must not block.
type Queue interface {
	Enqueue(intents ...app.Intent)
}

// Dispatcher hands queued intents to a Handler one at a time, in the order
// they were enqueued. Handling happens on the goroutine running Run, off the
// bubbletea event loop: the controller may block joining the capture worker,
// which itself posts to the program.
type Dispatcher struct {
	handler Handler

	mu      sync.Mutex
	pending []app.Intent
	wake    chan struct{}
}

// NewDispatcher creates a Dispatcher for h. Nothing is handled until Run.
func NewDispatcher(h Handler) *Dispatcher {
	return &Dispatcher{
		handler: h,
		wake:    make(chan struct{}, 1),
	}
}

// Enqueue appends intents to the queue.
func (d *Dispatcher) Enqueue(intents ...app.Intent) {
	if len(intents) == 0 {
		return
	}
	d.mu.Lock()
	d.pending = append(d.pending, intents...)
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Run handles queued intents until ctx is done. Intents still queued at
// that point are dropped.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		d.mu.Lock()
		batch := d.pending
		d.pending = nil
		d.mu.Unlock()

		for _, in := range batch {
			if ctx.Err() != nil {
				return
			}
			// The controller reports its own errors to the surface.
			_ = d.handler.Handle(in)
		}
		if len(batch) > 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-d.wake:
		}
	}
}
