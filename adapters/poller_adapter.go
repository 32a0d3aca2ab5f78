// File: adapters/poller_adapter.go
// Package adapters
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// PollerAdapter wraps EventLoop for batched event processing: handlers
// register once, and events pushed via Push are drained and fanned out
// in backoff-paced batches rather than one goroutine wakeup per event.
// This is an alternative, higher-throughput delivery path to
// dispatch.Dispatcher's per-fd callback model, for callers that accept
// batched, not-necessarily-ordered delivery in exchange for fewer wakeups.

package adapters

import (
	"sync"

	"github.com/momentics/mpr/api"
	"github.com/momentics/mpr/internal/concurrency"
)

// PollerAdapter uses EventLoop for batched event processing.
type PollerAdapter struct {
	eventLoop *concurrency.EventLoop
	mu        sync.Mutex
	started   bool
	// handlers and bridges are kept in parallel slices for unregister.
	handlers []api.Handler
	bridges  []*handlerBridge
}

// NewPollerAdapter creates an adapter over a batched EventLoop with the
// given per-cycle batch size and inbox capacity.
func NewPollerAdapter(batchSize, ringCapacity int) *PollerAdapter {
	return &PollerAdapter{
		eventLoop: concurrency.NewEventLoop(batchSize, ringCapacity),
		handlers:  make([]api.Handler, 0),
		bridges:   make([]*handlerBridge, 0),
	}
}

type handlerBridge struct {
	inner api.Handler
}

// HandleEvent dispatches to the wrapped api.Handler.
func (hb *handlerBridge) HandleEvent(ev concurrency.Event) {
	hb.inner.Handle(ev)
}

// Register adds h to the set of handlers invoked for every pushed event,
// starting the underlying EventLoop on first use.
func (p *PollerAdapter) Register(h api.Handler) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		go p.eventLoop.Run()
		p.started = true
	}
	hb := &handlerBridge{inner: h}
	p.eventLoop.RegisterHandler(hb)
	p.handlers = append(p.handlers, h)
	p.bridges = append(p.bridges, hb)
	return nil
}

// Poll reports the approximate number of events still buffered; delivery
// itself happens asynchronously on the EventLoop's own goroutine.
func (p *PollerAdapter) Poll(maxEvents int) (int, error) {
	count := p.eventLoop.Pending()
	return count, nil
}

// Unregister removes h so it no longer receives pushed events.
func (p *PollerAdapter) Unregister(h api.Handler) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, registered := range p.handlers {
		if registered == h {
			p.eventLoop.UnregisterHandler(p.bridges[i])
			p.handlers = append(p.handlers[:i], p.handlers[i+1:]...)
			p.bridges = append(p.bridges[:i], p.bridges[i+1:]...)
			return nil
		}
	}
	return nil
}

// Stop halts the EventLoop, waiting for its goroutine to exit.
func (p *PollerAdapter) Stop() {
	p.eventLoop.Stop()
}

// Push enqueues ev for batched delivery to every registered handler.
// Returns false if the inbox is full.
func (p *PollerAdapter) Push(ev any) bool {
	return p.eventLoop.Push(ev)
}
