// File: wait/handler.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package wait

import "sync/atomic"

// Mask is a bitset of readiness conditions.
type Mask int

const (
	Readable Mask = 1 << iota
	Writable
)

// Callback is invoked with the handler and the ready mask. Returning
// quickly matters: on single-threaded services this runs on the poll
// loop itself.
type Callback func(h *Handler, present Mask)

// Handler is the per-fd registration record from §4.E: desiredMask is
// what the caller wants to watch, disableMask acts as a one-shot gate
// (zero suppresses further callbacks until re-armed), presentMask is
// the last translated OS readiness, recall forces a synthetic readable
// report on the next cycle, and maskGeneration invalidates any cached
// kernel pollset the backend built from a stale desiredMask/disableMask.
type Handler struct {
	FD       int
	priority int
	cb       Callback
	Data     any

	desiredMask atomic.Int32
	disableMask atomic.Int32
	presentMask atomic.Int32
	recall      atomic.Bool
	inUse       atomic.Int32
	generation  atomic.Uint64
	closed      atomic.Bool
}

func newHandler(fd int, desired Mask, cb Callback, data any, priority int) *Handler {
	h := &Handler{FD: fd, cb: cb, Data: data, priority: priority}
	h.desiredMask.Store(int32(desired))
	h.disableMask.Store(int32(desired))
	return h
}

// DesiredMask returns the currently watched event set.
func (h *Handler) DesiredMask() Mask { return Mask(h.desiredMask.Load()) }

// Eligible reports whether the handler may currently fire: disableMask
// must be non-zero (the one-shot gate has not been tripped), the handler
// must not be disconnected, and inUse must be zero (no earlier callback
// still in flight).
func (h *Handler) Eligible() bool {
	return h.disableMask.Load() != 0 && !h.closed.Load() && h.inUse.Load() == 0
}
