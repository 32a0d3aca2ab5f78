// File: dispatch/event.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package dispatch

// Callback is invoked when an Event fires.
type Callback func(ev *Event)

// Flags controls scheduling behavior.
type Flags int

const (
	// FlagThread dispatches the callback on a worker instead of inline.
	FlagThread Flags = 1 << iota
	// FlagContinuous requeues the event before the callback runs.
	FlagContinuous
)

// queueKind tracks which of the dispatcher's two queues currently owns
// the event, enforcing the "at most one queue" invariant.
type queueKind int

const (
	queueNone queueKind = iota
	queueTimer
	queueReady
)

// Event is a scheduled unit of work: a one-shot or periodic timer, or an
// item already moved to the ready queue awaiting service.
type Event struct {
	id       uint64
	due      int64 // absolute due time, ms since dispatcher epoch
	period   int64 // 0 = one-shot
	priority int
	flags    Flags
	cb       Callback
	Data     any

	inQueue queueKind
	seq     uint64 // insertion sequence, for FIFO tie-break
}

// Continuous reports whether the event requeues itself after firing.
func (e *Event) Continuous() bool { return e.flags&FlagContinuous != 0 }

// Threaded reports whether the event should run on a worker.
func (e *Event) Threaded() bool { return e.flags&FlagThread != 0 }

// Priority returns the event's scheduling priority.
func (e *Event) Priority() int { return e.priority }
