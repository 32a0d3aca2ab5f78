// File: dispatch/dispatcher.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Dispatcher owns the timerQ (due-time ascending, inserted via a
// descending-tail scan optimized by a lastEventDue append hint) and the
// eventQ (ready, FIFO within equal priority), exactly as §4.D specifies.
// The ready queue is github.com/eapache/queue, the same ring-buffer queue
// the teacher's executor already depends on — reused here instead of
// reimplementing a ready-queue container.

package dispatch

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/eapache/queue"
	"github.com/momentics/mpr/api"
	"github.com/momentics/mpr/mprtime"
)

// Dispatcher is the event scheduling service.
type Dispatcher struct {
	mu sync.Mutex

	timerQ []*Event // ascending due time; append-optimized via lastDue
	readyQ *queue.Queue

	lastDue  int64
	idSeq    atomic.Uint64
	seqSeq   atomic.Uint64
	executor api.Executor // optional; nil means always run inline
}

// New creates an empty dispatcher. executor may be nil, in which case
// thread-flagged events fall through to inline execution.
func New(executor api.Executor) *Dispatcher {
	return &Dispatcher{
		readyQ:   queue.New(),
		executor: executor,
	}
}

// Schedule inserts a new event due delayMs from now, recurring every
// periodMs (0 = one-shot), and returns it for later Remove/Reschedule.
func (d *Dispatcher) Schedule(cb Callback, delayMs, periodMs int64, priority int, flags Flags, data any) *Event {
	ev := &Event{
		id:       d.idSeq.Add(1),
		due:      mprtime.NowMs() + delayMs,
		period:   periodMs,
		priority: priority,
		flags:    flags,
		cb:       cb,
		Data:     data,
	}
	d.insertTimer(ev)
	return ev
}

// insertTimer performs the descending-tail scan: start from the end
// (the most recently appended event, usually the latest due-time) and
// walk backward until finding the correct ascending slot. The lastDue
// hint shortcuts the common append-only case to O(1).
func (d *Dispatcher) insertTimer(ev *Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ev.seq = d.seqSeq.Add(1)
	ev.inQueue = queueTimer

	if ev.due > d.lastDue || (ev.due == d.lastDue && canAppendAtTail(d.timerQ, ev)) {
		d.timerQ = append(d.timerQ, ev)
		d.lastDue = ev.due
		return
	}

	i := len(d.timerQ)
	for i > 0 {
		prev := d.timerQ[i-1]
		if prev.due < ev.due || (prev.due == ev.due && prev.priority >= ev.priority) {
			break
		}
		i--
	}
	d.timerQ = append(d.timerQ, nil)
	copy(d.timerQ[i+1:], d.timerQ[i:])
	d.timerQ[i] = ev
}

// canAppendAtTail reports whether ev may be appended directly after the
// current tail without violating the same-due priority tie-break (higher
// priority sorts before lower priority among equal due times).
func canAppendAtTail(timerQ []*Event, ev *Event) bool {
	if len(timerQ) == 0 {
		return true
	}
	return timerQ[len(timerQ)-1].priority >= ev.priority
}

// Remove unlinks ev from whichever queue currently holds it. A no-op if
// ev has already fired and was not continuous.
func (d *Dispatcher) Remove(ev *Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	// Match by id: a continuous event's next occurrence is a requeued copy
	// carrying the same id.
	for i, e := range d.timerQ {
		if e.id == ev.id {
			d.timerQ = append(d.timerQ[:i], d.timerQ[i+1:]...)
			break
		}
	}
	ev.inQueue = queueNone
}

// Reschedule recomputes ev's due time from period and re-inserts it. A
// running callback may call this on itself.
func (d *Dispatcher) Reschedule(ev *Event, newPeriod int64) {
	d.Remove(ev)
	ev.period = newPeriod
	ev.due = mprtime.NowMs() + newPeriod
	d.insertTimer(ev)
}

// moveDueTimers drains every timer whose due time has passed into the
// ready queue, requeuing continuous events before their callback runs so
// the callback may safely delete them.
func (d *Dispatcher) moveDueTimers(now int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := 0
	for i < len(d.timerQ) && d.timerQ[i].due <= now {
		ev := d.timerQ[i]
		i++
		ev.inQueue = queueReady
		d.readyQ.Add(ev)
		if ev.Continuous() && ev.period > 0 {
			requeued := &Event{
				id: ev.id, due: now + ev.period, period: ev.period,
				priority: ev.priority, flags: ev.flags, cb: ev.cb, Data: ev.Data,
			}
			requeued.seq = d.seqSeq.Add(1)
			requeued.inQueue = queueTimer
			d.insertTimerLocked(requeued)
		}
	}
	if i > 0 {
		d.timerQ = d.timerQ[i:]
	}
}

// insertTimerLocked is insertTimer's body without re-acquiring d.mu, for
// callers that already hold the lock (moveDueTimers' continuous requeue).
func (d *Dispatcher) insertTimerLocked(ev *Event) {
	if ev.due > d.lastDue || (ev.due == d.lastDue && canAppendAtTail(d.timerQ, ev)) {
		d.timerQ = append(d.timerQ, ev)
		d.lastDue = ev.due
		return
	}
	i := len(d.timerQ)
	for i > 0 {
		prev := d.timerQ[i-1]
		if prev.due < ev.due || (prev.due == ev.due && prev.priority >= ev.priority) {
			break
		}
		i--
	}
	d.timerQ = append(d.timerQ, nil)
	copy(d.timerQ[i+1:], d.timerQ[i:])
	d.timerQ[i] = ev
}

// Service runs until timeoutMs elapses, or (if oneThing) until exactly
// one ready event has been served. Each iteration moves due timers into
// the ready queue, then pops and dispatches the head.
func (d *Dispatcher) Service(timeoutMs int64, oneThing bool) int {
	mark := mprtime.NowMs()
	served := 0
	for {
		d.moveDueTimers(mprtime.NowMs())

		d.mu.Lock()
		var ev *Event
		if d.readyQ.Length() > 0 {
			ev = d.readyQ.Remove().(*Event)
			if ev.inQueue != queueReady {
				ev = nil // removed while waiting in the ready queue
			}
		}
		d.mu.Unlock()

		if ev != nil {
			d.dispatch(ev)
			served++
			if oneThing {
				return served
			}
			continue
		}

		if timeoutMs >= 0 && mprtime.Elapsed(mark) >= timeoutMs {
			return served
		}
		time.Sleep(time.Millisecond)
	}
}

// dispatch runs ev's callback, on a worker if thread-flagged and an
// executor is attached, else inline. A callback that errors is simply
// dropped by its own logic — the dispatcher never itself fails.
func (d *Dispatcher) dispatch(ev *Event) {
	ev.inQueue = queueNone
	if ev.Threaded() && d.executor != nil {
		d.executor.Submit(func() { ev.cb(ev) })
		return
	}
	ev.cb(ev)
}

// Pending reports the number of timers not yet due plus events ready to run.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timerQ) + d.readyQ.Length()
}
