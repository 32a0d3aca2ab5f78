// File: mprtime/condvar.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// CondVar supports a bounded wait returning Timeout or Signalled, plus a
// service-pumping variant so a single-threaded caller keeps the dispatcher
// alive while blocked (wait_with_service).

package mprtime

import (
	"sync"
	"time"
)

// WaitResult reports why a CondVar.Wait call returned.
type WaitResult int

const (
	Signalled WaitResult = iota
	Timeout
)

// CondVar is a broadcast-style condition variable with a timed wait.
type CondVar struct {
	mu   sync.Mutex
	ch   chan struct{}
	once sync.Once
}

// NewCondVar constructs a ready-to-use CondVar.
func NewCondVar() *CondVar {
	return &CondVar{ch: make(chan struct{})}
}

// Wait blocks up to timeoutMs for a Signal, returning which happened
// first. timeoutMs <= 0 waits indefinitely.
func (c *CondVar) Wait(timeoutMs int64) WaitResult {
	c.mu.Lock()
	ch := c.ch
	c.mu.Unlock()

	if timeoutMs <= 0 {
		<-ch
		return Signalled
	}
	timer := time.NewTimer(time.Duration(timeoutMs) * time.Millisecond)
	defer timer.Stop()
	select {
	case <-ch:
		return Signalled
	case <-timer.C:
		return Timeout
	}
}

// Signal wakes every waiter and rearms the CondVar for the next wait.
func (c *CondVar) Signal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	close(c.ch)
	c.ch = make(chan struct{})
}

// Reset rearms the CondVar without waking anyone, discarding any pending
// signal that has not yet been observed.
func (c *CondVar) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ch = make(chan struct{})
}

// WaitWithService polls service (typically a dispatcher's Service call)
// on a short tick while waiting for the signal, so a single-threaded
// caller continues to make scheduling progress instead of blocking the
// whole process on the condition.
func (c *CondVar) WaitWithService(timeoutMs int64, tickMs int64, service func()) WaitResult {
	if tickMs <= 0 {
		tickMs = 10
	}
	mark := Mark()
	for {
		remaining := timeoutMs
		if timeoutMs > 0 {
			remaining = Remaining(mark, timeoutMs)
			if remaining == 0 {
				return Timeout
			}
			if remaining > tickMs {
				remaining = tickMs
			}
		} else {
			remaining = tickMs
		}
		if r := c.Wait(remaining); r == Signalled {
			return Signalled
		}
		if service != nil {
			service()
		}
		if timeoutMs > 0 && Elapsed(mark) >= timeoutMs {
			return Timeout
		}
	}
}
