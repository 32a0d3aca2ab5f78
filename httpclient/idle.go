// File: httpclient/idle.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// IdleMonitor is the single global idle timer from §4.H: "a single
// global timer fires every MPR_HTTP_TIMER_PERIOD; connections idle
// longer than their timeout are disconnected". Built on a single
// continuous dispatch.Event rather than one timer per connection,
// grounded on dispatch.Dispatcher's Schedule/continuous-event contract.

package httpclient

import (
	"sync"
	"time"

	"github.com/momentics/mpr/dispatch"
	"github.com/momentics/mpr/transport"
)

type idleConn struct {
	sock      *transport.Socket
	lastUsed  int64
	timeoutMs int64
}

// IdleMonitor periodically disconnects sockets that have been idle
// longer than their registered timeout.
type IdleMonitor struct {
	mu    sync.Mutex
	conns map[*transport.Socket]*idleConn
	ev    *dispatch.Event
}

// NewIdleMonitor schedules a recurring sweep every period on d, closing
// any tracked socket idle longer than its own timeout.
func NewIdleMonitor(d *dispatch.Dispatcher, period time.Duration) *IdleMonitor {
	m := &IdleMonitor{conns: make(map[*transport.Socket]*idleConn)}
	m.ev = d.Schedule(m.sweep, period.Milliseconds(), period.Milliseconds(), 0, dispatch.FlagContinuous, nil)
	return m
}

// Track registers sock for idle disconnection after timeout of
// inactivity. Touch must be called to reset the idle clock.
func (m *IdleMonitor) Track(sock *transport.Socket, timeout time.Duration, nowMs int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conns[sock] = &idleConn{sock: sock, lastUsed: nowMs, timeoutMs: timeout.Milliseconds()}
}

// Touch resets sock's idle clock to nowMs.
func (m *IdleMonitor) Touch(sock *transport.Socket, nowMs int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.conns[sock]; ok {
		c.lastUsed = nowMs
	}
}

// Untrack stops monitoring sock (the caller closed it itself).
func (m *IdleMonitor) Untrack(sock *transport.Socket) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.conns, sock)
}

func (m *IdleMonitor) sweep(ev *dispatch.Event) {
	now := time.Now().UnixMilli()
	m.mu.Lock()
	var expired []*transport.Socket
	for sock, c := range m.conns {
		if now-c.lastUsed >= c.timeoutMs {
			expired = append(expired, sock)
		}
	}
	for _, sock := range expired {
		delete(m.conns, sock)
	}
	m.mu.Unlock()

	for _, sock := range expired {
		sock.Close()
	}
}

// Close cancels the recurring sweep.
func (m *IdleMonitor) Close(d *dispatch.Dispatcher) {
	d.Remove(m.ev)
}
