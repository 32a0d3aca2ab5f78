// File: transport/socket.go
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
// Description:
//   Socket is the §4.G non-blocking socket wrapper: every socket starts
//   non-blocking, Read/Write attempt exactly one I/O pass and translate
//   a would-block condition into api.ErrWouldBlock rather than stalling;
//   a user-visible blocking flag switches Read/Write to wait on the
//   runtime netpoller instead. Grounded on transport/tcp/listener.go's
//   net.Conn-based accept loop, generalized from a fixed WebSocket
//   handshake reader to a general-purpose non-blocking socket contract.

package transport

import (
	"errors"
	"io"
	"net"
	"strings"
	"time"

	"github.com/momentics/mpr/api"
)

// Socket wraps a net.Conn with the non-blocking discipline from §4.G.
type Socket struct {
	conn     net.Conn
	blocking bool
	eof      bool
}

// NewSocket wraps an already-established net.Conn. New sockets start
// non-blocking, matching "all sockets are placed in non-blocking mode
// at creation".
func NewSocket(conn net.Conn) *Socket {
	return &Socket{conn: conn}
}

// Connect dials addr using a bounded non-blocking-equivalent dial: Go's
// net.Dialer already performs a non-blocking connect internally via the
// runtime netpoller, so DialTimeout maps directly onto "non-blocking
// connect followed by writable-wait".
func Connect(network, addr string, timeout time.Duration) (*Socket, error) {
	conn, err := net.DialTimeout(network, addr, timeout)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, api.ErrTimeout
		}
		return nil, translateDialError(err)
	}
	return NewSocket(conn), nil
}

// SetBlocking toggles the user-visible blocking flag: blocking Read/Write
// wait on the runtime netpoller until data/space is available, whereas
// non-blocking calls return api.ErrWouldBlock immediately when the
// kernel has nothing ready.
func (s *Socket) SetBlocking(b bool) { s.blocking = b }

func (s *Socket) Blocking() bool { return s.blocking }

// Read returns bytes read, 0 with io.EOF on clean close, 0 with
// api.ErrWouldBlock when non-blocking and no data is ready (EAGAIN
// semantics, EOF not set), or a translated fatal error.
func (s *Socket) Read(buf []byte) (int, error) {
	if s.blocking {
		s.conn.SetReadDeadline(time.Time{})
	} else {
		s.conn.SetReadDeadline(time.Now())
	}
	n, err := s.conn.Read(buf)
	if err == nil {
		return n, nil
	}
	if err == io.EOF {
		s.eof = true
		return 0, io.EOF
	}
	if ne, ok := err.(net.Error); ok && ne.Timeout() && !s.blocking {
		return n, api.ErrWouldBlock
	}
	return n, translateIOError(err)
}

// Write returns a short count in non-blocking mode when the socket
// cannot accept the whole buffer immediately; callers must retry on
// writable-wakeup, per §4.G.
func (s *Socket) Write(buf []byte) (int, error) {
	if s.blocking {
		s.conn.SetWriteDeadline(time.Time{})
	} else {
		s.conn.SetWriteDeadline(time.Now())
	}
	n, err := s.conn.Write(buf)
	if err == nil {
		return n, nil
	}
	if ne, ok := err.(net.Error); ok && ne.Timeout() && !s.blocking {
		return n, api.ErrWouldBlock
	}
	return n, translateIOError(err)
}

// EOF reports whether the last Read observed a clean close.
func (s *Socket) EOF() bool { return s.eof }

// Close closes the underlying connection.
func (s *Socket) Close() error { return s.conn.Close() }

// Conn exposes the underlying net.Conn for callers (sendfile, raw fd
// access) that need it directly.
func (s *Socket) Conn() net.Conn { return s.conn }

func translateIOError(err error) error {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		msg := opErr.Err.Error()
		switch {
		case strings.Contains(msg, "connection refused"):
			return api.ErrConnectionRefused
		case strings.Contains(msg, "connection reset"), strings.Contains(msg, "broken pipe"):
			return api.ErrConnectionReset
		}
	}
	return err
}

func translateDialError(err error) error {
	if strings.Contains(err.Error(), "connection refused") {
		return api.ErrConnectionRefused
	}
	return err
}

// Listener wraps net.Listener for the accept loop, generalized from
// transport/tcp.StartTCPListener's fixed WebSocket upgrade handler to a
// plain accept-and-hand-off loop; the caller decides what protocol runs
// over each accepted Socket.
type Listener struct {
	ln net.Listener
}

// Listen binds addr ("" host or "*" meaning all interfaces, per the DNS
// rules in §4.G — a "*" host is rewritten to "", which net.Listen
// accepts for a wildcard bind).
func Listen(network, addr string) (*Listener, error) {
	if host, port, err := net.SplitHostPort(addr); err == nil && host == "*" {
		addr = net.JoinHostPort("", port)
	}
	ln, err := net.Listen(network, addr)
	if err != nil {
		return nil, err
	}
	return &Listener{ln: ln}, nil
}

// Accept blocks for the next inbound connection and wraps it as a
// non-blocking Socket.
func (l *Listener) Accept() (*Socket, error) {
	conn, err := l.ln.Accept()
	if err != nil {
		return nil, err
	}
	return NewSocket(conn), nil
}

// Close stops accepting new connections.
func (l *Listener) Close() error { return l.ln.Close() }

// Addr returns the listener's bound address.
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }
