//go:build unix && !linux

// File: wait/poller_poll_unix.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// poll(2)-backed rawPoller for unix targets without epoll (BSD, Darwin).
// Rebuilds its pollfd slice from the registered set on every call, which
// is exactly the "poll-based" backend the spec names as one of the four.

package wait

import (
	"sync"

	"golang.org/x/sys/unix"
)

type pollPoller struct {
	mu   sync.Mutex
	fds  map[int]Mask
}

func newPlatformPoller() (rawPoller, error) {
	return &pollPoller{fds: make(map[int]Mask)}, nil
}

func (p *pollPoller) Add(fd int, mask Mask) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fds[fd] = mask
	return nil
}

func (p *pollPoller) Mod(fd int, mask Mask) error {
	return p.Add(fd, mask)
}

func (p *pollPoller) Del(fd int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.fds, fd)
	return nil
}

func (p *pollPoller) Poll(timeoutMs int) ([]readyFD, error) {
	p.mu.Lock()
	pfds := make([]unix.PollFd, 0, len(p.fds))
	for fd, mask := range p.fds {
		var events int16
		if mask&Readable != 0 {
			events |= unix.POLLIN
		}
		if mask&Writable != 0 {
			events |= unix.POLLOUT
		}
		pfds = append(pfds, unix.PollFd{Fd: int32(fd), Events: events})
	}
	p.mu.Unlock()

	if len(pfds) == 0 {
		return nil, nil
	}
	n, err := unix.Poll(pfds, timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]readyFD, 0, n)
	for _, pfd := range pfds {
		if pfd.Revents == 0 {
			continue
		}
		var m Mask
		if pfd.Revents&(unix.POLLIN|unix.POLLERR|unix.POLLHUP) != 0 {
			m |= Readable
		}
		if pfd.Revents&unix.POLLOUT != 0 {
			m |= Writable
		}
		out = append(out, readyFD{fd: int(pfd.Fd), mask: m})
	}
	return out, nil
}

func (p *pollPoller) Close() error { return nil }
