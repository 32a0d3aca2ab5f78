//go:build !unix && !windows

// File: wait/poller_fallback.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// asyncio-free fallback backend for platforms with no native readiness
// or completion primitive exposed through golang.org/x/sys. Every
// registered fd is reported ready each cycle; Service's disableMask/
// inUse bookkeeping still prevents a handler from firing more than the
// caller's own read/write loop can keep up with, so this degrades to
// busy-polling rather than losing correctness.

package wait

import "sync"

type fallbackPoller struct {
	mu  sync.Mutex
	fds map[int]Mask
}

func newPlatformPoller() (rawPoller, error) {
	return &fallbackPoller{fds: make(map[int]Mask)}, nil
}

func (p *fallbackPoller) Add(fd int, mask Mask) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fds[fd] = mask
	return nil
}

func (p *fallbackPoller) Mod(fd int, mask Mask) error { return p.Add(fd, mask) }

func (p *fallbackPoller) Del(fd int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.fds, fd)
	return nil
}

func (p *fallbackPoller) Poll(timeoutMs int) ([]readyFD, error) {
	p.mu.Lock()
	out := make([]readyFD, 0, len(p.fds))
	for fd, mask := range p.fds {
		out = append(out, readyFD{fd: fd, mask: mask})
	}
	p.mu.Unlock()
	return out, nil
}

func (p *fallbackPoller) Close() error { return nil }
