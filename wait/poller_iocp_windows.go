//go:build windows

// File: wait/poller_iocp_windows.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// IOCP-backed rawPoller, adapted from the reactor package's iocpReactor.
// IOCP is completion-based rather than readiness-based; registered fds
// are tracked by completion key and reported Readable|Writable whenever a
// completion surfaces for them (the caller's own read/write already
// queued the overlapped operation that produced it).

package wait

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sys/windows"
)

type iocpPoller struct {
	mu         sync.Mutex
	iocp       windows.Handle
	keyToFD    map[uint32]int
	fdToKey    map[int]uint32
	keyCounter atomic.Uint32
}

func newPlatformPoller() (rawPoller, error) {
	iocp, err := windows.CreateIoCompletionPort(windows.InvalidHandle, 0, 0, 0)
	if err != nil {
		return nil, err
	}
	return &iocpPoller{
		iocp:    iocp,
		keyToFD: make(map[uint32]int),
		fdToKey: make(map[int]uint32),
	}, nil
}

func (p *iocpPoller) Add(fd int, mask Mask) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := p.keyCounter.Add(1)
	if _, err := windows.CreateIoCompletionPort(windows.Handle(fd), p.iocp, uintptr(key), 0); err != nil {
		return err
	}
	p.keyToFD[key] = fd
	p.fdToKey[fd] = key
	return nil
}

func (p *iocpPoller) Mod(fd int, mask Mask) error {
	// Completion-key association cannot be changed once bound; the
	// desired/disable mask bookkeeping lives entirely in Handler.
	return nil
}

func (p *iocpPoller) Del(fd int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if key, ok := p.fdToKey[fd]; ok {
		delete(p.fdToKey, fd)
		delete(p.keyToFD, key)
	}
	return nil
}

func (p *iocpPoller) Poll(timeoutMs int) ([]readyFD, error) {
	var bytes uint32
	var key uintptr
	var overlapped *windows.Overlapped
	timeout := uint32(windows.INFINITE)
	if timeoutMs >= 0 {
		timeout = uint32(timeoutMs)
	}
	err := windows.GetQueuedCompletionStatus(p.iocp, &bytes, &key, &overlapped, timeout)
	if err != nil {
		if err == windows.WAIT_TIMEOUT {
			return nil, nil
		}
		return nil, err
	}
	p.mu.Lock()
	fd, ok := p.keyToFD[uint32(key)]
	p.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return []readyFD{{fd: fd, mask: Readable | Writable}}, nil
}

func (p *iocpPoller) Close() error {
	return windows.CloseHandle(p.iocp)
}
