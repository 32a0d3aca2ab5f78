//go:build linux

// File: wait/poller_epoll_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// epoll-backed rawPoller. Adapted from the reactor package's epollReactor
// (fd->event registration over syscall.EpollCreate1/Ctl/Wait), generalized
// from a single fixed event mask to Mod-capable Readable/Writable masks.

package wait

import "syscall"

type epollPoller struct {
	epfd int
}

func newPlatformPoller() (rawPoller, error) {
	fd, err := syscall.EpollCreate1(0)
	if err != nil {
		return nil, err
	}
	return &epollPoller{epfd: fd}, nil
}

func toEpollEvents(mask Mask) uint32 {
	var ev uint32
	if mask&Readable != 0 {
		ev |= syscall.EPOLLIN
	}
	if mask&Writable != 0 {
		ev |= syscall.EPOLLOUT
	}
	return ev
}

func (p *epollPoller) Add(fd int, mask Mask) error {
	ev := syscall.EpollEvent{Events: toEpollEvents(mask), Fd: int32(fd)}
	return syscall.EpollCtl(p.epfd, syscall.EPOLL_CTL_ADD, fd, &ev)
}

func (p *epollPoller) Mod(fd int, mask Mask) error {
	ev := syscall.EpollEvent{Events: toEpollEvents(mask), Fd: int32(fd)}
	return syscall.EpollCtl(p.epfd, syscall.EPOLL_CTL_MOD, fd, &ev)
}

func (p *epollPoller) Del(fd int) error {
	return syscall.EpollCtl(p.epfd, syscall.EPOLL_CTL_DEL, fd, nil)
}

func (p *epollPoller) Poll(timeoutMs int) ([]readyFD, error) {
	var events [128]syscall.EpollEvent
	n, err := syscall.EpollWait(p.epfd, events[:], timeoutMs)
	if err != nil {
		if err == syscall.EINTR {
			return nil, nil
		}
		return nil, err
	}
	out := make([]readyFD, 0, n)
	for i := 0; i < n; i++ {
		var m Mask
		if events[i].Events&(syscall.EPOLLIN|syscall.EPOLLERR|syscall.EPOLLHUP) != 0 {
			m |= Readable
		}
		if events[i].Events&syscall.EPOLLOUT != 0 {
			m |= Writable
		}
		out = append(out, readyFD{fd: int(events[i].Fd), mask: m})
	}
	return out, nil
}

func (p *epollPoller) Close() error {
	return syscall.Close(p.epfd)
}
