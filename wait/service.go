// File: wait/service.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Service implements the backend-agnostic poll loop from §4.E: rebuild
// the kernel pollset when maskGeneration changed, synthesize recall
// events, poll, translate readiness, then dispatch each ready handler
// exactly once, guarded by disableMask (one-shot suppression) and inUse
// (never fire while a previous callback is still in flight).

package wait

import (
	"sync"
	"time"

	"github.com/momentics/mpr/api"
)

// Service is the wait service: one per dispatcher/process, backed by
// whichever rawPoller the build tags selected.
type Service struct {
	mu       sync.Mutex
	handlers map[int]*Handler
	poller   rawPoller

	generation    uint64
	builtFor      map[int]uint64 // fd -> generation last synced to the kernel
	needRebuild   bool
	executor      api.Executor
}

// NewService constructs a wait service using the platform backend chosen
// at build time (epoll/poll/IOCP/fallback). executor may be nil, in
// which case every callback runs inline on the poll goroutine.
func NewService(executor api.Executor) (*Service, error) {
	p, err := newPlatformPoller()
	if err != nil {
		return nil, err
	}
	return &Service{
		handlers: make(map[int]*Handler),
		poller:   p,
		builtFor: make(map[int]uint64),
		executor: executor,
	}, nil
}

// CreateHandler registers fd for desired events and returns its Handler.
func (s *Service) CreateHandler(fd int, desired Mask, cb Callback, data any, priority int) (*Handler, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.handlers[fd]; exists {
		return nil, api.NewError(api.ErrCodeAlreadyExists, "fd already registered")
	}
	h := newHandler(fd, desired, cb, data, priority)
	s.generation++
	h.generation.Store(s.generation)
	s.handlers[fd] = h
	s.needRebuild = true
	return h, nil
}

// SetMask changes what a handler watches for and whether it is
// currently eligible to fire; both bump maskGeneration so the next Poll
// call rebuilds the kernel pollset for this fd.
func (s *Service) SetMask(h *Handler, desired, disable Mask) {
	h.desiredMask.Store(int32(desired))
	h.disableMask.Store(int32(disable))
	s.mu.Lock()
	s.generation++
	h.generation.Store(s.generation)
	s.needRebuild = true
	s.mu.Unlock()
}

// Recall forces a synthetic readable report for h on the next poll
// cycle, used when buffered application data exists above the kernel.
func (s *Service) Recall(h *Handler) {
	h.recall.Store(true)
}

// Disconnect prevents further callbacks on h and, on multi-threaded
// builds, blocks until any in-flight callback drains, bounded by
// maxWaitMs (the spec's MPR_TIMEOUT_HANDLER).
func (s *Service) Disconnect(h *Handler, maxWaitMs int64) {
	h.closed.Store(true)
	s.mu.Lock()
	delete(s.handlers, h.FD)
	delete(s.builtFor, h.FD)
	s.mu.Unlock()
	s.poller.Del(h.FD)

	deadline := time.Now().Add(time.Duration(maxWaitMs) * time.Millisecond)
	for h.inUse.Load() > 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
}

// rebuild syncs every handler whose generation differs from what the
// kernel pollset last saw.
func (s *Service) rebuild() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.needRebuild {
		return
	}
	for fd, h := range s.handlers {
		gen := h.generation.Load()
		if s.builtFor[fd] == gen {
			continue
		}
		mask := Mask(h.desiredMask.Load())
		if _, existed := s.builtFor[fd]; existed {
			s.poller.Mod(fd, mask)
		} else {
			s.poller.Add(fd, mask)
		}
		s.builtFor[fd] = gen
	}
	s.needRebuild = false
}

// Poll runs one service cycle: rebuild if needed, synthesize recall
// events, block in the OS poll primitive, translate results, and
// dispatch each ready and eligible handler exactly once.
func (s *Service) Poll(timeoutMs int) error {
	s.rebuild()

	s.mu.Lock()
	var recalled []*Handler
	for _, h := range s.handlers {
		if h.recall.Load() {
			recalled = append(recalled, h)
		}
	}
	s.mu.Unlock()
	for _, h := range recalled {
		h.recall.Store(false)
		s.fire(h, Readable)
	}

	ready, err := s.poller.Poll(timeoutMs)
	if err != nil {
		return err
	}
	for _, r := range ready {
		s.mu.Lock()
		h := s.handlers[r.fd]
		s.mu.Unlock()
		if h == nil {
			continue
		}
		h.presentMask.Store(int32(r.mask))
		s.fire(h, r.mask)
	}
	return nil
}

// fire dispatches one ready handler, respecting the one-shot disableMask
// gate and the inUse re-entrancy guard.
func (s *Service) fire(h *Handler, present Mask) {
	if !h.Eligible() {
		return
	}
	h.disableMask.Store(0) // one-shot suppression until the caller re-arms
	h.inUse.Add(1)
	run := func() {
		defer h.inUse.Add(-1)
		defer func() { _ = recover() }()
		h.cb(h, present)
	}
	if s.executor != nil {
		if err := s.executor.Submit(run); err == nil {
			return
		}
	}
	run()
}

// Close releases the underlying OS poll primitive.
func (s *Service) Close() error {
	return s.poller.Close()
}
