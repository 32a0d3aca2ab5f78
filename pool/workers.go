// File: pool/workers.go
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
// Description:
//   Bounded worker pool with the explicit idle/busy/sleeping/pruned state
//   machine from §4.F. Generalizes internal/concurrency/executor.go's
//   goroutine-per-worker shape (stopCh/stoppedCh drain handshake) into a
//   pool that grows on demand up to maxThreads, parks idle workers on a
//   condition variable instead of busy-looping, and prunes half the idle
//   surplus every period.

package pool

import (
	"sync"
	"time"

	"github.com/momentics/mpr/api"
	"github.com/momentics/mpr/mprtime"
)

type workerState int

const (
	stateIdle workerState = iota
	stateBusy
	stateSleeping
	statePruned
)

// StartResult is the outcome of WorkerPool.Start.
type StartResult int

const (
	StartOK StartResult = iota
	StartBusy
)

type poolWorker struct {
	id        int
	state     workerState
	dedicated bool
	idleCond  *mprtime.CondVar

	proc     func()
	priority int

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

// WorkerPool is the bounded pool from §4.F: start_worker prefers an idle
// non-dedicated worker, else grows up to maxThreads, else reports busy so
// the caller can run inline. dedicate_worker/release_worker bind and
// unbind a worker for repeated use by a single long-lived caller (e.g. a
// wait-service handler that always wants the same worker thread).
type WorkerPool struct {
	mu          sync.Mutex
	workers     []*poolWorker
	maxThreads  int
	nextID      int
	pruneHWM    int
	prunePeriod time.Duration
	affinity    api.Affinity
	stopPruner  chan struct{}
}

// NewWorkerPool constructs a pool that never exceeds maxThreads live
// workers. affinity may be nil, in which case workers are not pinned.
func NewWorkerPool(maxThreads int, prunePeriod time.Duration, affinity api.Affinity) *WorkerPool {
	if maxThreads <= 0 {
		maxThreads = 1
	}
	p := &WorkerPool{
		maxThreads:  maxThreads,
		prunePeriod: prunePeriod,
		affinity:    affinity,
		stopPruner:  make(chan struct{}),
	}
	go p.pruneLoop()
	return p
}

// Start runs proc on an idle non-dedicated worker if one exists; else
// grows the pool if under maxThreads; else returns StartBusy so the
// caller can execute proc inline rather than block.
func (p *WorkerPool) Start(proc func(), priority int) StartResult {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, w := range p.workers {
		if w.state == stateIdle && !w.dedicated {
			p.activate(w, proc, priority)
			return StartOK
		}
	}
	for _, w := range p.workers {
		if w.state == stateSleeping && !w.dedicated {
			p.activate(w, proc, priority)
			return StartOK
		}
	}
	if len(p.workers) < p.maxThreads {
		w := p.spawn()
		p.activate(w, proc, priority)
		return StartOK
	}
	return StartBusy
}

// Dedicate claims an idle worker for a single caller's repeated use,
// growing the pool if needed and permitted. Returns nil if the pool is
// already at maxThreads with no idle worker available.
func (p *WorkerPool) Dedicate() *poolWorker {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, w := range p.workers {
		if w.state == stateIdle && !w.dedicated {
			w.dedicated = true
			return w
		}
	}
	if len(p.workers) < p.maxThreads {
		w := p.spawn()
		w.dedicated = true
		return w
	}
	return nil
}

// Release returns a dedicated worker to the general idle pool.
func (p *WorkerPool) Release(w *poolWorker) {
	p.mu.Lock()
	defer p.mu.Unlock()
	w.dedicated = false
}

func (p *WorkerPool) spawn() *poolWorker {
	w := &poolWorker{
		id:        p.nextID,
		state:     stateIdle,
		idleCond:  mprtime.NewCondVar(),
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
	p.nextID++
	p.workers = append(p.workers, w)
	go p.run(w)
	return w
}

func (p *WorkerPool) activate(w *poolWorker, proc func(), priority int) {
	w.proc = proc
	w.priority = priority
	w.state = stateBusy
	w.idleCond.Signal()
}

func (p *WorkerPool) run(w *poolWorker) {
	defer close(w.stoppedCh)
	if p.affinity != nil {
		_ = p.affinity.Pin(-1, -1)
		defer p.affinity.Unpin()
	}
	for {
		p.mu.Lock()
		for w.state != stateBusy {
			if w.state == statePruned {
				p.mu.Unlock()
				return
			}
			p.mu.Unlock()
			select {
			case <-w.stopCh:
				return
			default:
			}
			w.idleCond.Wait(50)
			p.mu.Lock()
		}
		proc := w.proc
		w.proc = nil
		p.mu.Unlock()

		p.safeRun(proc)

		p.mu.Lock()
		if w.state != statePruned {
			w.state = stateIdle
		}
		p.mu.Unlock()
	}
}

func (p *WorkerPool) safeRun(proc func()) {
	if proc == nil {
		return
	}
	defer func() { _ = recover() }()
	proc()
}

// pruneLoop trims half of the currently-idle, non-dedicated surplus
// every prunePeriod, the exponential-decay behavior named in §4.F,
// tracked against pruneHighWater.
func (p *WorkerPool) pruneLoop() {
	if p.prunePeriod <= 0 {
		return
	}
	t := time.NewTicker(p.prunePeriod)
	defer t.Stop()
	for {
		select {
		case <-p.stopPruner:
			return
		case <-t.C:
			p.pruneHalf()
		}
	}
}

func (p *WorkerPool) pruneHalf() {
	p.mu.Lock()
	var idle []*poolWorker
	for _, w := range p.workers {
		if w.state == stateIdle && !w.dedicated {
			idle = append(idle, w)
		}
	}
	if len(idle) > p.pruneHWM {
		p.pruneHWM = len(idle)
	}
	toPrune := len(idle) / 2
	kept := p.workers[:0]
	pruned := make([]*poolWorker, 0, toPrune)
	pruneSet := make(map[int]bool, toPrune)
	for i := 0; i < toPrune; i++ {
		idle[i].state = stateSleeping
	}
	p.mu.Unlock()

	// Move sleeping->pruned after one grace tick so a worker that was
	// just reactivated between the lock release above and here is not
	// killed mid-assignment.
	time.Sleep(time.Millisecond)

	p.mu.Lock()
	for i := 0; i < toPrune; i++ {
		w := idle[i]
		if w.state == stateSleeping {
			w.state = statePruned
			close(w.stopCh)
			pruneSet[w.id] = true
			pruned = append(pruned, w)
		}
	}
	for _, w := range p.workers {
		if !pruneSet[w.id] {
			kept = append(kept, w)
		}
	}
	p.workers = kept
	p.mu.Unlock()
}

// Close stops the prune loop and every live worker.
func (p *WorkerPool) Close() {
	close(p.stopPruner)
	p.mu.Lock()
	workers := append([]*poolWorker(nil), p.workers...)
	p.workers = nil
	p.mu.Unlock()
	for _, w := range workers {
		select {
		case <-w.stopCh:
		default:
			close(w.stopCh)
		}
		w.idleCond.Signal()
	}
	for _, w := range workers {
		<-w.stoppedCh
	}
}

// Len returns the current number of live workers.
func (p *WorkerPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.workers)
}
