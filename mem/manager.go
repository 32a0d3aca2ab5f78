// File: mem/manager.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Manager is the entry point for the hierarchical memory manager: a single
// global quota shared by a tree of heaps, with alloc/free/steal/realloc
// operating on parent-owned Block headers.

package mem

import "github.com/momentics/mpr/api"

// Manager ties a quota to a root malloc heap and dispatches allocation
// requests to whichever heap a parent block belongs to.
type Manager struct {
	quota *Quota
	root  *Heap
}

// NewManager creates a manager with a root malloc heap. maxMemory of 0
// disables the hard cap; redLine of 0 disables the soft warning.
func NewManager(maxMemory, redLine int64) *Manager {
	q := NewQuota(maxMemory, redLine)
	return &Manager{
		quota: q,
		root:  newHeap(KindMalloc, nil, q, 0),
	}
}

// OnRedLine registers the callback fired once per excursion above redLine.
func (m *Manager) OnRedLine(fn func(allocated, max, redLine int64)) {
	m.quota.Notifier = fn
}

// Root returns the manager's root block, the ultimate ancestor of every
// allocation and the reparenting target for vetoed frees.
func (m *Manager) Root() *Block { return m.root.Block }

// NewHeap creates a new heap of the given kind rooted under parent (or the
// manager root if parent is nil), returning its root block. slabSize is
// only consulted for KindSlab.
func (m *Manager) NewHeap(parent *Block, kind Kind, slabSize int) *Block {
	if parent == nil {
		parent = m.root.Block
	}
	h := newHeap(kind, parent, m.quota, slabSize)
	return h.Block
}

// heapOf walks up from b to find the owning heap (every block belongs to
// the nearest ancestor heap root, including itself if b is a heap root).
func heapOf(b *Block) *Heap {
	for cur := b; cur != nil; cur = cur.parent {
		if cur.heap != nil {
			return cur.heap
		}
	}
	return nil
}

// Alloc returns a zeroable region owned by parent. Fails with ErrOutOfMemory
// or ErrQuotaExceeded; on failure the sticky error flag is set on parent
// and all its ancestors.
func (m *Manager) Alloc(parent *Block, size int) (*Block, error) {
	return m.AllocWithDestructor(parent, size, nil)
}

// AllocWithDestructor is Alloc plus a destructor run before children are
// freed. A destructor returning non-nil vetoes the free and reparents the
// block to the manager root.
func (m *Manager) AllocWithDestructor(parent *Block, size int, d Destructor) (*Block, error) {
	if parent == nil {
		parent = m.root.Block
	}
	h := heapOf(parent)
	if h == nil {
		h = m.root
	}
	data, err := h.alloc(size)
	if err != nil {
		markError(parent)
		return nil, err
	}
	b := &Block{Data: data, destructor: d}
	b.heap = nil // inherits heap via ancestor walk, not a heap root itself
	attach(parent, b)
	// Record the source heap directly so free/steal can always find it
	// even if this block's ancestor chain is later reparented.
	b.srcHeap = h
	return b, nil
}

// Free recursively frees b and all descendants in LIFO order, running
// destructors first. Idempotent on nil or an already-freed block.
func (m *Manager) Free(b *Block) {
	if b == nil {
		return
	}
	b.mu.Lock()
	if b.freed {
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()

	if b.destructor != nil {
		if err := b.destructor(b); err != nil {
			detach(b)
			attach(m.root.Block, b)
			return
		}
	}

	for _, c := range children(b) {
		m.Free(c)
	}

	b.mu.Lock()
	b.freed = true
	b.mu.Unlock()
	detach(b)
	if b.srcHeap != nil {
		b.srcHeap.release(b.Data)
	}
}

// Steal detaches b and reattaches it under newParent, adjusting quota
// accounting when the move crosses heaps (the byte count itself does not
// change, only which heap's free-list eventually reclaims it).
func (m *Manager) Steal(newParent, b *Block) error {
	if newParent == nil || b == nil {
		return api.NewError(api.ErrCodeInvalidArgument, "steal requires non-nil parent and block")
	}
	detach(b)
	attach(newParent, b)
	if h := heapOf(newParent); h != nil && b.srcHeap != nil {
		b.srcHeap = h
	}
	return nil
}

// Realloc returns a new block of newSize with the old contents copied in
// (truncated or zero-extended), transplants b's children onto the new
// header, and frees the old block.
func (m *Manager) Realloc(parent *Block, b *Block, newSize int) (*Block, error) {
	if b == nil {
		return m.Alloc(parent, newSize)
	}
	nb, err := m.AllocWithDestructor(parent, newSize, b.destructor)
	if err != nil {
		return nil, err
	}
	n := copy(nb.Data, b.Data)
	_ = n
	for _, c := range children(b) {
		detach(c)
		attach(nb, c)
	}
	b.destructor = nil // already transplanted; do not re-run on free
	m.Free(b)
	return nb, nil
}
