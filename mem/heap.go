// File: mem/heap.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Heap is a block carrying a distinguished allocation strategy. Four kinds
// are supported: page (mmap-rounded), arena (bump, frees are no-ops until
// heap death), slab (fixed-size free list), malloc (delegates per-call).

package mem

import (
	"sync"

	"github.com/momentics/mpr/api"
)

// Kind selects a heap's allocation strategy.
type Kind int

const (
	// KindMalloc delegates each allocation independently; frees are real.
	KindMalloc Kind = iota
	// KindPage rounds every allocation up to the page size.
	KindPage
	// KindArena bump-allocates from expanding regions; free is a no-op
	// until the whole heap dies.
	KindArena
	// KindSlab reuses fixed-size blocks from a per-heap free list.
	KindSlab
)

func (k Kind) String() string {
	switch k {
	case KindPage:
		return "page"
	case KindArena:
		return "arena"
	case KindSlab:
		return "slab"
	default:
		return "malloc"
	}
}

// Heap owns a chain of regions (for arena/slab) and a quota shared with
// its manager. It is itself rooted at a Block so it participates in the
// ownership tree like any other allocation.
type Heap struct {
	mu sync.Mutex

	kind  Kind
	Block *Block
	quota *Quota

	// Arena/slab region chain.
	regions  []*region
	depleted []*region

	// Slab: fixed block size and LIFO free list.
	slabSize int
	freeList [][]byte

	threadSafe bool
}

// newHeap constructs a heap of the given kind rooted under parent (nil for
// the manager's root heap). slabSize is only meaningful for KindSlab.
func newHeap(kind Kind, parent *Block, quota *Quota, slabSize int) *Heap {
	root := &Block{}
	attach(parent, root)
	h := &Heap{
		kind:       kind,
		Block:      root,
		quota:      quota,
		slabSize:   slabSize,
		threadSafe: kind == KindPage,
	}
	root.heap = h
	return h
}

// alloc carves out size bytes according to the heap's strategy, returning
// a raw (unzeroed in the arena/slab fast path, zeroed on first map) slice.
func (h *Heap) alloc(size int) ([]byte, error) {
	if size < 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "negative allocation size")
	}
	if !h.quota.Reserve(int64(size)) {
		return nil, api.ErrQuotaExceeded
	}
	switch h.kind {
	case KindPage:
		return h.allocPage(size), nil
	case KindArena:
		return h.allocArena(size), nil
	case KindSlab:
		return h.allocSlab(size), nil
	default:
		return make([]byte, size), nil
	}
}

// release returns size bytes to the quota and, for slab heaps, the backing
// storage to the free list (arena heaps never release until heap death;
// malloc/page heaps simply drop the reference to the GC).
func (h *Heap) release(data []byte) {
	h.quota.Release(int64(len(data)))
	if h.kind == KindSlab {
		h.mu.Lock()
		h.freeList = append(h.freeList, data)
		h.mu.Unlock()
	}
}

func (h *Heap) allocPage(size int) []byte {
	rounded := roundUpPageSize(size)
	return mmapRegion(rounded)[:size]
}

func (h *Heap) allocArena(size int) []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, r := range h.depleted {
		if r.remaining() >= size {
			b := r.bump(size)
			if r.remaining() == 0 {
				h.depleted = append(h.depleted[:i], h.depleted[i+1:]...)
			}
			return b
		}
	}
	if n := len(h.regions); n > 0 {
		last := h.regions[n-1]
		if last.remaining() >= size {
			return last.bump(size)
		}
		if last.remaining() > 0 {
			h.depleted = append(h.depleted, last)
		}
	}
	last := 0
	if n := len(h.regions); n > 0 {
		last = len(h.regions[n-1].data)
	} else {
		last = initialRegionSize / 2
	}
	newSize := nextRegionSize(last, size)
	r := newRegion(newSize)
	h.regions = append(h.regions, r)
	return r.bump(size)
}

func (h *Heap) allocSlab(size int) []byte {
	h.mu.Lock()
	if n := len(h.freeList); n > 0 {
		buf := h.freeList[n-1]
		h.freeList = h.freeList[:n-1]
		h.mu.Unlock()
		if cap(buf) >= size {
			return buf[:size]
		}
		return make([]byte, size)
	}
	h.mu.Unlock()
	return h.allocArena(size)
}
