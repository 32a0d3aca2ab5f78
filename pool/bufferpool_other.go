//go:build !linux && !windows
// +build !linux,!windows

// Package pool
// Author: momentics <momentics@gmail.com>
//
// Portable sync.Pool-backed buffer pool for platforms without a
// dedicated NUMA-aware allocator (mirrors bufferpool_linux.go's shape,
// dropping the NUMA hinting that has no portable equivalent here).

package pool

import (
	"sync"

	"github.com/momentics/mpr/api"
)

type genericBufferPool struct {
	pool   sync.Pool
	numaId int
	stats  api.BufferPoolStats
}

func (bp *genericBufferPool) getBuffer(size int) api.Buffer {
	if v := bp.pool.Get(); v != nil {
		buf := v.(api.Buffer)
		if cap(buf.Data) < size {
			buf.Data = make([]byte, size)
		} else {
			buf.Data = buf.Data[:size]
		}
		return buf
	}
	return api.Buffer{
		Data: make([]byte, size),
		NUMA: bp.numaId,
		Pool: bp,
	}
}

func (bp *genericBufferPool) Get(size int, numaPreferred int) api.Buffer {
	return bp.getBuffer(size)
}

func (bp *genericBufferPool) Put(b api.Buffer) {
	bp.pool.Put(b)
}

func (bp *genericBufferPool) Stats() api.BufferPoolStats {
	return bp.stats
}

// newBufferPool (generic) creates a buffer pool for the specified NUMA node.
func newBufferPool(numaNode int) api.BufferPool {
	return &genericBufferPool{
		numaId: numaNode,
	}
}
