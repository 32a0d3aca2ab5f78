//go:build windows

// Package pool
// Author: momentics <momentics@gmail.com>
//
// Windows-specific NUMA-aware, zero-copy buffer pool implementation.

package pool

import (
	"sync"

	"github.com/momentics/mpr/api"
)

type windowsBufferPool struct {
	pool   sync.Pool
	numaId int
	stats  api.BufferPoolStats
}

func (bp *windowsBufferPool) getBuffer(size int) api.Buffer {
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

func (bp *windowsBufferPool) Get(size int, numaPreferred int) api.Buffer {
	return bp.getBuffer(size)
}

func (bp *windowsBufferPool) Put(b api.Buffer) {
	bp.pool.Put(b)
}

func (bp *windowsBufferPool) Stats() api.BufferPoolStats {
	return bp.stats
}

// newBufferPool (Windows) creates a buffer pool with potential NUMA affinity.
func newBufferPool(numaNode int) api.BufferPool {
	return &windowsBufferPool{
		numaId: numaNode,
	}
}
