//go:build linux

// Package pool
// Author: momentics <momentics@gmail.com>
//
// Linux-specific NUMA-aware, zero-copy buffer pool implementation.

package pool

import (
	"sync"

	"github.com/momentics/mpr/api"
)

// linuxBufferPool implements a sync.Pool-backed NUMA-aware buffer pool for Linux.
type linuxBufferPool struct {
	pool   sync.Pool
	numaId int
	stats  api.BufferPoolStats
}

func (bp *linuxBufferPool) getBuffer(size int) api.Buffer {
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

func (bp *linuxBufferPool) Get(size int, numaPreferred int) api.Buffer {
	return bp.getBuffer(size)
}

func (bp *linuxBufferPool) Put(b api.Buffer) {
	bp.pool.Put(b)
}

func (bp *linuxBufferPool) Stats() api.BufferPoolStats {
	return bp.stats
}

// newBufferPool (Linux) creates a buffer pool for the specified NUMA node.
// TODO: hugepage/mmap-backed regions for ultra-low-latency buffer blocks.
func newBufferPool(numaNode int) api.BufferPool {
	return &linuxBufferPool{
		numaId: numaNode,
	}
}
