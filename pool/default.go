package pool

import (
	"sync"

	"github.com/momentics/mpr/api"
	"github.com/momentics/mpr/internal/concurrency"
)

var (
	defaultOnce sync.Once
	defaultMgr  *BufferPoolManager
)

// DefaultManager returns a process-wide BufferPoolManager so all components
// reuse the same NUMA-aware pools instead of fragmenting allocations.
func DefaultManager() *BufferPoolManager {
	defaultOnce.Do(func() {
		defaultMgr = NewBufferPoolManager()
		// Pre-warm a pool per configured NUMA node so the first allocation
		// on any node does not pay the lazy-create cost under load.
		for n := 0; n < concurrency.NUMANodes(); n++ {
			defaultMgr.GetPool(n)
		}
	})
	return defaultMgr
}

// DefaultPool is a shortcut to fetch a pool from the default manager.
func DefaultPool(size, numaPreferred int) api.Buffer {
	return DefaultManager().GetPool(numaPreferred).Get(size, numaPreferred)
}
