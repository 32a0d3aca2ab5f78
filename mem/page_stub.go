//go:build !unix && !windows

// File: mem/page_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fallback page heap backing store for platforms without a native
// anonymous-mapping syscall exposed through golang.org/x/sys.

package mem

const systemPageSize = 4096

func roundUpPageSize(size int) int {
	if size <= 0 {
		return systemPageSize
	}
	return ((size + systemPageSize - 1) / systemPageSize) * systemPageSize
}

func mmapRegion(size int) []byte {
	return make([]byte, size)
}
