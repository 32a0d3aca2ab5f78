//go:build unix

// File: mem/page_unix.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Page heap backing store on unix: anonymous mmap rounded to the OS page
// size, matching the C runtime's mmap/VirtualAlloc split.

package mem

import (
	"os"

	"golang.org/x/sys/unix"
)

var systemPageSize = os.Getpagesize()

func roundUpPageSize(size int) int {
	if size <= 0 {
		return systemPageSize
	}
	n := ((size + systemPageSize - 1) / systemPageSize) * systemPageSize
	return n
}

func mmapRegion(size int) []byte {
	b, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return make([]byte, size)
	}
	return b
}
