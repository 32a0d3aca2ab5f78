//go:build windows

// File: mem/page_windows.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Page heap backing store on Windows via VirtualAlloc, rounded to the
// system page size reported by GetSystemInfo.

package mem

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var systemPageSize = func() int {
	var si windows.SystemInfo
	windows.GetSystemInfo(&si)
	if si.PageSize == 0 {
		return 4096
	}
	return int(si.PageSize)
}()

func roundUpPageSize(size int) int {
	if size <= 0 {
		return systemPageSize
	}
	n := ((size + systemPageSize - 1) / systemPageSize) * systemPageSize
	return n
}

func mmapRegion(size int) []byte {
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil || addr == 0 {
		return make([]byte, size)
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
}
