//go:build windows
// +build windows

// Package concurrency
// Author: momentics <momentics@gmail.com>
//
// Windows-specific implementation of thread and CPU/NUMA affinity control.
// Used for pinning runtime goroutines to specific OS threads on designated CPU cores.
//
// This module uses SetThreadAffinityMask from the Windows API to bind the current thread
// to a logical processor. Basic NUMA policies can also be introduced at a later stage.
//
// Reference: https://learn.microsoft.com/en-us/windows/win32/api/winbase/nf-winbase-setthreadaffinitymask

package concurrency

import (
	"fmt"
	"log"
	"runtime"
	"syscall"
)

var procSetThreadAffinityMask = syscall.NewLazyDLL("kernel32.dll").NewProc("SetThreadAffinityMask")

const allCPUsMask uintptr = ^uintptr(0)

// PinCurrentThread attempts to bind the current thread to a logical CPU core.
//
// cpuID:    target logical processor index (0-based)
// numaNode: reserved for future use (NUMA node support not implemented)
//
// Note: The function locks the calling goroutine to its OS thread itself
// (runtime.LockOSThread) before setting the mask.
func PinCurrentThread(numaNode int, cpuID int) error {
	runtime.LockOSThread() // Ensure system thread match

	currentThread := syscall.Handle(^uintptr(1)) // Pseudo-handle for GetCurrentThread()

	if cpuID < 0 || cpuID >= 64 {
		return fmt.Errorf("invalid CPU index: %d (valid: 0..63)", cpuID)
	}
	var mask uintptr = 1 << uint(cpuID)

	oldMask, _, callErr := procSetThreadAffinityMask.Call(uintptr(currentThread), mask)
	if oldMask == 0 {
		return fmt.Errorf("SetThreadAffinityMask failed: %v", callErr)
	}

	log.Printf("[pin_windows] Thread pinned to CPU #%d (mask=0x%X)", cpuID, mask)
	return nil
}

// UnpinCurrentThread resets the current thread's affinity mask to all
// logical processors and releases the OS-thread lock.
func UnpinCurrentThread() error {
	currentThread := syscall.Handle(^uintptr(1))
	oldMask, _, callErr := procSetThreadAffinityMask.Call(uintptr(currentThread), allCPUsMask)
	runtime.UnlockOSThread()
	if oldMask == 0 {
		return fmt.Errorf("SetThreadAffinityMask failed: %v", callErr)
	}
	return nil
}

