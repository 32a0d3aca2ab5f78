//go:build !windows && !linux
// +build !windows,!linux

// hioload-ws/internal/concurrency/pin.go
// Author: momentics <momentics@gmail.com>
//
// Platform-generic symbol for CPU/NUMA pinning dispatcher.
// Built only on platforms other than Linux and Windows, which have their
// own platform files.

package concurrency

// PinCurrentThread pins the current OS thread to a given NUMA node and CPU core.
// This function is implemented per platform (Linux/Windows). On unsupported systems it is a no-op.
func PinCurrentThread(numaNode int, cpuID int) error { return nil }

// UnpinCurrentThread clears any CPU/NUMA binding set by PinCurrentThread.
// No-op on unsupported platforms.
func UnpinCurrentThread() error { return nil }
