//go:build !linux || !cgo
// +build !linux !cgo

// File: internal/concurrency/affinity_generic.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Exported NUMA topology accessors for every build that isn't linux+cgo
// (affinity.go's libnuma/hwloc path). Delegates to the platform*() probes
// selected per-OS/per-cgo by affinity_linux.go, affinity_linux_pure.go,
// affinity_windows.go, and affinity_other.go.

package concurrency

// PreferredCPUID returns a logical CPU index for the given NUMA node.
func PreferredCPUID(numaNode int) int {
	return platformPreferredCPUID(numaNode)
}

// CurrentNUMANodeID returns the NUMA node of the current thread.
func CurrentNUMANodeID() int {
	return platformCurrentNUMANodeID()
}

// NUMANodes returns the number of configured NUMA nodes on this host, per
// the platform-specific probe selected at build time.
func NUMANodes() int {
	return platformNUMANodes()
}
