//go:build linux
// +build linux

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux-specific implementation of runtime pinning (NUMA and CPU affinity).

package concurrency

/*
#include <sched.h>
#include <pthread.h>
#include <numa.h>
#include <unistd.h>
*/
import "C"
import (
	"fmt"
	"runtime"
)

// PinCurrentThread pins the thread to specified NUMA node and CPU core.
func PinCurrentThread(numaNode int, cpuID int) error {
	runtime.LockOSThread()
	var mask C.cpu_set_t
	C.CPU_ZERO(&mask)
	C.CPU_SET(C.int(cpuID), &mask)
	if rc := C.pthread_setaffinity_np(C.pthread_self(), C.sizeof_cpu_set_t, &mask); rc != 0 {
		return fmt.Errorf("pthread_setaffinity_np failed: rc=%d", int(rc))
	}
	if numaNode >= 0 {
		C.numa_run_on_node(C.int(numaNode))
	}
	return nil
}

// UnpinCurrentThread clears CPU affinity, allowing the thread to run on
// any core, and releases the OS-thread lock taken by PinCurrentThread.
func UnpinCurrentThread() error {
	var mask C.cpu_set_t
	C.CPU_ZERO(&mask)
	nCPU := int(C.sysconf(C._SC_NPROCESSORS_ONLN))
	for i := 0; i < nCPU; i++ {
		C.CPU_SET(C.int(i), &mask)
	}
	rc := C.pthread_setaffinity_np(C.pthread_self(), C.sizeof_cpu_set_t, &mask)
	runtime.UnlockOSThread()
	if rc != 0 {
		return fmt.Errorf("pthread_setaffinity_np failed: rc=%d", int(rc))
	}
	return nil
}
