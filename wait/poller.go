// File: wait/poller.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// rawPoller is the narrow contract each of the four backends implements:
// raw fd registration and a single blocking poll call. Everything else
// (recall, disableMask, inUse, maskGeneration) is backend-agnostic and
// lives in Service, matching the spec's "all share the abstract contract"
// wording in §4.E.

package wait

type readyFD struct {
	fd   int
	mask Mask
}

type rawPoller interface {
	Add(fd int, mask Mask) error
	Mod(fd int, mask Mask) error
	Del(fd int) error
	Poll(timeoutMs int) ([]readyFD, error)
	Close() error
}
