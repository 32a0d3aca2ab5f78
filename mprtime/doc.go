// Package mprtime implements Component B: a monotonic clock, elapsed/
// remaining helpers, tolerant date-string parsing, and the lock/condvar
// primitives the dispatcher and wait service build on.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package mprtime
