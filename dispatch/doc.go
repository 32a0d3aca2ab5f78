// Package dispatch implements Component D: a timer queue plus a FIFO
// ready queue, serviced by one loop that moves due timers into the ready
// queue and drains it inline or onto a worker pool.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package dispatch
