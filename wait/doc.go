// Package wait implements Component E: backend-agnostic fd-event
// registration with recall and one-shot disable semantics, over one of
// four pluggable polling backends selected at build time (epoll on
// Linux, IOCP on Windows, poll(2) on other unix targets, and an
// asyncio-free fallback elsewhere).
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package wait
