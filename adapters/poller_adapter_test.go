// File: adapters/poller_adapter_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package adapters_test

import (
	"sync"
	"testing"
	"time"

	"github.com/momentics/mpr/adapters"
	"github.com/momentics/mpr/api"
)

type countingHandler struct {
	mu    sync.Mutex
	count int
}

func (h *countingHandler) Handle(data any) error {
	h.mu.Lock()
	h.count++
	h.mu.Unlock()
	return nil
}

func (h *countingHandler) seen() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

func TestPollerAdapterDeliversPushedEvents(t *testing.T) {
	p := adapters.NewPollerAdapter(8, 64)
	defer p.Stop()

	h := &countingHandler{}
	if err := p.Register(h); err != nil {
		t.Fatalf("Register: %v", err)
	}

	for i := 0; i < 5; i++ {
		if !p.Push(i) {
			t.Fatalf("Push(%d) rejected", i)
		}
	}

	deadline := time.Now().Add(time.Second)
	for h.seen() < 5 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if got := h.seen(); got != 5 {
		t.Fatalf("handler saw %d events, want 5", got)
	}
}

func TestPollerAdapterUnregisterStopsDelivery(t *testing.T) {
	p := adapters.NewPollerAdapter(8, 64)
	defer p.Stop()

	var h api.Handler = &countingHandler{}
	p.Register(h)
	if err := p.Unregister(h); err != nil {
		t.Fatalf("Unregister: %v", err)
	}

	p.Push("ignored")
	time.Sleep(20 * time.Millisecond)
	if got := h.(*countingHandler).seen(); got != 0 {
		t.Fatalf("handler saw %d events after unregister, want 0", got)
	}
}
