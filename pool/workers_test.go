package pool_test

import (
	"sync"
	"testing"
	"time"

	"github.com/momentics/mpr/pool"
)

func TestStartRunsOnIdleWorker(t *testing.T) {
	wp := pool.NewWorkerPool(2, 0, nil)
	defer wp.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	res := wp.Start(func() { wg.Done() }, 0)
	if res != pool.StartOK {
		t.Fatalf("expected StartOK, got %v", res)
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("proc never ran")
	}
}

func TestStartReturnsBusyAtCapacity(t *testing.T) {
	wp := pool.NewWorkerPool(1, 0, nil)
	defer wp.Close()

	block := make(chan struct{})
	if res := wp.Start(func() { <-block }, 0); res != pool.StartOK {
		t.Fatalf("expected first Start to succeed, got %v", res)
	}
	// Give the worker goroutine a moment to transition to busy.
	time.Sleep(20 * time.Millisecond)

	if res := wp.Start(func() {}, 0); res != pool.StartBusy {
		t.Fatalf("expected StartBusy at capacity, got %v", res)
	}
	close(block)
}

func TestDedicateAndRelease(t *testing.T) {
	wp := pool.NewWorkerPool(2, 0, nil)
	defer wp.Close()

	w := wp.Dedicate()
	if w == nil {
		t.Fatal("expected a dedicated worker")
	}
	wp.Release(w)
}
