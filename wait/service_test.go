package wait_test

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/momentics/mpr/wait"
)

func pipeFDs(t *testing.T) (r, w *os.File) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	t.Cleanup(func() {
		r.Close()
		w.Close()
	})
	return r, w
}

func TestHandlerFiresOnReadableData(t *testing.T) {
	svc, err := wait.NewService(nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	defer svc.Close()

	r, w := pipeFDs(t)

	var mu sync.Mutex
	fired := false
	h, err := svc.CreateHandler(int(r.Fd()), wait.Readable, func(h *wait.Handler, present wait.Mask) {
		mu.Lock()
		fired = true
		mu.Unlock()
	}, nil, 0)
	if err != nil {
		t.Fatalf("CreateHandler: %v", err)
	}
	defer svc.Disconnect(h, 1000)

	if _, err := w.Write([]byte("x")); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if err := svc.Poll(50); err != nil {
			t.Fatalf("Poll: %v", err)
		}
		mu.Lock()
		f := fired
		mu.Unlock()
		if f {
			return
		}
	}
	t.Fatal("handler never fired for readable pipe data")
}

func TestRecallSynthesizesReadiness(t *testing.T) {
	svc, err := wait.NewService(nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	defer svc.Close()

	r, _ := pipeFDs(t)

	calls := 0
	h, err := svc.CreateHandler(int(r.Fd()), wait.Readable, func(h *wait.Handler, present wait.Mask) {
		calls++
	}, nil, 0)
	if err != nil {
		t.Fatalf("CreateHandler: %v", err)
	}
	defer svc.Disconnect(h, 1000)

	svc.Recall(h)
	if err := svc.Poll(10); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if calls == 0 {
		t.Fatal("recall did not synthesize a readiness callback")
	}
}

func TestDisableMaskSuppressesRefire(t *testing.T) {
	svc, err := wait.NewService(nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	defer svc.Close()

	r, _ := pipeFDs(t)

	calls := 0
	h, err := svc.CreateHandler(int(r.Fd()), wait.Readable, func(h *wait.Handler, present wait.Mask) {
		calls++
	}, nil, 0)
	if err != nil {
		t.Fatalf("CreateHandler: %v", err)
	}
	defer svc.Disconnect(h, 1000)

	svc.Recall(h)
	svc.Poll(10) // fires once, clears disableMask to 0
	svc.Recall(h)
	svc.Poll(10) // handler not re-armed, must not fire again

	if calls != 1 {
		t.Fatalf("expected exactly 1 call after disableMask suppression, got %d", calls)
	}
}

func TestDisconnectWaitsForInUseDrain(t *testing.T) {
	svc, err := wait.NewService(nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	defer svc.Close()

	r, _ := pipeFDs(t)

	started := make(chan struct{})
	release := make(chan struct{})
	h, err := svc.CreateHandler(int(r.Fd()), wait.Readable, func(h *wait.Handler, present wait.Mask) {
		close(started)
		<-release
	}, nil, 0)
	if err != nil {
		t.Fatalf("CreateHandler: %v", err)
	}

	svc.Recall(h)
	go svc.Poll(10)

	<-started
	close(release)
	svc.Disconnect(h, 1000)
}
