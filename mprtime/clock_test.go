package mprtime_test

import (
	"testing"
	"time"

	"github.com/momentics/mpr/mprtime"
)

func TestElapsedAndRemaining(t *testing.T) {
	mark := mprtime.Mark()
	time.Sleep(5 * time.Millisecond)
	if mprtime.Elapsed(mark) < 5 {
		t.Fatal("elapsed time too small")
	}
	if r := mprtime.Remaining(mark, 1); r != 0 {
		t.Fatalf("expected expired deadline to report 0 remaining, got %d", r)
	}
}

func TestParseTimeAcceptsMultipleLayouts(t *testing.T) {
	cases := []string{
		"2026-07-30T10:00:00Z",
		"2026-07-30",
		"Jul 30, 2026",
	}
	for _, s := range cases {
		if _, err := mprtime.ParseTime(s); err != nil {
			t.Errorf("ParseTime(%q) failed: %v", s, err)
		}
	}
}

func TestParseTimeRejectsGarbage(t *testing.T) {
	if _, err := mprtime.ParseTime("not-a-date"); err == nil {
		t.Fatal("expected error for unparseable time")
	}
}

func TestCondVarSignalWakesWaiter(t *testing.T) {
	cv := mprtime.NewCondVar()
	done := make(chan mprtime.WaitResult, 1)
	go func() { done <- cv.Wait(1000) }()
	time.Sleep(2 * time.Millisecond)
	cv.Signal()
	if r := <-done; r != mprtime.Signalled {
		t.Fatal("expected Signalled")
	}
}

func TestCondVarTimeout(t *testing.T) {
	cv := mprtime.NewCondVar()
	if r := cv.Wait(5); r != mprtime.Timeout {
		t.Fatal("expected Timeout")
	}
}

func TestRecursiveMutexReentrant(t *testing.T) {
	var rm mprtime.RecursiveMutex
	tok := mprtime.NewOwnerToken()
	rm.Lock(tok)
	rm.Lock(tok)
	rm.Unlock(tok)
	rm.Unlock(tok)
}
