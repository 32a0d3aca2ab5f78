package dispatch_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/momentics/mpr/dispatch"
)

func TestScheduleFiresOnce(t *testing.T) {
	d := dispatch.New(nil)
	var fired atomic.Int32
	d.Schedule(func(ev *dispatch.Event) { fired.Add(1) }, 0, 0, 0, 0, nil)
	d.Service(50, false)
	if fired.Load() != 1 {
		t.Fatalf("expected exactly one fire, got %d", fired.Load())
	}
}

func TestOneThingServesExactlyOneEvent(t *testing.T) {
	d := dispatch.New(nil)
	var fired atomic.Int32
	d.Schedule(func(ev *dispatch.Event) { fired.Add(1) }, 0, 0, 0, 0, nil)
	d.Schedule(func(ev *dispatch.Event) { fired.Add(1) }, 0, 0, 0, 0, nil)
	served := d.Service(50, true)
	if served != 1 || fired.Load() != 1 {
		t.Fatalf("expected exactly one event served, got served=%d fired=%d", served, fired.Load())
	}
}

func TestRemoveCancelsTimer(t *testing.T) {
	d := dispatch.New(nil)
	var fired atomic.Int32
	ev := d.Schedule(func(ev *dispatch.Event) { fired.Add(1) }, 1000, 0, 0, 0, nil)
	d.Remove(ev)
	d.Service(10, false)
	if fired.Load() != 0 {
		t.Fatal("removed event should not fire")
	}
}

// TestSameDueTimersOrderByPriority schedules t+10 NORMAL, then t+10 HIGH,
// then t+5 NORMAL (in that order) and expects firing order t+5, t+10(HIGH),
// t+10(NORMAL): among equal due times, higher priority runs first, even
// when the higher-priority event is scheduled after a same-due event
// already sitting at the append-fast-path tail.
func TestSameDueTimersOrderByPriority(t *testing.T) {
	d := dispatch.New(nil)
	const normal, high = 0, 1
	var order []string
	var mu sync.Mutex
	record := func(name string) dispatch.Callback {
		return func(ev *dispatch.Event) {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
		}
	}
	d.Schedule(record("t10-normal"), 10, 0, normal, 0, nil)
	d.Schedule(record("t10-high"), 10, 0, high, 0, nil)
	d.Schedule(record("t5-normal"), 5, 0, normal, 0, nil)

	d.Service(100, false)

	mu.Lock()
	defer mu.Unlock()
	want := []string{"t5-normal", "t10-high", "t10-normal"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}

func TestContinuousEventRequeues(t *testing.T) {
	d := dispatch.New(nil)
	var fired atomic.Int32
	d.Schedule(func(ev *dispatch.Event) { fired.Add(1) }, 0, 5, 0, dispatch.FlagContinuous, nil)
	d.Service(40, false)
	if fired.Load() < 2 {
		t.Fatalf("expected continuous event to fire multiple times, got %d", fired.Load())
	}
}
