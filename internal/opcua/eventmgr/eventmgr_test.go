package eventmgr

import (
	"sync"
	"testing"
	"time"

	"github.com/edge-opcua/opcuacore/internal/opcua/timer"
)

func TestEnqueueRunsSequentially(t *testing.T) {
	var mu sync.Mutex
	var order []int32

	mgr := CreateAndStart(func(event int32, eltID uint32, params any, auxParam uintptr) {
		mu.Lock()
		order = append(order, event)
		mu.Unlock()
	}, "test-mgr")

	for i := int32(1); i <= 5; i++ {
		if err := mgr.Enqueue(i, 0, nil, 0, "evt"); err != nil {
			t.Fatalf("Enqueue error: %v", err)
		}
	}

	if err := mgr.StopAndDelete(); err != nil {
		t.Fatalf("StopAndDelete error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 5 {
		t.Fatalf("expected 5 events handled, got %d: %v", len(order), order)
	}
	for i, v := range order {
		if v != int32(i+1) {
			t.Fatalf("events handled out of order: %v", order)
		}
	}
}

func TestEnqueueAsNextBypassesFIFO(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	var order []int32

	mgr := CreateAndStart(func(event int32, eltID uint32, params any, auxParam uintptr) {
		mu.Lock()
		first := len(order) == 0
		order = append(order, event)
		mu.Unlock()
		if first {
			close(started)
			<-release
		}
	}, "test-mgr-next")

	mgr.Enqueue(1, 0, nil, 0, "first")
	<-started // handler is now blocked processing event 1
	mgr.Enqueue(2, 0, nil, 0, "normal")
	mgr.EnqueueAsNext(3, 0, nil, 0, "jumps-queue")
	close(release)

	if err := mgr.StopAndDelete(); err != nil {
		t.Fatalf("StopAndDelete error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 3 || order[0] != 1 || order[1] != 3 || order[2] != 2 {
		t.Fatalf("expected [1 3 2], got %v", order)
	}
}

func TestEnqueueAfterStopFails(t *testing.T) {
	mgr := CreateAndStart(func(event int32, eltID uint32, params any, auxParam uintptr) {}, "test-mgr-stopped")
	if err := mgr.StopAndDelete(); err != nil {
		t.Fatalf("StopAndDelete error: %v", err)
	}
	if err := mgr.Enqueue(1, 0, nil, 0, "too-late"); err == nil {
		t.Fatal("expected error enqueueing after stop")
	}
	if err := mgr.StopAndDelete(); err == nil {
		t.Fatal("expected error on double stop")
	}
}

func TestAddEventSatisfiesTimerDispatcher(t *testing.T) {
	received := make(chan int32, 1)
	mgr := CreateAndStart(func(event int32, eltID uint32, params any, auxParam uintptr) {
		received <- event
	}, "test-mgr-timer")
	defer mgr.StopAndDelete()

	var _ timer.Dispatcher = mgr
	mgr.AddEvent(timer.EventParams{Event: 42, DebugName: "from-timer"})

	select {
	case ev := <-received:
		if ev != 42 {
			t.Fatalf("got event %d, want 42", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for dispatched event")
	}
}
