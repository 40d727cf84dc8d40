package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/edge-opcua/opcuacore/internal/opcua/status"
)

func TestFIFOOrder(t *testing.T) {
	q := New[int]("fifo")
	for i := 1; i <= 5; i++ {
		q.EnqueueLast(i)
	}
	for i := 1; i <= 5; i++ {
		v := q.DequeueBlocking()
		if v != i {
			t.Fatalf("dequeue %d: got %d, want %d", i, v, i)
		}
	}
}

func TestEnqueueFirstBypassesFIFO(t *testing.T) {
	q := New[string]("priority")
	q.EnqueueLast("a")
	q.EnqueueLast("b")
	q.EnqueueFirst("urgent")

	v := q.DequeueBlocking()
	if v != "urgent" {
		t.Fatalf("got %q, want urgent", v)
	}
	v = q.DequeueBlocking()
	if v != "a" {
		t.Fatalf("got %q, want a", v)
	}
}

func TestDequeueNonblockingWouldBlock(t *testing.T) {
	q := New[int]("empty")
	_, err := q.DequeueNonblocking()
	if status.CodeOf(err) != status.WouldBlock {
		t.Fatalf("expected WouldBlock, got %v", err)
	}
}

func TestDequeueNonblockingReturnsAvailable(t *testing.T) {
	q := New[int]("one")
	q.EnqueueLast(42)
	v, err := q.DequeueNonblocking()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42 {
		t.Fatalf("got %d, want 42", v)
	}
}

func TestDequeueBlockingWaitsForEnqueue(t *testing.T) {
	q := New[int]("blocking")
	var wg sync.WaitGroup
	wg.Add(1)
	var got int
	go func() {
		defer wg.Done()
		got = q.DequeueBlocking()
	}()

	time.Sleep(20 * time.Millisecond) // let the goroutine start waiting
	q.EnqueueLast(7)
	wg.Wait()

	if got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
}

func TestNoCoalescing(t *testing.T) {
	q := New[int]("distinct")
	q.EnqueueLast(1)
	q.EnqueueLast(1)
	if q.Len() != 2 {
		t.Fatalf("len = %d, want 2 (no coalescing of equal values)", q.Len())
	}
}
