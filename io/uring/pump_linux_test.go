//go:build linux

package uring

import (
	"testing"
)

func newTestPump() *Pump {
	return &Pump{
		waiters: make(map[uint64]chan Result),
		orphans: make(map[uint64]Result),
	}
}

func TestWaitThenHandleCQE(t *testing.T) {
	p := newTestPump()
	ch := p.Wait(42)
	p.handleCQE(42, Result{N: 7})
	select {
	case res := <-ch:
		if res.N != 7 {
			t.Fatalf("res.N = %d, want 7", res.N)
		}
	default:
		t.Fatalf("expected a buffered result")
	}
}

func TestHandleCQEBeforeWaitParksOrphan(t *testing.T) {
	p := newTestPump()
	p.handleCQE(9, Result{N: 3})
	if len(p.waiters) != 0 {
		t.Fatalf("expected no waiters yet")
	}
	ch := p.Wait(9)
	res := <-ch
	if res.N != 3 {
		t.Fatalf("res.N = %d, want 3", res.N)
	}
	if _, ok := p.orphans[9]; ok {
		t.Fatalf("orphan for ticket 9 should have been consumed")
	}
}

func TestWaitIsIdempotentForAnAlreadyWaitingTicket(t *testing.T) {
	p := newTestPump()
	ch1 := p.Wait(7)
	ch2 := p.Wait(7)
	if ch1 != ch2 {
		t.Fatalf("Wait(7) returned a different channel on the second call")
	}
	p.handleCQE(7, Result{N: 11})
	res := <-ch1
	if res.N != 11 {
		t.Fatalf("res.N = %d, want 11", res.N)
	}
}

func TestWaitDoesNotCrossTalkBetweenTickets(t *testing.T) {
	p := newTestPump()
	chA := p.Wait(1)
	chB := p.Wait(2)
	p.handleCQE(2, Result{N: 2})
	p.handleCQE(1, Result{N: 1})

	if res := <-chA; res.N != 1 {
		t.Fatalf("chA got N=%d, want 1", res.N)
	}
	if res := <-chB; res.N != 2 {
		t.Fatalf("chB got N=%d, want 2", res.N)
	}
}

// The test pump has no ring, so Close itself cannot run here; the body
// repeats drainOnClose's waiter loop and checks that the result it hands a
// pending waiter satisfies IsClosed.
func TestClosedWaiterReceivesErrClosed(t *testing.T) {
	p := newTestPump()
	ch := p.Wait(5)
	p.closed.Store(true)
	p.mu.Lock()
	for ticket, c := range p.waiters {
		delete(p.waiters, ticket)
		c <- Result{Err: ErrClosed}
	}
	p.mu.Unlock()
	res := <-ch
	if !IsClosed(res.Err) {
		t.Fatalf("res.Err = %v, want ErrClosed", res.Err)
	}
}
