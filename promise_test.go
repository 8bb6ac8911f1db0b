package vega

import (
	"errors"
	"testing"
)

func TestResolveSettlesFulfilled(t *testing.T) {
	p := Resolve(42)
	if p.Status() != Fulfilled {
		t.Fatalf("Status() = %v, want Fulfilled", p.Status())
	}
	v, err := Await(p)
	if err != nil || v != 42 {
		t.Fatalf("Await() = (%v, %v), want (42, nil)", v, err)
	}
}

func TestRejectSettlesRejected(t *testing.T) {
	wantErr := errors.New("boom")
	p := Reject[int](wantErr)
	if p.Status() != Rejected {
		t.Fatalf("Status() = %v, want Rejected", p.Status())
	}
	_, err := Await(p)
	if !errors.Is(err, wantErr) {
		t.Fatalf("Await() err = %v, want %v", err, wantErr)
	}
}

func TestResolveIsNoOpOnceSettled(t *testing.T) {
	p := newPromise[int]()
	p.state.resolve(1)
	p.state.resolve(2)
	v, err := Await(p)
	if err != nil || v != 1 {
		t.Fatalf("Await() = (%v, %v), want (1, nil); second resolve must be ignored", v, err)
	}
}

func TestAddContinuationAfterSettleRunsInline(t *testing.T) {
	p := Resolve("done")
	ran := false
	p.state.addContinuation(func() { ran = true })
	if !ran {
		t.Fatalf("continuation registered after settlement should run inline")
	}
}

func TestCreateExecutor(t *testing.T) {
	p := Create(func(resolve func(int), reject func(error)) {
		resolve(7)
	})
	v, err := Await(p)
	if err != nil || v != 7 {
		t.Fatalf("Await() = (%v, %v), want (7, nil)", v, err)
	}
}

func TestGoResolvesFromReturnValue(t *testing.T) {
	p := Go(func(aw *Awaiter) (int, error) {
		return 10, nil
	})
	v, err := Await(p)
	if err != nil || v != 10 {
		t.Fatalf("Await() = (%v, %v), want (10, nil)", v, err)
	}
}

func TestGoRejectsOnPanic(t *testing.T) {
	p := Go(func(aw *Awaiter) (int, error) {
		panic("kaboom")
	})
	_, err := Await(p)
	if err == nil {
		t.Fatalf("expected panic to reject the promise")
	}
}

func TestAwaitInChainsCoroutines(t *testing.T) {
	inner := Resolve(5)
	outer := Go(func(aw *Awaiter) (int, error) {
		v, err := AwaitIn(aw, inner)
		if err != nil {
			return 0, err
		}
		return v * 2, nil
	})
	v, err := Await(outer)
	if err != nil || v != 10 {
		t.Fatalf("Await() = (%v, %v), want (10, nil)", v, err)
	}
}

func TestTraceIDsAreDistinct(t *testing.T) {
	a := Resolve(1)
	b := Resolve(2)
	if a.TraceID() == b.TraceID() {
		t.Fatalf("expected distinct trace ids, got %q twice", a.TraceID())
	}
	if a.TraceID() == "" {
		t.Fatalf("expected a non-empty trace id")
	}
}

func TestGoVoid(t *testing.T) {
	ran := false
	p := GoVoid(func(aw *Awaiter) error {
		ran = true
		return nil
	})
	if _, err := Await(p); err != nil {
		t.Fatalf("Await() err = %v", err)
	}
	if !ran {
		t.Fatalf("GoVoid body did not run")
	}
}
