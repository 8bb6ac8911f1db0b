package vega

import (
	"errors"
	"testing"
)

func TestAllFulfillsInOrder(t *testing.T) {
	p := All(
		FromPromise(Resolve(1)),
		FromValueFunc(func() int { return 2 }),
		FromPromiseFunc(func() *Promise[int] { return Resolve(3) }),
	)
	v, err := Await(p)
	if err != nil {
		t.Fatalf("Await() err = %v", err)
	}
	want := []int{1, 2, 3}
	if len(v) != len(want) {
		t.Fatalf("Await() = %v, want %v", v, want)
	}
	for i := range want {
		if v[i] != want[i] {
			t.Fatalf("Await() = %v, want %v", v, want)
		}
	}
}

func TestAllEmptyResolvesImmediately(t *testing.T) {
	p := All[int]()
	v, err := Await(p)
	if err != nil || len(v) != 0 {
		t.Fatalf("Await() = (%v, %v), want ([], nil)", v, err)
	}
}

func TestAllFirstRejectionWins(t *testing.T) {
	boom := errors.New("boom")
	p := All(
		FromPromise(Resolve(1)),
		FromPromise(Reject[int](boom)),
		FromPromise(Resolve(3)),
	)
	_, err := Await(p)
	if !errors.Is(err, boom) {
		t.Fatalf("Await() err = %v, want %v", err, boom)
	}
}

func TestAllVoidFulfillsWhenAllSucceed(t *testing.T) {
	p := AllVoid(
		AsSettleInfo(Resolve(1)),
		AsSettleInfo(Resolve("s")),
		AsSettleInfo(Resolve(Void{})),
	)
	if _, err := Await(p); err != nil {
		t.Fatalf("Await() err = %v", err)
	}
}

func TestAllVoidEmptyResolvesImmediately(t *testing.T) {
	p := AllVoid()
	if _, err := Await(p); err != nil {
		t.Fatalf("Await() err = %v", err)
	}
}

func TestAllVoidRejectsOnFirstFailure(t *testing.T) {
	boom := errors.New("boom")
	p := AllVoid(
		AsSettleInfo(Resolve(1)),
		AsSettleInfo(Reject[int](boom)),
	)
	_, err := Await(p)
	if !errors.Is(err, boom) {
		t.Fatalf("Await() err = %v, want %v", err, boom)
	}
}
